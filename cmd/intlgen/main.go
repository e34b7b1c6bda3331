package main

import "intlpipe/cmd/intlgen/cmd"

func main() {
	cmd.Execute()
}
