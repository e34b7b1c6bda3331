package main

import "intlpipe/cmd/intlx/cmd"

func main() {
	cmd.Execute()
}
