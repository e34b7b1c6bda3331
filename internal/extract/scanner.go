// Package extract implements the extraction pipeline: scan Go sources for
// translation call-sites, normalize the messages into ICU interchange
// records, and write one JSON document.
package extract

import (
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"

	"intlpipe/internal/icu"
	"intlpipe/internal/message"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo

// Scanner locates translation call-sites in Go packages and produces message
// definitions. Matched calls have the shape fn(id, format, args...) where id
// and format must be constant strings and format is ICU message syntax.
//
// A comment attached to the call provides translator context. Lines of the
// form "Example <arg>: <value>" become example values for that argument; the
// remaining lines become the message description.
type Scanner struct {
	// Functions lists the calls to match, as pkg.Func for package-level
	// functions or pkg.Type.Method for methods (e.g. "intl.T",
	// "intl.Printer.T").
	Functions []string

	// RequireDescription warns on matched calls with no attached comment.
	RequireDescription bool

	// Dir is the directory the package loader runs in; empty means the
	// current directory.
	Dir string

	// Warnings receives recoverable scan issues. Must be non-nil.
	Warnings *Warnings
}

// Scan loads the packages named by patterns and returns every message
// definition found, in encounter order. The same id may appear more than
// once. Load or type-check failures are fatal; per-call issues (non-constant
// strings, bad ICU syntax, missing descriptions) are warnings.
func (s *Scanner) Scan(patterns []string) ([]*message.Message, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	cfg := &packages.Config{Mode: loadMode, Dir: s.Dir}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("extract: load packages: %w", err)
	}
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			return nil, fmt.Errorf("extract: %s: %s", pkg.PkgPath, e.Msg)
		}
	}

	match := make(map[string]bool, len(s.Functions))
	for _, fn := range s.Functions {
		match[fn] = true
	}

	var found []*message.Message
	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			found = append(found, s.scanFile(pkg, file, match)...)
		}
	}
	return found, nil
}

func (s *Scanner) scanFile(pkg *packages.Package, file *ast.File, match map[string]bool) []*message.Message {
	cmap := ast.NewCommentMap(pkg.Fset, file, file.Comments)

	var found []*message.Message
	var stack []ast.Node
	ast.Inspect(file, func(n ast.Node) bool {
		if n == nil {
			stack = stack[:len(stack)-1]
			return true
		}
		stack = append(stack, n)
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		if !match[calleeName(pkg.TypesInfo, call)] {
			return true
		}
		pos := s.position(pkg, call.Lparen)
		if len(call.Args) < 2 {
			s.Warnings.Addf(pos, "translation call needs id and format arguments")
			return true
		}
		id, ok := constString(pkg.TypesInfo, call.Args[0])
		if !ok {
			s.Warnings.Addf(pos, "message id is not a constant string")
			return true
		}
		format, ok := constString(pkg.TypesInfo, call.Args[1])
		if !ok {
			s.Warnings.Addf(pos, "message format for %q is not a constant string", id)
			return true
		}
		parsed, err := icu.ParseFull(format)
		if err != nil {
			s.Warnings.Addf(pos, "message %q: %v", id, err)
			return true
		}

		msg := parsed.Message(id)
		msg.Position = pos
		msg.Description, msg.Examples = splitComment(commentFor(cmap, stack))
		if s.RequireDescription && msg.Description == "" {
			s.Warnings.Addf(pos, "message %q has no description", id)
		}
		found = append(found, msg)
		return true
	})
	return found
}

// commentFor returns the text of the comment attached to the call's
// enclosing statement. Comments bind to statements and declarations, not to
// the call expression itself, so the lookup walks the ancestor stack
// outward: the nearest enclosing statement settles it, with value specs and
// declarations checked along the way for package-level initializers.
func commentFor(cmap ast.CommentMap, stack []ast.Node) string {
	for i := len(stack) - 1; i >= 0; i-- {
		switch stack[i].(type) {
		case ast.Stmt:
			return commentText(cmap, stack[i])
		case *ast.ValueSpec, *ast.GenDecl:
			if text := commentText(cmap, stack[i]); text != "" {
				return text
			}
		}
	}
	return ""
}

func commentText(cmap ast.CommentMap, n ast.Node) string {
	if cs := cmap.Filter(n).Comments(); len(cs) > 0 {
		return strings.TrimSpace(cs[0].Text())
	}
	return ""
}

// calleeName resolves the called function to pkg.Func, or pkg.Type.Method
// for method values.
func calleeName(info *types.Info, call *ast.CallExpr) string {
	switch fun := call.Fun.(type) {
	case *ast.SelectorExpr:
		if sel := info.Selections[fun]; sel != nil && sel.Kind() == types.MethodVal {
			return path.Base(strings.TrimPrefix(sel.Recv().String(), "*")) + "." + fun.Sel.Name
		}
		if obj := info.Uses[fun.Sel]; obj != nil && obj.Pkg() != nil {
			return obj.Pkg().Name() + "." + obj.Name()
		}
	case *ast.Ident:
		if obj := info.Uses[fun]; obj != nil && obj.Pkg() != nil {
			return obj.Pkg().Name() + "." + obj.Name()
		}
	}
	return ""
}

func constString(info *types.Info, e ast.Expr) (string, bool) {
	v := info.Types[e].Value
	if v == nil || v.Kind() != constant.String {
		return "", false
	}
	return constant.StringVal(v), true
}

func (s *Scanner) position(pkg *packages.Package, pos token.Pos) string {
	p := pkg.Fset.Position(pos)
	return fmt.Sprintf("%s/%s:%d:%d", pkg.PkgPath, filepath.Base(p.Filename), p.Line, p.Column)
}

// splitComment separates "Example <arg>: <value>" directives from the free
// text of a call comment. The remaining lines, joined, form the description.
func splitComment(text string) (string, map[string][]string) {
	if text == "" {
		return "", nil
	}
	var descLines []string
	var examples map[string][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "Example "); ok {
			if arg, value, ok := strings.Cut(rest, ":"); ok {
				arg = strings.TrimSpace(arg)
				value = strings.TrimSpace(value)
				if arg != "" && value != "" {
					if examples == nil {
						examples = make(map[string][]string)
					}
					examples[arg] = append(examples[arg], value)
					continue
				}
			}
		}
		descLines = append(descLines, line)
	}
	return strings.Join(descLines, " "), examples
}
