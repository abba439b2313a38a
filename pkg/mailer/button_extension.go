package mailer

import (
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Button markup is [!button|Label](URL). In HTML it becomes an anchor with
// class "btn"; in plain text it becomes "Label: URL".
var buttonPattern = regexp.MustCompile(`\[!button\|([^\]]*)\]\(([^)]*)\)`)

// button is the inline AST node for a parsed button.
type button struct {
	ast.BaseInline
	label []byte
	href  []byte
}

var kindButton = ast.NewNodeKind("Button")

func (b *button) Kind() ast.NodeKind { return kindButton }

func (b *button) Dump(source []byte, level int) {
	ast.DumpHelper(b, source, level, map[string]string{
		"Label": string(b.label),
		"Href":  string(b.href),
	}, nil)
}

type buttons struct{}

// NewButtonExtension returns a goldmark extension that renders button markup
// as call-to-action links.
func NewButtonExtension() goldmark.Extender {
	return buttons{}
}

func (ext buttons) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(util.Prioritized(ext, 50)))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(util.Prioritized(ext, 50)))
}

func (buttons) Trigger() []byte { return []byte{'['} }

// Parse consumes a button when the markup starts at the reader position.
// Anything else is left to the regular link parser.
func (buttons) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	loc := buttonPattern.FindSubmatchIndex(line)
	if loc == nil || loc[0] != 0 {
		return nil
	}

	node := &button{
		label: append([]byte(nil), line[loc[2]:loc[3]]...),
		href:  append([]byte(nil), line[loc[4]:loc[5]]...),
	}
	block.Advance(loc[1])
	return node
}

func (ext buttons) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(kindButton, ext.render)
}

func (buttons) render(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		b := node.(*button)
		_, _ = w.WriteString(`<a href="`)
		_, _ = w.Write(util.EscapeHTML(b.href))
		_, _ = w.WriteString(`" class="btn">`)
		_, _ = w.Write(util.EscapeHTML(b.label))
		_, _ = w.WriteString(`</a>`)
	}
	return ast.WalkContinue, nil
}

// ButtonsToText rewrites button markup as "Label: URL" for plain-text bodies.
func ButtonsToText(markdown string) string {
	return buttonPattern.ReplaceAllString(markdown, "$1: $2")
}
