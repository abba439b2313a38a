package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
)

const (
	defaultTemplateDir = "."
	defaultLayoutDir   = "layouts"
)

// Renderer turns markdown templates into an HTML body wrapped in a layout and
// a plain-text body. Parsed files are cached; output never is. It is safe for
// concurrent use.
type Renderer struct {
	files       fs.FS
	md          goldmark.Markdown
	bodies      parsed[*body]
	layouts     parsed[*template.Template]
	templateDir string
	layoutDir   string
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithTemplateDir sets the directory templates are read from. Defaults to the
// filesystem root.
func WithTemplateDir(dir string) RendererOption {
	return func(r *Renderer) { r.templateDir = dir }
}

// WithLayoutDir sets the directory layouts are read from. Defaults to "layouts".
func WithLayoutDir(dir string) RendererOption {
	return func(r *Renderer) { r.layoutDir = dir }
}

// NewRenderer creates a Renderer reading from files.
func NewRenderer(files fs.FS, opts ...RendererOption) *Renderer {
	r := &Renderer{
		files:       files,
		md:          goldmark.New(goldmark.WithExtensions(NewButtonExtension())),
		templateDir: defaultTemplateDir,
		layoutDir:   defaultLayoutDir,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderResult is a rendered email together with its template's frontmatter.
type RenderResult struct {
	Metadata map[string]any
	HTML     string
	Text     string
}

type body struct {
	meta map[string]any
	tmpl *texttemplate.Template
}

type layoutData struct {
	Metadata map[string]any
	Content  template.HTML
}

// Render executes the template name with data and wraps its HTML in layout.
// Buttons appear in the text body as "Label: URL".
func (r *Renderer) Render(layout, name string, data any) (*RenderResult, error) {
	b, err := r.bodies.get(name, func() (*body, error) { return r.loadBody(name) })
	if err != nil {
		return nil, err
	}

	var md bytes.Buffer
	if err := b.tmpl.Execute(&md, data); err != nil {
		return nil, fmt.Errorf("%w: execute %s: %v", ErrRenderFailed, name, err)
	}

	var content bytes.Buffer
	if err := r.md.Convert(md.Bytes(), &content); err != nil {
		return nil, fmt.Errorf("%w: markdown %s: %v", ErrRenderFailed, name, err)
	}

	lt, err := r.layouts.get(layout, func() (*template.Template, error) { return r.loadLayout(layout) })
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := lt.Execute(&out, layoutData{Metadata: b.meta, Content: template.HTML(content.String())}); err != nil {
		return nil, fmt.Errorf("%w: layout %s: %v", ErrRenderFailed, layout, err)
	}

	return &RenderResult{
		Metadata: b.meta,
		HTML:     out.String(),
		Text:     ButtonsToText(md.String()),
	}, nil
}

func (r *Renderer) loadBody(name string) (*body, error) {
	raw, err := fs.ReadFile(r.files, path.Join(r.templateDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, name, err)
	}
	t, err := ParseTemplate(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}
	tmpl, err := texttemplate.New(name).Parse(t.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrRenderFailed, name, err)
	}
	return &body{meta: t.Metadata, tmpl: tmpl}, nil
}

func (r *Renderer) loadLayout(name string) (*template.Template, error) {
	raw, err := fs.ReadFile(r.files, path.Join(r.layoutDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLayoutNotFound, name, err)
	}
	t, err := template.New(name).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: parse layout %s: %v", ErrRenderFailed, name, err)
	}
	return t, nil
}

// parsed caches successfully loaded values by file name. Failed loads are not
// cached.
type parsed[T any] struct {
	mu    sync.Mutex
	items map[string]T
}

func (p *parsed[T]) get(name string, load func() (T, error)) (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if v, ok := p.items[name]; ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	if p.items == nil {
		p.items = make(map[string]T)
	}
	p.items[name] = v
	return v, nil
}
