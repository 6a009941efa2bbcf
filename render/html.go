// Package render turns calculator content, results and blog posts into HTML
// pages and CLI tables.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"propcalc/calculator"
	"propcalc/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

type FieldView struct {
	domain.FieldSpec
	Value   string
	Checked bool
}

type CalculatorPage struct {
	Content  domain.Content
	Fields   []FieldView
	Results  []domain.Result
	Warnings []calculator.Warning
}

type CategoryGroup struct {
	Name        string
	Calculators []domain.Content
}

type PostPage struct {
	Post domain.Post
	Body template.HTML
}

// Renderer executes the embedded page templates. Each page is parsed with the
// shared layout once at construction.
type Renderer struct {
	pages    map[string]*template.Template
	siteName string
}

var pageNames = []string{"index", "calculator", "blog_index", "blog_post", "error"}

func NewRenderer(siteName string) (*Renderer, error) {
	funcs := template.FuncMap{
		"result":   FormatResult,
		"currency": FormatCurrency,
		"siteName": func() string { return siteName },
		"date":     formatDate,
		"join":     strings.Join,
	}

	r := &Renderer{pages: make(map[string]*template.Template), siteName: siteName}
	for _, name := range pageNames {
		t, err := template.New("layout.tmpl").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.tmpl", "templates/"+name+".tmpl")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// execute renders into a buffer first so a template error never leaves a
// half-written page.
func (r *Renderer) execute(w io.Writer, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("executing %s template: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func (r *Renderer) Index(w io.Writer, contents []domain.Content) error {
	var groups []CategoryGroup
	for _, c := range contents {
		if n := len(groups); n == 0 || groups[n-1].Name != c.Category {
			groups = append(groups, CategoryGroup{Name: c.Category})
		}
		g := &groups[len(groups)-1]
		g.Calculators = append(g.Calculators, c)
	}
	return r.execute(w, "index", struct {
		Title  string
		Groups []CategoryGroup
	}{"Real Estate Calculators", groups})
}

func (r *Renderer) Calculator(w io.Writer, c domain.Content, values domain.Values, results []domain.Result, warnings []calculator.Warning) error {
	return r.execute(w, "calculator", struct {
		Title string
		Page  CalculatorPage
	}{c.Title, NewCalculatorPage(c, values, results, warnings)})
}

// BlogIndex renders one page of posts. page is 1-based.
func (r *Renderer) BlogIndex(w io.Writer, posts []domain.Post, page int, hasMore bool) error {
	var prev, next int
	if page > 1 {
		prev = page - 1
	}
	if hasMore {
		next = page + 1
	}
	return r.execute(w, "blog_index", struct {
		Title    string
		Posts    []domain.Post
		PrevPage int
		NextPage int
	}{"Blog", posts, prev, next})
}

func (r *Renderer) BlogPost(w io.Writer, post domain.Post) error {
	body, err := Markdown(post.Body)
	if err != nil {
		return err
	}
	return r.execute(w, "blog_post", struct {
		Title string
		Page  PostPage
	}{post.Title, PostPage{Post: post, Body: body}})
}

func (r *Renderer) Error(w io.Writer, status int, message string) error {
	return r.execute(w, "error", struct {
		Title   string
		Status  int
		Message string
	}{"Error", status, message})
}

// NewCalculatorPage pairs every field with its current value for the form.
func NewCalculatorPage(c domain.Content, values domain.Values, results []domain.Result, warnings []calculator.Warning) CalculatorPage {
	fields := make([]FieldView, 0, len(c.Calculator.Fields))
	for _, f := range c.Calculator.Fields {
		fv := FieldView{FieldSpec: f}
		switch f.Type {
		case domain.FieldBoolean:
			fv.Checked = values.Bool(f.Name)
		case domain.FieldNumber:
			fv.Value = trimNumber(values.Number(f.Name))
		default:
			fv.Value = values.Text(f.Name)
		}
		fields = append(fields, fv)
	}
	return CalculatorPage{Content: c, Fields: fields, Results: results, Warnings: warnings}
}
