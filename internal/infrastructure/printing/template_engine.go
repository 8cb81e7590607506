package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"maps"
	"strings"
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/domain/invoice"
	"github.com/appzetogit/indiankart-sub000/internal/domain/printing"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TemplateEngine parses and executes the document templates with the
// formatting helpers used on labels and invoices.
type TemplateEngine struct {
	funcMap template.FuncMap
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithFuncs adds or overrides template functions
func WithFuncs(funcs template.FuncMap) TemplateEngineOption {
	return func(e *TemplateEngine) {
		maps.Copy(e.funcMap, funcs)
	}
}

// NewTemplateEngine creates a new template engine with default configuration
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{}

	e.funcMap = template.FuncMap{
		// Money
		"formatAmount": formatAmount,
		"formatMoney":  formatMoney,
		"formatRate":   formatRate,

		// Dates
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,

		// Strings
		"upper": strings.ToUpper,
		"title": titleCase,
		"join":  strings.Join,

		// Layout
		"pageCSS": pageCSS,
		"inc":     func(i int) int { return i + 1 },
		"isLast":  func(i, n int) bool { return i == n-1 },
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Parse parses a named template with the engine functions
func (e *TemplateEngine) Parse(name, content string) (*template.Template, error) {
	if strings.TrimSpace(content) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "template content is empty", nil)
	}
	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return nil, NewRenderError(ErrCodeTemplateFailed, "failed to parse template "+name, err)
	}
	return tmpl, nil
}

// Execute runs tmpl against data and returns the produced HTML
func (e *TemplateEngine) Execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to execute template "+tmpl.Name(), err)
	}
	return buf.String(), nil
}

// RenderString parses and executes a template string in one step
func (e *TemplateEngine) RenderString(name, content string, data any) (string, error) {
	tmpl, err := e.Parse(name, content)
	if err != nil {
		return "", err
	}
	return e.Execute(tmpl, data)
}

// formatAmount renders a two decimal amount, e.g. 1694.92
func formatAmount(d decimal.Decimal) string {
	return invoice.FormatAmount(d)
}

// formatMoney renders an amount with the rupee sign, e.g. ₹2500.00
func formatMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-₹" + invoice.FormatAmount(d.Abs())
	}
	return "₹" + invoice.FormatAmount(d)
}

// formatRate renders a fractional rate as a percentage, e.g. 0.18 -> 18.00%
func formatRate(d decimal.Decimal) string {
	return d.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// formatDate renders dd/mm/yyyy
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

// formatDateTime renders dd/mm/yyyy, hh:mm
func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006, 15:04")
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// pageCSS returns the @page rule body for a page setup
func pageCSS(setup printing.PageSetup) template.CSS {
	w, h := setup.PaperSize.Dimensions()
	if setup.Orientation == printing.OrientationLandscape {
		w, h = h, w
	}
	m := setup.Margins
	return template.CSS(fmt.Sprintf("size: %dmm %dmm; margin: %dmm %dmm %dmm %dmm;",
		w, h, m.Top, m.Right, m.Bottom, m.Left))
}
