package printing

import (
	"html/template"
	"testing"
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/domain/printing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		input    decimal.Decimal
		expected string
	}{
		{decimal.NewFromInt(2500), "₹2500.00"},
		{decimal.RequireFromString("1694.915254"), "₹1694.92"},
		{decimal.Zero, "₹0.00"},
		{decimal.NewFromInt(-40), "-₹40.00"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatMoney(tt.input))
		})
	}
}

func TestFormatAmountAndRate(t *testing.T) {
	assert.Equal(t, "305.08", formatAmount(decimal.RequireFromString("305.084745")))
	assert.Equal(t, "18.00%", formatRate(decimal.RequireFromString("0.18")))
	assert.Equal(t, "5.50%", formatRate(decimal.RequireFromString("0.055")))
}

func TestFormatDates(t *testing.T) {
	ts := time.Date(2026, 10, 16, 15, 4, 0, 0, time.UTC)

	assert.Equal(t, "16/10/2026", formatDate(ts))
	assert.Equal(t, "16/10/2026, 15:04", formatDateTime(ts))
	assert.Empty(t, formatDate(time.Time{}))
	assert.Empty(t, formatDateTime(time.Time{}))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Out For Delivery", titleCase("out for delivery"))
	assert.Equal(t, "Indiankart", titleCase("INDIANKART"))
}

func TestPageCSS(t *testing.T) {
	assert.Equal(t, template.CSS("size: 210mm 297mm; margin: 10mm 10mm 10mm 10mm;"),
		pageCSS(printing.DefaultPageSetup()))

	landscape := printing.PageSetup{
		PaperSize:   printing.PaperSizeA5,
		Orientation: printing.OrientationLandscape,
	}
	assert.Equal(t, template.CSS("size: 210mm 148mm; margin: 0mm 0mm 0mm 0mm;"), pageCSS(landscape))
}

func TestTemplateEngine_RenderString(t *testing.T) {
	engine := NewTemplateEngine()

	html, err := engine.RenderString("total", `<b>{{formatMoney .}}</b>`, decimal.NewFromInt(2540))
	require.NoError(t, err)
	assert.Equal(t, "<b>₹2540.00</b>", html)
}

func TestTemplateEngine_EscapesData(t *testing.T) {
	engine := NewTemplateEngine()

	html, err := engine.RenderString("name", `<td>{{.}}</td>`, `<script>alert(1)</script>`)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestTemplateEngine_Errors(t *testing.T) {
	engine := NewTemplateEngine()

	_, err := engine.Parse("empty", "  ")
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)

	_, err = engine.Parse("broken", "{{if}")
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeTemplateFailed, renderErr.Code)

	_, err = engine.RenderString("missing", "{{.Nope.Deeper}}", struct{}{})
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeTemplateFailed, renderErr.Code)
}

func TestTemplateEngine_WithFuncs(t *testing.T) {
	engine := NewTemplateEngine(WithFuncs(template.FuncMap{
		"upper": func(s string) string { return "custom:" + s },
	}))

	html, err := engine.RenderString("upper", `{{upper "x"}}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "custom:x", html)
}
