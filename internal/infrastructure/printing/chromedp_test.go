package printing

import (
	"context"
	"testing"
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/domain/printing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChromedpRenderer_Defaults(t *testing.T) {
	r := NewChromedpRenderer(nil)
	defer r.Close()

	assert.Equal(t, defaultChromeTimeout, r.config.DefaultTimeout)
	assert.Equal(t, defaultScale, r.config.Scale)
	assert.NotNil(t, r.logger)
	assert.NotNil(t, r.allocCtx)
}

func TestNewChromedpRenderer_RemoteURL(t *testing.T) {
	r := NewChromedpRenderer(&ChromedpConfig{
		RemoteURL:      "ws://chrome:9222",
		DefaultTimeout: 5 * time.Second,
	})
	defer r.Close()

	assert.Equal(t, 5*time.Second, r.config.DefaultTimeout)
	assert.NoError(t, r.Close())
}

func TestBuildPrintParams(t *testing.T) {
	tests := []struct {
		name          string
		setup         printing.PageSetup
		width, height float64
	}{
		{
			name:   "A4 portrait",
			setup:  printing.DefaultPageSetup(),
			width:  210 / 25.4,
			height: 297 / 25.4,
		},
		{
			name: "A4 landscape swaps the axes",
			setup: printing.PageSetup{
				PaperSize:   printing.PaperSizeA4,
				Orientation: printing.OrientationLandscape,
				Margins:     printing.DefaultMargins(),
			},
			width:  297 / 25.4,
			height: 210 / 25.4,
		},
		{
			name: "4x6 label",
			setup: printing.PageSetup{
				PaperSize:   printing.PaperSizeLabel4x6,
				Orientation: printing.OrientationPortrait,
			},
			width:  102 / 25.4,
			height: 152 / 25.4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := buildPrintParams(&RenderRequest{HTML: "<p>x</p>", Setup: tt.setup}, 1.0)

			assert.InDelta(t, tt.width, params.paperWidth, 0.001)
			assert.InDelta(t, tt.height, params.paperHeight, 0.001)
			assert.Equal(t, 1.0, params.scale)
		})
	}
}

func TestBuildPrintParams_Margins(t *testing.T) {
	margins, err := printing.NewMargins(5, 10, 15, 20)
	require.NoError(t, err)

	params := buildPrintParams(&RenderRequest{
		HTML: "<p>x</p>",
		Setup: printing.PageSetup{
			PaperSize: printing.PaperSizeA4,
			Margins:   margins,
		},
	}, 1.0)

	assert.InDelta(t, 5/25.4, params.marginTop, 0.001)
	assert.InDelta(t, 10/25.4, params.marginRight, 0.001)
	assert.InDelta(t, 15/25.4, params.marginBottom, 0.001)
	assert.InDelta(t, 20/25.4, params.marginLeft, 0.001)
}

func TestValidateRenderRequest(t *testing.T) {
	tests := []struct {
		name string
		req  *RenderRequest
		code string
	}{
		{name: "nil request", req: nil, code: ErrCodeInvalidHTML},
		{name: "empty html", req: &RenderRequest{Setup: printing.DefaultPageSetup()}, code: ErrCodeInvalidHTML},
		{name: "whitespace html", req: &RenderRequest{HTML: " \n\t ", Setup: printing.DefaultPageSetup()}, code: ErrCodeInvalidHTML},
		{
			name: "unknown paper",
			req:  &RenderRequest{HTML: "<p>x</p>", Setup: printing.PageSetup{PaperSize: "LETTER"}},
			code: ErrCodeInvalidPaperSize,
		},
		{name: "valid", req: &RenderRequest{HTML: "<p>x</p>", Setup: printing.DefaultPageSetup()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRenderRequest(tt.req)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			var renderErr *RenderError
			require.ErrorAs(t, err, &renderErr)
			assert.Equal(t, tt.code, renderErr.Code)
		})
	}
}

func TestChromedpRenderer_RejectsInvalidRequestWithoutBrowser(t *testing.T) {
	r := NewChromedpRenderer(nil)
	defer r.Close()

	_, err := r.Render(context.Background(), &RenderRequest{Setup: printing.DefaultPageSetup()})

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)
}

func TestRenderError(t *testing.T) {
	cause := context.DeadlineExceeded
	err := NewRenderError(ErrCodeRenderTimeout, "PDF rendering timed out", cause)

	assert.Equal(t, "PDF rendering timed out: context deadline exceeded", err.Error())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "no cause", NewRenderError(ErrCodeRenderFailed, "no cause", nil).Error())
}

func TestEstimatePageCount(t *testing.T) {
	assert.Equal(t, 0, estimatePageCount(nil))
	assert.Equal(t, 1, estimatePageCount([]byte("%PDF-1.4 garbage")))

	pdf := []byte("<< /Type /Pages /Count 2 >> << /Type /Page >> << /Type /Page >>")
	assert.Equal(t, 2, estimatePageCount(pdf))
}
