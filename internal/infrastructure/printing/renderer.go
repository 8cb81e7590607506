package printing

import (
	"bytes"
	"context"
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/domain/printing"
)

// RenderRequest contains the parameters for rendering an HTML document to PDF
type RenderRequest struct {
	// HTML is the complete document produced by DocumentRenderer
	HTML string
	// Setup is the paper size, orientation and margins
	Setup printing.PageSetup
	// Title for the PDF document metadata
	Title string
	// Timeout overrides the default rendering timeout
	Timeout time.Duration
}

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

// PDFRenderer converts HTML into PDF bytes
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}

// RenderError represents an error during rendering or storage
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
	ErrCodeTemplateFailed   = "TEMPLATE_FAILED"
	ErrCodePDFUnavailable   = "PDF_UNAVAILABLE"
	ErrCodeStorageFailed    = "STORAGE_FAILED"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// estimatePageCount counts page objects in a PDF byte stream.
// It is a heuristic and returns at least 1 for non-empty input.
func estimatePageCount(pdf []byte) int {
	if len(pdf) == 0 {
		return 0
	}
	count := bytes.Count(pdf, []byte("/Type /Page")) - bytes.Count(pdf, []byte("/Type /Pages"))
	if count < 1 {
		return 1
	}
	return count
}
