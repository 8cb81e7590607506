package printing

import (
	"context"
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/domain/printing"
	"go.uber.org/zap"
)

// DocumentRendererConfig wires the optional PDF engine and storage
type DocumentRendererConfig struct {
	Templates *TemplateStore
	// PDF is nil when no PDF engine is configured; PDF requests then fail
	PDF PDFRenderer
	// Storage is nil when rendered PDFs are not kept
	Storage PDFStorage
	Timeout time.Duration
	Logger  *zap.Logger
}

// DocumentRenderer turns printable documents into HTML or PDF output
type DocumentRenderer struct {
	templates *TemplateStore
	pdf       PDFRenderer
	storage   PDFStorage
	timeout   time.Duration
	logger    *zap.Logger
}

// documentData is the root object handed to the document template
type documentData struct {
	Title     string
	Setup     printing.PageSetup
	Documents []printing.PrintableDocument
}

// NewDocumentRenderer creates a renderer, loading the embedded templates when none are given
func NewDocumentRenderer(config *DocumentRendererConfig) (*DocumentRenderer, error) {
	if config == nil {
		config = &DocumentRendererConfig{}
	}
	templates := config.Templates
	if templates == nil {
		var err error
		templates, err = NewTemplateStore(nil)
		if err != nil {
			return nil, err
		}
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentRenderer{
		templates: templates,
		pdf:       config.PDF,
		storage:   config.Storage,
		timeout:   config.Timeout,
		logger:    logger,
	}, nil
}

// SupportsPDF reports whether a PDF engine is configured
func (r *DocumentRenderer) SupportsPDF() bool {
	return r.pdf != nil
}

// RenderHTML renders docs into one HTML page, one sheet per order
func (r *DocumentRenderer) RenderHTML(docs []printing.PrintableDocument) (string, error) {
	if len(docs) == 0 {
		return "", NewRenderError(ErrCodeInvalidHTML, "no documents to render", nil)
	}
	return r.templates.engine.Execute(r.templates.Document(), documentData{
		Title:     documentTitle(docs),
		Setup:     docs[0].PageSetup,
		Documents: docs,
	})
}

// Render produces the documents in the requested format. PDF output is
// stored when a storage backend is configured.
func (r *DocumentRenderer) Render(ctx context.Context, format printing.OutputFormat, docs []printing.PrintableDocument) (*printing.RenderedDocument, error) {
	html, err := r.RenderHTML(docs)
	if err != nil {
		return nil, err
	}

	out := &printing.RenderedDocument{
		FileName:    fileName(format, docs),
		Format:      format,
		ContentType: format.ContentType(),
		PageCount:   len(docs),
	}

	if format != printing.OutputFormatPDF {
		out.Content = []byte(html)
		return out, nil
	}

	if r.pdf == nil {
		return nil, NewRenderError(ErrCodePDFUnavailable, "PDF rendering is not configured", nil)
	}

	result, err := r.pdf.Render(ctx, &RenderRequest{
		HTML:    html,
		Setup:   docs[0].PageSetup,
		Title:   documentTitle(docs),
		Timeout: r.timeout,
	})
	if err != nil {
		return nil, err
	}
	out.Content = result.PDFData
	out.PageCount = result.PageCount

	if r.storage != nil {
		stored, err := r.storage.Store(ctx, &StoreRequest{
			FileName:    out.FileName,
			ContentType: out.ContentType,
			Data:        out.Content,
		})
		if err != nil {
			// the caller still gets the PDF bytes
			r.logger.Warn("failed to store rendered document",
				zap.String("file", out.FileName),
				zap.Error(err))
		} else {
			out.URL = stored.URL
		}
	}

	return out, nil
}

func documentTitle(docs []printing.PrintableDocument) string {
	if len(docs) == 1 {
		return docs[0].Invoice.InvoiceNumber
	}
	return "Orders " + docs[0].PrintedAt.Format("02/01/2006 15:04")
}

func fileName(format printing.OutputFormat, docs []printing.PrintableDocument) string {
	if len(docs) == 1 {
		return docs[0].FileName(format)
	}
	return printing.BulkFileName(docs[0].PrintedAt, format)
}
