// Package printing renders shipping labels and tax invoices.
//
// DocumentRenderer executes the embedded html/template document (one sheet per
// order, page breaks in between) and, when a PDFRenderer is configured, prints
// it to PDF through Chrome DevTools. Rendered PDFs can be kept on the local file
// system or in an S3-compatible bucket through PDFStorage.
//
// Example usage:
//
//	renderer, err := NewDocumentRenderer(&DocumentRendererConfig{
//	    PDF:     NewChromedpRenderer(&ChromedpConfig{RemoteURL: "ws://chrome:9222"}),
//	    Storage: fsStorage,
//	})
//	if err != nil {
//	    return err
//	}
//	out, err := renderer.Render(ctx, printing.OutputFormatPDF, docs)
package printing
