package handler

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	printinfra "github.com/appzetogit/indiankart-sub000/internal/infrastructure/printing"
	"github.com/gin-gonic/gin"
)

// DocumentFileHandler serves PDFs kept by the document storage
type DocumentFileHandler struct {
	BaseHandler
	storage printinfra.PDFStorage
}

// NewDocumentFileHandler creates a new DocumentFileHandler
func NewDocumentFileHandler(storage printinfra.PDFStorage) *DocumentFileHandler {
	return &DocumentFileHandler{storage: storage}
}

// Download godoc
// @ID           downloadDocument
// @Summary      Download a stored label/invoice PDF
// @Tags         documents
// @Produce      application/pdf
// @Param        path path string true "Stored path, e.g. 2024/05/1715000000-INV-ORD-K7M2QZ.pdf"
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Router       /documents/files/{path} [get]
func (h *DocumentFileHandler) Download(c *gin.Context) {
	rel := strings.TrimPrefix(c.Param("path"), "/")
	if rel == "" {
		h.BadRequest(c, "Document path is required")
		return
	}

	file, err := h.storage.Get(c.Request.Context(), rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			h.NotFound(c, "Document not found")
			return
		}
		h.HandleError(c, err)
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", `inline; filename="`+path.Base(rel)+`"`)
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}
