package printing

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sync"
)

//go:embed templates/*.html
var templateFS embed.FS

// DocumentTemplateFile is the file name of the label + tax invoice template
const DocumentTemplateFile = "document.html"

// TemplateStore holds the parsed document template.
// It supports loading from an external directory (for customization)
// with fallback to the embedded template.
type TemplateStore struct {
	externalDir string
	engine      *TemplateEngine

	mu       sync.RWMutex
	document *template.Template
}

// TemplateStoreConfig configures the template store
type TemplateStoreConfig struct {
	// ExternalDir is the directory to load templates from.
	// If empty or the file is missing there, the embedded template is used.
	ExternalDir string
	Engine      *TemplateEngine
}

// NewTemplateStore creates a new template store and parses the templates
func NewTemplateStore(config *TemplateStoreConfig) (*TemplateStore, error) {
	if config == nil {
		config = &TemplateStoreConfig{}
	}
	engine := config.Engine
	if engine == nil {
		engine = NewTemplateEngine()
	}

	store := &TemplateStore{
		externalDir: config.ExternalDir,
		engine:      engine,
	}
	if err := store.Reload(); err != nil {
		return nil, err
	}
	return store, nil
}

// Document returns the parsed label + invoice template
func (s *TemplateStore) Document() *template.Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.document
}

// Reload re-reads and re-parses the templates
func (s *TemplateStore) Reload() error {
	content, err := s.loadTemplateContent(DocumentTemplateFile)
	if err != nil {
		return fmt.Errorf("failed to load template %s: %w", DocumentTemplateFile, err)
	}
	tmpl, err := s.engine.Parse(DocumentTemplateFile, content)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.document = tmpl
	s.mu.Unlock()
	return nil
}

// loadTemplateContent loads template content from external dir or embedded
func (s *TemplateStore) loadTemplateContent(name string) (string, error) {
	if s.externalDir != "" {
		if content, err := os.ReadFile(filepath.Join(s.externalDir, name)); err == nil {
			return string(content), nil
		}
	}

	content, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return "", fmt.Errorf("embedded template not found: %s: %w", name, err)
	}
	return string(content), nil
}
