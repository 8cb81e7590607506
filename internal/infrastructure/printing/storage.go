package printing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
)

// PDFStorage keeps generated documents so they can be downloaded again
type PDFStorage interface {
	// Store saves a document and returns where it can be fetched
	Store(ctx context.Context, req *StoreRequest) (*StoreResult, error)
	// Get opens a stored document by its relative path
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete removes a stored document; deleting a missing file is not an error
	Delete(ctx context.Context, path string) error
}

// StoreRequest contains the parameters for storing a document
type StoreRequest struct {
	// FileName is the base name, e.g. INV-ORD-K7M2QZ.pdf
	FileName    string
	ContentType string
	Data        []byte
}

// StoreResult contains the result of storing a document
type StoreResult struct {
	// Path is the storage path (relative to base)
	Path string
	// URL is the accessible URL for the document
	URL  string
	Size int64
}

// storagePath returns {year}/{month}/{unix-nano}-{file}, using forward slashes
func storagePath(now time.Time, fileName string) string {
	return fmt.Sprintf("%d/%02d/%d-%s", now.Year(), now.Month(), now.UnixNano(), filepath.Base(fileName))
}

func validateStoreRequest(req *StoreRequest) error {
	if req == nil {
		return NewRenderError(ErrCodeStorageFailed, "store request is nil", nil)
	}
	if strings.TrimSpace(req.FileName) == "" {
		return NewRenderError(ErrCodeStorageFailed, "file name is required", nil)
	}
	if len(req.Data) == 0 {
		return NewRenderError(ErrCodeStorageFailed, "document data is empty", nil)
	}
	return nil
}

// FileSystemStorageConfig contains configuration for file system storage
type FileSystemStorageConfig struct {
	// BasePath is the root directory. Default: ./data/documents
	BasePath string
	// BaseURL is the URL prefix for downloads. Default: /api/v1/documents/files
	BaseURL string
	Logger  *zap.Logger
}

// FileSystemStorage stores documents on the local file system
type FileSystemStorage struct {
	config *FileSystemStorageConfig
	logger *zap.Logger
}

// NewFileSystemStorage creates the base directory and returns the storage
func NewFileSystemStorage(config *FileSystemStorageConfig) (*FileSystemStorage, error) {
	if config == nil {
		config = &FileSystemStorageConfig{}
	}
	if config.BasePath == "" {
		config.BasePath = "./data/documents"
	}
	if config.BaseURL == "" {
		config.BaseURL = "/api/v1/documents/files"
	}

	if err := os.MkdirAll(config.BasePath, 0o755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed,
			fmt.Sprintf("failed to create storage directory: %s", config.BasePath), err)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FileSystemStorage{
		config: config,
		logger: logger,
	}, nil
}

// Store writes the document under {base}/{year}/{month}/
func (s *FileSystemStorage) Store(ctx context.Context, req *StoreRequest) (*StoreResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}
	if err := validateStoreRequest(req); err != nil {
		return nil, err
	}

	relativePath := storagePath(time.Now(), req.FileName)
	fullPath := filepath.Join(s.config.BasePath, filepath.FromSlash(relativePath))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to create directory", err)
	}
	if err := os.WriteFile(fullPath, req.Data, 0o644); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to write document", err)
	}

	url := s.GetURL(relativePath)
	s.logger.Info("document stored",
		zap.String("path", fullPath),
		zap.Int("size", len(req.Data)),
		zap.String("url", url))

	return &StoreResult{
		Path: relativePath,
		URL:  url,
		Size: int64(len(req.Data)),
	}, nil
}

// Get opens a stored document by its relative path
func (s *FileSystemStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}

	fullPath, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewRenderError(ErrCodeStorageFailed, "document not found", err)
		}
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to open document", err)
	}
	return file, nil
}

// Delete removes a stored document
func (s *FileSystemStorage) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}

	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return NewRenderError(ErrCodeStorageFailed, "failed to delete document", err)
	}

	s.logger.Info("document deleted", zap.String("path", path))
	return nil
}

// CleanupOlderThan removes documents older than age and returns how many were deleted
func (s *FileSystemStorage) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age)
	deleted := 0

	err := filepath.WalkDir(s.config.BasePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err == nil {
				deleted++
				s.logger.Debug("deleted old document", zap.String("path", path))
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return deleted, NewRenderError(ErrCodeStorageFailed, "cleanup walk failed", err)
	}

	s.logger.Info("document cleanup completed",
		zap.Int("deleted", deleted),
		zap.Duration("age", age))

	return deleted, nil
}

// GetURL returns the download URL for a relative path
func (s *FileSystemStorage) GetURL(path string) string {
	return strings.TrimRight(s.config.BaseURL, "/") + "/" + filepath.ToSlash(filepath.Clean(path))
}

// resolve maps a relative path to a file under BasePath, refusing traversal
func (s *FileSystemStorage) resolve(path string) (string, error) {
	cleanPath := filepath.Clean(filepath.FromSlash(path))
	if path == "" || filepath.IsAbs(cleanPath) || containsDotDot(path) {
		s.logger.Warn("blocked document path", zap.String("path", path))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid path", nil)
	}

	absBase, err := filepath.Abs(s.config.BasePath)
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to resolve base path", err)
	}
	absPath, err := filepath.Abs(filepath.Join(absBase, cleanPath))
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to resolve file path", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		s.logger.Warn("path escape attempt blocked",
			zap.String("path", path),
			zap.String("absPath", absPath))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid path", nil)
	}
	return absPath, nil
}

// containsDotDot checks if a path contains ".." components
func containsDotDot(path string) bool {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\' || r == filepath.Separator
	})
	return slices.Contains(parts, "..")
}

var _ PDFStorage = (*FileSystemStorage)(nil)
