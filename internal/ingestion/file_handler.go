package ingestion

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Kele901/career-projector/internal/logger"
	"github.com/Kele901/career-projector/internal/models"
)

// FileHandler manages the uploads directory that batch analysis reads from
type FileHandler struct {
	uploadsDir string
	logger     *slog.Logger
}

// NewFileHandler creates a new file handler. A nil logger uses the default one.
func NewFileHandler(uploadsDir string, l *slog.Logger) *FileHandler {
	return &FileHandler{
		uploadsDir: uploadsDir,
		logger:     logger.OrDefault(l),
	}
}

// Dir returns the uploads directory
func (fh *FileHandler) Dir() string {
	return fh.uploadsDir
}

// SaveUploadedFile saves an uploaded file to the uploads directory. Directory parts of
// filename are ignored.
func (fh *FileHandler) SaveUploadedFile(filename string, content io.Reader) (string, error) {
	name := filepath.Base(filepath.Clean("/" + filename))
	if name == "/" || name == "." {
		return "", fmt.Errorf("invalid file name %q", filename)
	}

	if err := os.MkdirAll(fh.uploadsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create uploads directory: %w", err)
	}

	filePath := filepath.Join(fh.uploadsDir, name)
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return filePath, nil
}

// LoadDocuments converts every CV in the uploads directory to text, in file name order.
// Cover letters, unsupported formats and unreadable files are skipped.
func (fh *FileHandler) LoadDocuments() ([]models.Document, error) {
	files, err := os.ReadDir(fh.uploadsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Document{}, nil
		}
		return nil, fmt.Errorf("failed to read uploads directory: %w", err)
	}

	documents := make([]models.Document, 0, len(files))
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		filename := file.Name()
		ext := strings.ToLower(filepath.Ext(filename))
		if !SupportedExtension(ext) || isCoverLetter(filename) {
			continue
		}

		filePath := filepath.Join(fh.uploadsDir, filename)
		text, err := ExtractText(filePath)
		if err != nil {
			if errors.Is(err, ErrUnreadableDocument) {
				fh.logger.Warn("skipping unreadable document", "file", filename, "error", err)
				continue
			}
			return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
		}

		documents = append(documents, models.Document{
			Name: CandidateName(filename),
			Path: filePath,
			Text: text,
		})
	}

	return documents, nil
}

// ClearUploads removes all files from the uploads directory
func (fh *FileHandler) ClearUploads() error {
	if err := os.RemoveAll(fh.uploadsDir); err != nil {
		return fmt.Errorf("failed to clear uploads directory: %w", err)
	}
	return os.MkdirAll(fh.uploadsDir, 0755)
}

// CandidateName derives a display name from a file name following the
// "Name_CV.pdf" / "Name_Resume.docx" convention
func CandidateName(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	parts := strings.Split(base, "_")
	if len(parts) > 1 {
		last := strings.ToLower(parts[len(parts)-1])
		if last == "cv" || last == "resume" {
			parts = parts[:len(parts)-1]
		}
	}
	name := strings.TrimSpace(strings.Join(parts, " "))
	if name == "" {
		return base
	}
	return name
}

func isCoverLetter(filename string) bool {
	lower := strings.ToLower(filename)
	return strings.Contains(lower, "cover") || strings.Contains(lower, "letter")
}
