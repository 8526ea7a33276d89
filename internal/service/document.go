package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DocumentService writes rendered quiz documents to the local
// filesystem.
type DocumentService struct {
	saveDir string
	logger  *zap.Logger

	now func() time.Time
}

// NewDocumentService creates a document service rooted at saveDir.
func NewDocumentService(saveDir string, logger *zap.Logger) *DocumentService {
	return &DocumentService{
		saveDir: saveDir,
		logger:  logger,
		now:     time.Now,
	}
}

// SaveMarkdown writes content under the save directory, deriving the
// file name from the title and the current timestamp. It returns the
// full path of the written file.
func (s *DocumentService) SaveMarkdown(title, content string) (string, error) {
	if err := os.MkdirAll(s.saveDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create save directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.md", sanitizeTitle(title), s.now().Format("20060102_150405"))
	path := filepath.Join(s.saveDir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}

	s.logger.Info("saved quiz document", zap.String("path", path))
	return path, nil
}

// sanitizeTitle keeps letters, digits, and Hangul; everything else
// becomes an underscore so the title is safe as a file name.
func sanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= '가' && r <= '힣':
			b.WriteRune(r)
		case r >= 'ㄱ' && r <= 'ㅣ':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "quiz"
	}
	return b.String()
}
