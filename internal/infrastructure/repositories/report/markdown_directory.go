package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
)

const (
	dirPermission  = 0o755
	filePermission = 0o644
	fileTimeLayout = "20060102T150405Z"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// MarkdownDirectory writes the audit document of every manifest to
// <dir>/<organization>/<repository>/<timestamp>-<ecosystem>-<manifest>.md.
type MarkdownDirectory struct {
	dir string
}

// NewMarkdownDirectory creates a report writer rooted at dir.
func NewMarkdownDirectory(dir string) *MarkdownDirectory {
	return &MarkdownDirectory{dir: dir}
}

// Save writes one file per manifest that produced a document.
func (m *MarkdownDirectory) Save(_ context.Context, report entities.RepositoryReport) error {
	target := filepath.Join(
		m.dir,
		sanitizeFilePart(report.Repository.Organization),
		sanitizeFilePart(report.Repository.Name),
	)
	if err := os.MkdirAll(target, dirPermission); err != nil {
		return fmt.Errorf("failed to create report directory %s: %w", target, err)
	}

	stamp := report.GeneratedAt.UTC().Format(fileTimeLayout)
	for _, manifest := range report.Manifests {
		if manifest.Document == "" {
			continue
		}
		name := fmt.Sprintf(
			"%s-%s-%s.md",
			stamp, manifest.Manifest.Ecosystem, sanitizeFilePart(manifest.Manifest.Path),
		)
		path := filepath.Join(target, name)
		if err := os.WriteFile(path, []byte(manifest.Document), filePermission); err != nil {
			return fmt.Errorf("failed to write report %s: %w", path, err)
		}
		logger.Infof("[report] Wrote %s", path)
	}
	return nil
}

func sanitizeFilePart(raw string) string {
	cleaned := strings.Trim(unsafeFileChars.ReplaceAllString(raw, "_"), "_.")
	if cleaned == "" {
		return "unknown"
	}
	return cleaned
}
