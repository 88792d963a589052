package controllers

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
)

const wordWrap = 100

// markdownRenderer turns Markdown into terminal output.
type markdownRenderer func(markdown string) (string, error)

func newTerminalRenderer() markdownRenderer {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		logger.Debugf("[preview] Falling back to plain Markdown: %v", err)
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return renderer.Render
}

// writeMarkdown renders markdown to out, printing it verbatim when rendering fails.
func writeMarkdown(out io.Writer, render markdownRenderer, markdown string) {
	rendered, err := render(markdown)
	if err != nil {
		rendered = markdown
	}
	_, _ = fmt.Fprint(out, rendered)
}

// previewReports prints the audit document of every evaluated manifest.
func previewReports(out io.Writer, render markdownRenderer, reports []entities.RepositoryReport) {
	for _, report := range reports {
		for _, manifest := range report.Manifests {
			if manifest.Document == "" {
				continue
			}
			_, _ = fmt.Fprintf(out, "\n%s: %s\n", report.Repository.FullName(), manifest.Manifest.FileKind())
			writeMarkdown(out, render, manifest.Document)
		}
	}
}
