package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/muhammadolammi/resumatch/internal/config"
	"github.com/muhammadolammi/resumatch/internal/nlp"
	"github.com/muhammadolammi/resumatch/internal/resume"
	"go.uber.org/zap"
)

// readDocument loads path and tags it with format, or with the format
// implied by its extension when format is empty.
func readDocument(path, format string, maxBytes int64) (resume.Document, error) {
	if format == "" {
		format = filepath.Ext(path)
	}
	f, err := resume.ParseFormat(format)
	if err != nil {
		return resume.Document{}, fmt.Errorf("%s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return resume.Document{}, err
	}
	if err := resume.CheckSize(len(data), maxBytes); err != nil {
		return resume.Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return resume.Document{Content: data, Format: f}, nil
}

// newExtractor wires the configured name recognition model. The model is
// only loaded when a PDF or DOCX is parsed.
func newExtractor(ctx context.Context, cfg *config.Config, logger *zap.Logger) *resume.Extractor {
	model := nlp.NewProvider(nlp.LoaderFor(ctx, cfg.NLP()), logger)
	return resume.NewExtractor(
		resume.WithModel(model),
		resume.WithLogger(logger),
	)
}

// jobDescription returns text when set, otherwise the contents of path.
func jobDescription(path, text string) (string, error) {
	if text != "" || path == "" {
		return text, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading job description: %w", err)
	}
	return string(data), nil
}
