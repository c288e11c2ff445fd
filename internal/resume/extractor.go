package resume

import (
	"context"

	"github.com/muhammadolammi/resumatch/internal/nlp"
	"go.uber.org/zap"
)

// Extractor turns raw résumé documents into Records. It holds no mutable
// state and may be shared between goroutines.
type Extractor struct {
	model  nlp.Model
	vocab  *Vocabulary
	logger *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithModel sets the language model used to find person names.
func WithModel(m nlp.Model) Option {
	return func(e *Extractor) {
		if m != nil {
			e.model = m
		}
	}
}

// WithVocabulary replaces the default skill vocabulary.
func WithVocabulary(v *Vocabulary) Option {
	return func(e *Extractor) {
		if v != nil {
			e.vocab = v
		}
	}
}

// WithLogger sets the logger for degraded-mode warnings.
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExtractor returns an Extractor using the blank model and the default
// vocabulary unless overridden.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		model:  nlp.Blank{},
		vocab:  DefaultVocabulary(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract decodes doc and returns its structured record. JSON documents are
// mapped directly; PDF and DOCX text goes through the heuristic parser.
func (e *Extractor) Extract(ctx context.Context, doc Document) (Record, error) {
	if doc.Format == FormatJSON {
		r, err := decodeJSON(doc.Content)
		if err != nil {
			return Record{}, &ExtractionError{Format: doc.Format, Err: err}
		}
		return r, nil
	}

	text, err := e.ExtractText(doc)
	if err != nil {
		return Record{}, err
	}
	return e.Parse(ctx, text), nil
}

// ExtractText returns the plain text of a PDF or DOCX document. JSON
// documents are returned verbatim.
func (e *Extractor) ExtractText(doc Document) (string, error) {
	var (
		text string
		err  error
	)
	switch doc.Format {
	case FormatPDF:
		text, err = decodePDF(doc.Content)
	case FormatDOCX:
		text, err = decodeDOCX(doc.Content)
	case FormatJSON:
		text = string(doc.Content)
	default:
		return "", &UnsupportedFormatError{Format: string(doc.Format)}
	}
	if err != nil {
		return "", &ExtractionError{Format: doc.Format, Err: err}
	}
	return text, nil
}

// Parse applies the name, contact, skills and experience heuristics to text.
func (e *Extractor) Parse(ctx context.Context, text string) Record {
	return e.parse(ctx, text)
}
