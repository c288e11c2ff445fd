package resume

import (
	"errors"
	"fmt"
	"mime"
	"strings"
)

// Format is the declared kind of a raw résumé document.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatJSON Format = "json"
)

// MaxExperienceEntries caps the number of experience blocks kept on a Record.
const MaxExperienceEntries = 5

var (
	// ErrUnsupportedFormat is returned when a format tag is not pdf, docx or json.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrExtraction is returned when document bytes cannot be decoded as the declared format.
	ErrExtraction = errors.New("extraction failed")
	// ErrTooLarge is returned by CheckSize for uploads above the configured limit.
	ErrTooLarge = errors.New("document too large")
)

// UnsupportedFormatError carries the rejected format tag.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format: %q", e.Format)
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// ExtractionError wraps the decoder failure for a document.
type ExtractionError struct {
	Format Format
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract %s document: %v", e.Format, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtraction
}

// ParseFormat accepts "pdf", "docx" or "json" in any case, with or without a leading dot.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	switch f {
	case FormatPDF, FormatDOCX, FormatJSON:
		return f, nil
	}
	return "", &UnsupportedFormatError{Format: s}
}

var mimeFormats = map[string]Format{
	"application/pdf": FormatPDF,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FormatDOCX,
	"application/json": FormatJSON,
}

// FormatFromMime maps an upload MIME type to its Format.
func FormatFromMime(contentType string) (Format, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	if f, ok := mimeFormats[mediaType]; ok {
		return f, nil
	}
	return "", &UnsupportedFormatError{Format: contentType}
}

// CheckSize rejects payloads larger than limit bytes. A non-positive limit disables the check.
func CheckSize(size int, limit int64) error {
	if limit > 0 && int64(size) > limit {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrTooLarge, size, limit)
	}
	return nil
}

// Document is a raw résumé payload together with its declared format.
type Document struct {
	Content []byte
	Format  Format
}

// Record is the structured data extracted from a résumé.
type Record struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Skills     []string `json:"skills"`
	Experience []string `json:"experience"`
}

// newRecord normalizes fields: skills deduplicated case-insensitively in
// insertion order, empty entries dropped, experience capped.
func newRecord(name, email, phone string, skills, experience []string) Record {
	r := Record{
		Name:       name,
		Email:      email,
		Phone:      phone,
		Skills:     make([]string, 0, len(skills)),
		Experience: make([]string, 0, len(experience)),
	}

	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		key := strings.ToLower(s)
		if s == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		r.Skills = append(r.Skills, s)
	}

	for _, e := range experience {
		if e == "" {
			continue
		}
		if len(r.Experience) == MaxExperienceEntries {
			break
		}
		r.Experience = append(r.Experience, e)
	}

	return r
}
