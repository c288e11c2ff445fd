package resume

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/muhammadolammi/resumatch/internal/nlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	ents []nlp.Entity
	err  error
}

func (s stubModel) Name() string { return "stub" }

func (s stubModel) Entities(context.Context, string) ([]nlp.Entity, error) {
	return s.ents, s.err
}

func TestExtractJSON(t *testing.T) {
	e := NewExtractor()
	doc := Document{
		Format:  FormatJSON,
		Content: []byte(`{"name":"Ada","email":"a@b.com","skills":"Python, SQL","experience":"did stuff"}`),
	}

	got, err := e.Extract(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, Record{
		Name:       "Ada",
		Email:      "a@b.com",
		Phone:      "",
		Skills:     []string{"Python", "SQL"},
		Experience: []string{"did stuff"},
	}, got)
}

func TestExtractJSONCoercion(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    Record
	}{
		{
			name:    "phone number fallback",
			payload: `{"phone_number":"555-123-4567"}`,
			want:    Record{Phone: "555-123-4567", Skills: []string{}, Experience: []string{}},
		},
		{
			name:    "phone wins over phone number",
			payload: `{"phone":"1","phone_number":"2"}`,
			want:    Record{Phone: "1", Skills: []string{}, Experience: []string{}},
		},
		{
			name:    "empty phone is kept",
			payload: `{"phone":"","phone_number":"555-123-4567"}`,
			want:    Record{Skills: []string{}, Experience: []string{}},
		},
		{
			name:    "null phone is kept",
			payload: `{"phone":null,"phone_number":"555-123-4567"}`,
			want:    Record{Skills: []string{}, Experience: []string{}},
		},
		{
			name:    "sequences kept and scalars wrapped",
			payload: `{"skills":["Go","go","Rust"],"experience":42,"unknown":true}`,
			want:    Record{Skills: []string{"Go", "Rust"}, Experience: []string{"42"}},
		},
		{
			name:    "numeric skill",
			payload: `{"skills":7,"name":12}`,
			want:    Record{Name: "12", Skills: []string{"7"}, Experience: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewExtractor().Extract(context.Background(), Document{Format: FormatJSON, Content: []byte(tt.payload)})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractJSONInvalid(t *testing.T) {
	payloads := []string{
		`{"name":`,
		`["a"]`,
		`null`,
		`{"name":"Ada"} {"broken`,
		`{"name":"Ada"}}`,
		`{"name":"Ada"} 42`,
	}
	for _, payload := range payloads {
		t.Run(payload, func(t *testing.T) {
			_, err := NewExtractor().Extract(context.Background(), Document{Format: FormatJSON, Content: []byte(payload)})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrExtraction))
		})
	}
}

func TestExtractUnsupportedFormat(t *testing.T) {
	got, err := NewExtractor().Extract(context.Background(), Document{Format: "txt", Content: []byte("hello")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.Equal(t, Record{}, got)
}

func TestExtractCorruptDocuments(t *testing.T) {
	for _, f := range []Format{FormatPDF, FormatDOCX} {
		t.Run(string(f), func(t *testing.T) {
			_, err := NewExtractor().Extract(context.Background(), Document{Format: f, Content: []byte("definitely not a document")})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrExtraction))

			var extErr *ExtractionError
			require.True(t, errors.As(err, &extErr))
			assert.Equal(t, f, extErr.Format)
		})
	}
}

func TestExtractDOCX(t *testing.T) {
	data := buildDOCX(t, []string{"Jane Roe", "jane@example.com", "Skills", "Python, Docker, Kubernetes"})

	e := NewExtractor(WithModel(stubModel{}))
	text, err := e.ExtractText(Document{Format: FormatDOCX, Content: data})
	require.NoError(t, err)
	assert.Equal(t, "Jane Roe\njane@example.com\nSkills\nPython, Docker, Kubernetes\n", text)

	rec, err := e.Extract(context.Background(), Document{Format: FormatDOCX, Content: data})
	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", rec.Name)
	assert.Equal(t, "jane@example.com", rec.Email)
	assert.Equal(t, []string{"Python", "Docker", "Kubernetes"}, rec.Skills)
}

func TestExtractPDF(t *testing.T) {
	data := buildPDF(t, []string{
		"BT /F1 12 Tf 72 720 Td (Ada Lovelace) Tj ET",
		"BT /F1 12 Tf 72 720 Td (ada@example.com) Tj T* (Python, Docker) Tj ET",
		"",
	})

	e := NewExtractor(WithModel(stubModel{}))
	text, err := e.ExtractText(Document{Format: FormatPDF, Content: data})
	require.NoError(t, err)
	assert.Equal(t, "\nAda Lovelace\n\nada@example.com\nPython, Docker\n\n", text)

	rec, err := e.Extract(context.Background(), Document{Format: FormatPDF, Content: data})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", rec.Name)
	assert.Equal(t, "ada@example.com", rec.Email)
	assert.Empty(t, rec.Phone)
	assert.ElementsMatch(t, []string{"Python", "Docker"}, rec.Skills)
	assert.Empty(t, rec.Experience)
}

// buildPDF writes a minimal PDF with one page per content stream. An empty
// stream produces a page without contents.
func buildPDF(t *testing.T, pages []string) []byte {
	t.Helper()

	objects := map[int]string{
		1: "<< /Type /Catalog /Pages 2 0 R >>",
		3: "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	kids := make([]string, 0, len(pages))
	for i, content := range pages {
		pageNum, contentNum := 4+2*i, 5+2*i
		kids = append(kids, fmt.Sprintf("%d 0 R", pageNum))

		page := "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >>"
		if content != "" {
			page += fmt.Sprintf(" /Contents %d 0 R", contentNum)
		}
		objects[pageNum] = page + " >>"
		objects[contentNum] = fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content)
	}
	objects[2] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	size := 4 + 2*len(pages)
	offsets := make([]int, size)

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	for n := 1; n < size; n++ {
		offsets[n] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", n, objects[n])
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", size)
	for n := 1; n < size; n++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[n])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", size, xref)
	return buf.Bytes()
}

func buildDOCX(t *testing.T, paragraphs []string) []byte {
	t.Helper()

	var body bytes.Buffer
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	// A table paragraph is not a body paragraph.
	body.WriteString(`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`)

	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body.String() + `</w:body></w:document>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"pdf", "PDF", ".docx", " json "} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseFormat("txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFormatFromMime(t *testing.T) {
	f, err := FormatFromMime("application/pdf")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	f, err = FormatFromMime("application/json; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = FormatFromMime("text/plain")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestCheckSize(t *testing.T) {
	assert.NoError(t, CheckSize(10, 0))
	assert.NoError(t, CheckSize(10, 10))
	assert.ErrorIs(t, CheckSize(11, 10), ErrTooLarge)
}
