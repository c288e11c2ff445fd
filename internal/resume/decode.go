package resume

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/mitchellh/mapstructure"
	"github.com/nguyenthenguyen/docx"
)

const wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// decodePDF concatenates the plain text of every page, each followed by a newline.
func decodePDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if !page.V.IsNull() {
			pageText, err := page.GetPlainText(nil)
			if err != nil {
				return "", fmt.Errorf("failed to read pdf page %d: %w", i, err)
			}
			textBuilder.WriteString(pageText)
		}
		textBuilder.WriteString("\n")
	}
	return textBuilder.String(), nil
}

// decodeDOCX returns the text of the body paragraphs, one per line.
func decodeDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return paragraphText(doc.Editable().GetContent())
}

// paragraphText walks WordprocessingML and keeps only paragraphs that are
// direct children of w:body, matching how word processors list paragraphs.
func paragraphText(documentXML string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(documentXML))

	var (
		out       strings.Builder
		para      strings.Builder
		stack     []string
		paraDepth = -1
		inText    bool
	)

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read document xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			local := ""
			if t.Name.Space == wordNamespace {
				local = t.Name.Local
			}
			if local == "p" && paraDepth < 0 && len(stack) > 0 && stack[len(stack)-1] == "body" {
				paraDepth = len(stack)
				para.Reset()
			}
			if paraDepth >= 0 {
				switch local {
				case "t":
					inText = true
				case "tab":
					para.WriteString("\t")
				case "br", "cr":
					para.WriteString("\n")
				}
			}
			stack = append(stack, local)
		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			local := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if local == "t" {
				inText = false
			}
			if local == "p" && paraDepth == len(stack) {
				out.WriteString(para.String())
				out.WriteString("\n")
				paraDepth = -1
			}
		case xml.CharData:
			if inText && paraDepth >= 0 {
				para.Write(t)
			}
		}
	}

	return out.String(), nil
}

type jsonResume struct {
	Name        string `mapstructure:"name"`
	Email       string `mapstructure:"email"`
	Phone       string `mapstructure:"phone"`
	PhoneNumber string `mapstructure:"phone_number"`
	Skills      any    `mapstructure:"skills"`
	Experience  any    `mapstructure:"experience"`
}

// decodeJSON reads a résumé object without any text analysis. Scalars are
// coerced to their text form; unknown keys are ignored.
func decodeJSON(data []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return Record{}, fmt.Errorf("failed to decode json: %w", err)
	}
	if payload == nil {
		return Record{}, errors.New("json resume must be an object")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Record{}, errors.New("failed to decode json: unexpected data after resume object")
	}

	var raw jsonResume
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: scalarToString,
		Result:     &raw,
	})
	if err != nil {
		return Record{}, err
	}
	if err := decoder.Decode(payload); err != nil {
		return Record{}, fmt.Errorf("failed to map json resume: %w", err)
	}

	// phone_number is only consulted when the phone key is missing.
	phone := raw.Phone
	if _, ok := payload["phone"]; !ok {
		phone = raw.PhoneNumber
	}

	return newRecord(raw.Name, raw.Email, phone, listOf(raw.Skills, true), listOf(raw.Experience, false)), nil
}

func scalarToString(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}
	return textOf(data), nil
}

func textOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

// listOf keeps sequences, splits a comma separated string when splitCommas
// is set, and wraps any other value as a single element.
func listOf(v any, splitCommas bool) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, textOf(item))
		}
		return out
	case string:
		if !splitCommas {
			return []string{t}
		}
		parts := strings.Split(t, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			out = append(out, strings.TrimSpace(p))
		}
		return out
	default:
		return []string{textOf(t)}
	}
}
