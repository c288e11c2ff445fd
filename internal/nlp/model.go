// Package nlp provides the named-entity capability used to find candidate
// names in résumé text.
package nlp

import "context"

// LabelPerson marks entities that are person names.
const LabelPerson = "PERSON"

// Entity is a labeled span of text.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Model recognizes named entities in text, in document order.
type Model interface {
	Name() string
	Entities(ctx context.Context, text string) ([]Entity, error)
}

// Blank is the degraded model: it never finds anything.
type Blank struct{}

func (Blank) Name() string { return "blank" }

func (Blank) Entities(context.Context, string) ([]Entity, error) { return nil, nil }
