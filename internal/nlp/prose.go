package nlp

import (
	"context"
	"errors"
	"fmt"

	"github.com/jdkato/prose/v2"
)

// Prose runs the local prose tagger and entity extractor.
type Prose struct {
	model *prose.Model
}

// NewProse loads the bundled prose model once.
func NewProse() (p *Prose, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("loading prose model: %v", r)
		}
	}()

	doc, err := prose.NewDocument("")
	if err != nil {
		return nil, fmt.Errorf("loading prose model: %w", err)
	}
	if doc.Model == nil {
		return nil, errors.New("prose model is not available")
	}
	return &Prose{model: doc.Model}, nil
}

func (p *Prose) Name() string { return "prose" }

func (p *Prose) Entities(_ context.Context, text string) ([]Entity, error) {
	doc, err := prose.NewDocument(text, prose.UsingModel(p.model), prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("prose document: %w", err)
	}

	ents := doc.Entities()
	out := make([]Entity, 0, len(ents))
	for _, ent := range ents {
		out = append(out, Entity{Text: ent.Text, Label: ent.Label})
	}
	return out, nil
}
