package nlp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Loader builds a Model. It is called at most once per Provider.
type Loader func() (Model, error)

// Config selects the model a Provider loads.
type Config struct {
	Provider string // prose, gemini or blank
	Gemini   GeminiConfig
}

// LoaderFor maps cfg to a Loader. Unknown providers produce a loader that fails.
func LoaderFor(ctx context.Context, cfg Config) Loader {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "prose":
		return func() (Model, error) {
			p, err := NewProse()
			if err != nil {
				return nil, err
			}
			return p, nil
		}
	case "gemini":
		return func() (Model, error) {
			g, err := NewGemini(ctx, cfg.Gemini)
			if err != nil {
				return nil, err
			}
			return g, nil
		}
	case "blank", "none":
		return func() (Model, error) { return Blank{}, nil }
	default:
		return func() (Model, error) {
			return nil, fmt.Errorf("unsupported ner provider: %s", cfg.Provider)
		}
	}
}

// Provider lazily loads a Model on first use and falls back to Blank when
// loading fails. It implements Model itself so it can be injected directly.
type Provider struct {
	load   Loader
	logger *zap.Logger

	once  sync.Once
	model Model
}

func NewProvider(load Loader, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{load: load, logger: logger}
}

// Model returns the loaded model, initializing it on the first call.
func (p *Provider) Model() Model {
	p.once.Do(func() {
		m, err := p.safeLoad()
		if err == nil && m == nil {
			err = errors.New("loader returned no model")
		}
		if err != nil {
			p.logger.Warn("language model unavailable, using blank model", zap.Error(err))
			m = Blank{}
		} else {
			p.logger.Debug("language model loaded", zap.String("model", m.Name()))
		}
		p.model = m
	})
	return p.model
}

func (p *Provider) safeLoad() (m Model, err error) {
	if p.load == nil {
		return nil, errors.New("no model loader configured")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("model loader panic: %v", r)
		}
	}()
	return p.load()
}

func (p *Provider) Name() string { return p.Model().Name() }

func (p *Provider) Entities(ctx context.Context, text string) ([]Entity, error) {
	return p.Model().Entities(ctx, text)
}
