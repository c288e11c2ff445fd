package nlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

const (
	geminiAgentName    = "entity_extractor"
	geminiUserID       = "resumatch"
	defaultGeminiModel = "gemini-2.5-pro"
	defaultTimeout     = 30 * time.Second
)

// GeminiConfig configures the remote entity model.
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Gemini asks an llm agent for the named entities of a text.
type Gemini struct {
	runner   *runner.Runner
	sessions session.Service
	appName  string
	timeout  time.Duration
}

// NewGemini builds the agent, its runner and an in-memory session store.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	modelName := strings.TrimSpace(cfg.Model)
	if modelName == "" {
		modelName = defaultGeminiModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	model, err := gemini.NewModel(ctx, modelName, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}

	extractor, err := llmagent.New(llmagent.Config{
		Name:        geminiAgentName,
		Model:       model,
		Description: "Extract named entities from resume text",
		Instruction: entityInstruction,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	sessions := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        extractor.Name(),
		Agent:          extractor,
		SessionService: sessions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	return &Gemini{
		runner:   r,
		sessions: sessions,
		appName:  extractor.Name(),
		timeout:  timeout,
	}, nil
}

func (g *Gemini) Name() string { return "gemini" }

// Entities runs the agent in a throwaway session.
func (g *Gemini) Entities(ctx context.Context, text string) ([]Entity, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	created, err := g.sessions.Create(ctx, &session.CreateRequest{
		AppName:   g.appName,
		UserID:    geminiUserID,
		SessionID: uuid.NewString(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	sess := created.Session
	defer func() {
		_ = g.sessions.Delete(context.WithoutCancel(ctx), &session.DeleteRequest{
			AppName:   sess.AppName(),
			UserID:    sess.UserID(),
			SessionID: sess.ID(),
		})
	}()

	stream := g.runner.Run(ctx, sess.UserID(), sess.ID(), &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: text}},
	}, agent.RunConfig{})

	var output string
	for event, err := range stream {
		if err != nil {
			return nil, fmt.Errorf("agent stream: %w", err)
		}
		if event != nil && event.IsFinalResponse() && event.Content != nil && len(event.Content.Parts) > 0 {
			output = event.Content.Parts[0].Text
		}
	}
	if strings.TrimSpace(output) == "" {
		return nil, errors.New("empty agent response")
	}

	return parseEntities(output)
}

func parseEntities(output string) ([]Entity, error) {
	var ents []Entity
	if err := json.Unmarshal([]byte(cleanJSON(output)), &ents); err != nil {
		return nil, fmt.Errorf("json unmarshal error: %w", err)
	}
	out := ents[:0]
	for _, e := range ents {
		e.Text = strings.TrimSpace(e.Text)
		e.Label = strings.ToUpper(strings.TrimSpace(e.Label))
		if e.Text != "" {
			out = append(out, e)
		}
	}
	return out, nil
}

// cleanJSON strips a surrounding markdown code fence from a model response.
func cleanJSON(input string) string {
	clean := strings.TrimSpace(input)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")

	return strings.TrimSpace(clean)
}

const entityInstruction = `
You are a named entity recognizer for resumes.

Read the resume text sent by the user and list every named entity in the
order it first appears. Use these labels only:
- PERSON: names of people
- ORG: companies, schools and other organizations
- GPE: cities, states and countries

Return a JSON array and nothing else:

[{"text": string, "label": string}]

Copy entity text exactly as written. Do not invent entities.
Return [] when there are none.
`
