// Package llm holds the minimal Ollama client behind the optional
// LLM-fallback middleware.
package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

const systemPreamble = "You are Maxy, a support assistant. Answer the question briefly and plainly. " +
	"If you do not know, say so in one sentence."

type Client struct {
	model *ollama.LLM
}

func New(model, baseURL string) (*Client, error) {
	opts := []ollama.Option{ollama.WithModel(model)}
	if baseURL != "" {
		opts = append(opts, ollama.WithServerURL(baseURL))
	}
	client, err := ollama.New(opts...)
	if err != nil {
		return nil, err
	}
	return &Client{model: client}, nil
}

// Answer asks the model for a short reply to one free-text question.
func (c *Client) Answer(ctx context.Context, question string) (string, error) {
	prompt := systemPreamble + "\n\nQuestion: " + question
	out, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", errors.New("empty response from model")
	}
	return out, nil
}
