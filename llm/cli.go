package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner executes a program and returns its stdout
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// CLIClient drives a local model through the `ollama run` command, for
// hosts where the HTTP API is not exposed
type CLIClient struct {
	binary string
	model  string
	run    CommandRunner
}

// NewCLIClient creates a CLI-backed client. config.BaseURL, when set,
// names the ollama binary instead of a URL.
func NewCLIClient(config Config) (*CLIClient, error) {
	if config.Model == "" {
		return nil, errors.New("model name is required")
	}
	binary := config.BaseURL
	if binary == "" {
		binary = "ollama"
	}
	return &CLIClient{
		binary: binary,
		model:  config.Model,
		run:    execCommand,
	}, nil
}

func execCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

// Generate passes the last user message as the prompt
func (c *CLIClient) Generate(ctx context.Context, req Request) (*Response, error) {
	var prompt string
	for _, msg := range req.Messages {
		if msg.Role == "user" {
			prompt = msg.Content
		}
	}
	if prompt == "" {
		return nil, errors.New("no user prompt in request")
	}

	out, err := c.run(ctx, c.binary, "run", c.model, prompt)
	if err != nil {
		return nil, err
	}

	return &Response{
		Content: strings.TrimSpace(string(out)),
		Model:   c.model,
	}, nil
}

// GetModel returns the model name
func (c *CLIClient) GetModel() string {
	return c.model
}

// GetProvider returns the provider name
func (c *CLIClient) GetProvider() string {
	return "ollama"
}

// Label names the client in error messages
func (c *CLIClient) Label() string {
	return "Ollama CLI"
}

// IsAvailable checks that the binary is on PATH
func (c *CLIClient) IsAvailable(context.Context) bool {
	_, err := exec.LookPath(c.binary)
	return err == nil
}
