package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type labeledClient struct {
	mockClient
}

func (c *labeledClient) Label() string { return "Ollama API" }

func TestGatewayGenerate(t *testing.T) {
	manager := NewManager(nil)
	manager.RegisterClient(PurposeChat, &mockClient{model: "llama3", provider: "ollama"})
	gw := NewGateway(manager, nil)

	assert.Equal(t, "mock response from llama3", gw.Generate(context.Background(), "hi there"))
	assert.Equal(t, "llama3", gw.Model())
}

func TestGatewayNoLLM(t *testing.T) {
	gw := NewGateway(NewManager(nil), nil)
	assert.Equal(t, "No LLM initialized.", gw.Generate(context.Background(), "hello"))
	assert.Empty(t, gw.Model())

	var nilGateway *Gateway
	assert.Equal(t, "No LLM initialized.", nilGateway.Generate(context.Background(), "hello"))
}

func TestGatewayErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		client Client
		want   string
	}{
		{
			name: "labeled client",
			client: &labeledClient{mockClient{
				model:        "llama3",
				provider:     "ollama",
				generateFunc: failing("connection refused"),
			}},
			want: "Error calling Ollama API: connection refused",
		},
		{
			name: "provider name when unlabeled",
			client: &mockClient{
				model:        "m",
				provider:     "mock",
				generateFunc: failing("bad gateway"),
			},
			want: "Error calling mock: bad gateway",
		},
		{
			name: "cancelled",
			client: &mockClient{
				model:    "m",
				provider: "mock",
				generateFunc: func(context.Context, Request) (*Response, error) {
					return nil, context.Canceled
				},
			},
			want: "Request cancelled.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := NewManager(nil)
			manager.RegisterClient(PurposeChat, tt.client)
			gw := NewGateway(manager, nil)
			assert.Equal(t, tt.want, gw.Generate(context.Background(), "hello"))
		})
	}
}

func TestGatewaySendsUserMessage(t *testing.T) {
	var got Request
	manager := NewManager(nil)
	manager.RegisterClient(PurposeChat, &mockClient{
		model: "m",
		generateFunc: func(_ context.Context, req Request) (*Response, error) {
			got = req
			return &Response{Content: "ok"}, nil
		},
	})

	NewGateway(manager, nil).Generate(context.Background(), "tell me a joke")
	assert.Equal(t, []Message{{Role: "user", Content: "tell me a joke"}}, got.Messages)
}

func TestLabelFallsBackToProvider(t *testing.T) {
	assert.Equal(t, "mock", label(&mockClient{provider: "mock"}))
	assert.Equal(t, "Ollama API", label(&labeledClient{}))
	assert.NotErrorIs(t, errors.New("x"), context.Canceled)
}
