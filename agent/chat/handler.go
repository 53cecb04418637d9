// Package chat turns one line of user input into the assistant's reply.
package chat

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"personaos/agent/intent"
	"personaos/transcript"
)

const noLLMMessage = "No LLM initialized."

// Responder produces a free-form reply; *llm.Gateway implements it
type Responder interface {
	Generate(ctx context.Context, prompt string) string
}

// Recorder persists exchanges; *transcript.Store implements it
type Recorder interface {
	Record(ctx context.Context, e transcript.Entry) (int64, error)
}

// Handler runs the intent pipeline and falls back to the language model
// for inputs no tool answers
type Handler struct {
	processor *intent.Processor
	llm       Responder
	recorder  Recorder
	logger    *zap.Logger

	logMu sync.Mutex
	log   io.Writer
}

// Option configures a Handler
type Option func(*Handler)

// WithRecorder stores every exchange in r
func WithRecorder(r Recorder) Option {
	return func(h *Handler) { h.recorder = r }
}

// WithTranscriptLog appends a plain-text transcript to w
func WithTranscriptLog(w io.Writer) Option {
	return func(h *Handler) { h.log = w }
}

// WithLogger sets the structured logger
func WithLogger(l *zap.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler creates a chat handler. llm may be nil, in which case
// conversational inputs get a fixed notice.
func NewHandler(processor *intent.Processor, llm Responder, opts ...Option) *Handler {
	h := &Handler{
		processor: processor,
		llm:       llm,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Response is the reply to one input along with how it was produced
type Response struct {
	Text   string
	Record intent.ActionRecord
}

// HandleChat processes userInput. Blocked, refused and tool outcomes are
// answered from the action record; everything else goes to the model
// with the original input.
func (h *Handler) HandleChat(ctx context.Context, userInput string) Response {
	record := h.processor.Process(ctx, userInput)

	text := record.Response
	if record.Action == intent.ActionLLMResponse {
		if h.llm == nil {
			text = noLLMMessage
		} else {
			text = h.llm.Generate(ctx, userInput)
		}
	}

	h.logger.Debug("handled input",
		zap.String("intent", string(record.Intent)),
		zap.String("action", string(record.Action)),
		zap.String("tool", record.Tool),
	)

	h.remember(ctx, userInput, record, text)
	return Response{Text: text, Record: record}
}

// remember writes the exchange to the recorder and transcript log.
// Failures are logged, never surfaced to the user.
func (h *Handler) remember(ctx context.Context, userInput string, record intent.ActionRecord, text string) {
	if h.recorder != nil {
		entry := transcript.Entry{
			UserInput:   userInput,
			Intent:      string(record.Intent),
			Action:      string(record.Action),
			Tool:        record.Tool,
			SafetyLevel: string(record.SafetyLevel),
			Confidence:  record.Confidence,
			Response:    text,
		}
		if record.SafetyReason != "" || record.Error != "" {
			entry.Metadata = map[string]interface{}{}
			if record.SafetyReason != "" {
				entry.Metadata["safety_reason"] = record.SafetyReason
			}
			if record.Error != "" {
				entry.Metadata["error"] = record.Error
			}
		}
		if _, err := h.recorder.Record(ctx, entry); err != nil {
			h.logger.Warn("failed to record exchange", zap.Error(err))
		}
	}

	if h.log != nil {
		h.logMu.Lock()
		_, err := fmt.Fprintf(h.log, "User: %s\nAssistant: %s\n\n", userInput, text)
		h.logMu.Unlock()
		if err != nil {
			h.logger.Warn("failed to write transcript log", zap.Error(err))
		}
	}
}
