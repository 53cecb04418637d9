package intent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"personaos/core/registry"
	"personaos/core/types"
)

// Action is what the processor did with an utterance
type Action string

const (
	ActionBlocked      Action = "blocked"
	ActionRefused      Action = "refused"
	ActionToolExecuted Action = "tool_executed"
	ActionToolFailed   Action = "tool_failed"
	ActionLLMResponse  Action = "llm_response"
)

const (
	blockedResponse = "I cannot process this request as it appears to be unsafe or inappropriate."
	refusedResponse = "I cannot help with this request as it may be unsafe or harmful."
)

// ActionRecord describes what happened to one utterance and what to show
// the user. Response is empty only for ActionLLMResponse, which tells the
// caller to ask the language model with UserInput.
type ActionRecord struct {
	Intent       IntentType             `json:"intent"`
	Action       Action                 `json:"action"`
	Response     string                 `json:"response,omitempty"`
	UserInput    string                 `json:"user_input,omitempty"`
	Confidence   float64                `json:"confidence"`
	SafetyLevel  SafetyLevel            `json:"safety_level,omitempty"`
	SafetyReason string                 `json:"safety_reason,omitempty"`
	Tool         string                 `json:"tool,omitempty"`
	ToolResult   map[string]interface{} `json:"tool_result,omitempty"`
	Error        string                 `json:"error,omitempty"`
}

// ToolRunner is the part of the tool registry the processor depends on
type ToolRunner interface {
	Register(tool types.Tool)
	Execute(ctx context.Context, name string, args map[string]interface{}) types.ToolResult
}

// Policy decides whether a classified intent may proceed; *Validator is
// the default implementation
type Policy interface {
	ValidateIntent(result IntentResult) SafetyResult
	AddSafeTool(tool string)
}

// Processor runs the classify, validate, execute pipeline
type Processor struct {
	classifier *Classifier
	validator  Policy
	tools      ToolRunner
	logger     *zap.Logger
}

// NewProcessor wires the pipeline. A nil logger discards output.
func NewProcessor(classifier *Classifier, validator Policy, tools ToolRunner, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		classifier: classifier,
		validator:  validator,
		tools:      tools,
		logger:     logger,
	}
}

// Process returns exactly one ActionRecord for any input
func (p *Processor) Process(ctx context.Context, input string) ActionRecord {
	result := p.classifier.Classify(input)
	safety := p.validator.ValidateIntent(result)

	p.logger.Debug("classified input",
		zap.String("intent", result.Intent.String()),
		zap.String("tool", result.Tool),
		zap.Float64("confidence", result.Confidence),
		zap.String("safety_level", string(safety.Level)),
	)

	record := ActionRecord{
		Intent:      result.Intent,
		UserInput:   input,
		Confidence:  result.Confidence,
		SafetyLevel: safety.Level,
	}

	switch {
	case !safety.Allowed:
		p.logger.Warn("request blocked", zap.String("reason", safety.Reason))
		record.Action = ActionBlocked
		record.Response = blockedResponse
		record.SafetyReason = safety.Reason

	case result.Intent == IntentUnsafe:
		// Only reachable when a policy change lets an unsafe intent through
		record.Action = ActionRefused
		record.Response = refusedResponse
		record.SafetyReason = safety.Reason

	case result.Intent == IntentToolRequired:
		p.executeTool(registry.WithUserQuery(ctx, input), result, &record)

	default:
		record.Action = ActionLLMResponse
	}

	return record
}

func (p *Processor) executeTool(ctx context.Context, result IntentResult, record *ActionRecord) {
	record.Tool = result.Tool

	toolResult := p.tools.Execute(ctx, result.Tool, result.Args)
	if !toolResult.Success {
		p.logger.Info("tool failed", zap.String("tool", result.Tool), zap.String("error", toolResult.Error))
		record.Action = ActionToolFailed
		record.Error = toolResult.Error
		record.Response = fmt.Sprintf("I encountered an error while trying to %s: %s", result.Tool, toolResult.Error)
		return
	}

	record.Action = ActionToolExecuted
	record.ToolResult = toolResult.Data
	record.Response = FormatToolResponse(result.Tool, toolResult.Data)
}

// AddCustomPattern gives a new pattern top priority
func (p *Processor) AddCustomPattern(pattern *Pattern) {
	p.classifier.AddPattern(pattern)
}

// AddSafeTool lets the validator treat tool as safe
func (p *Processor) AddSafeTool(tool string) {
	p.validator.AddSafeTool(tool)
}

// RegisterTool makes tool available to tool intents
func (p *Processor) RegisterTool(tool types.Tool) {
	p.tools.Register(tool)
}
