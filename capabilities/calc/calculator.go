package calc

import (
	"context"
	"fmt"
	"strings"

	. "personaos/core/types"
)

const allowedChars = "0123456789+-*/.() "

var forbiddenOperations = []string{"import", "eval", "exec", "__"}

// CalculatorTool evaluates plain arithmetic expressions. Nothing in the
// expression is ever executed as code; the character and substring checks
// run before the parser as an extra guard.
type CalculatorTool struct{}

func (t *CalculatorTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "calculator",
		Description: "Perform mathematical calculations",
		Category:    CategoryMath,
		RiskLevel:   RiskSafe,
		Parameters: []Parameter{
			{
				Name:        "expression",
				Type:        "string",
				Required:    true,
				Description: "Arithmetic using + - * / // ** and parentheses",
				Example:     "25 * 4",
			},
		},
		Examples: []string{
			`{"tool": "calculator", "arguments": {"expression": "25 * 4"}}`,
		},
	}
}

func (t *CalculatorTool) Execute(_ context.Context, args map[string]interface{}) ToolResult {
	expression := StringArg(args, "expression", "")
	if expression == "" {
		return Failed("Mathematical expression is required")
	}

	for _, op := range forbiddenOperations {
		if strings.Contains(expression, op) {
			return Failed("Expression contains forbidden operations")
		}
	}

	for _, c := range expression {
		if !strings.ContainsRune(allowedChars, c) {
			return Failed("Expression contains invalid characters")
		}
	}

	result, formatted, err := Evaluate(expression)
	if err != nil {
		return Failed("Calculation error: %s", err)
	}

	return Succeeded(map[string]interface{}{
		"expression": expression,
		"result":     result,
		"formatted":  fmt.Sprintf("%s = %s", expression, formatted),
	})
}
