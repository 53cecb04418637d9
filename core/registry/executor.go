package registry

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	"personaos/core/audit"
	. "personaos/core/types"
)

type userQueryKey struct{}

// WithUserQuery attaches the originating utterance to ctx for audit logging
func WithUserQuery(ctx context.Context, query string) context.Context {
	return context.WithValue(ctx, userQueryKey{}, query)
}

func userQuery(ctx context.Context) string {
	query, _ := ctx.Value(userQueryKey{}).(string)
	return query
}

// Execute runs a tool by name. It never panics and never returns an error:
// lookup failures, rejected arguments and tool faults all come back as a
// failed ToolResult.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]interface{}) ToolResult {
	if args == nil {
		args = map[string]interface{}{}
	}

	tool, ok := r.Get(name)
	if !ok {
		result := Failed("Tool '%s' not found", name)
		if suggestions := r.findSimilarTools(name); len(suggestions) > 0 {
			result.Metadata = map[string]interface{}{"suggestions": suggestions}
		}
		r.logger.Warn("tool not found", zap.String("tool", name))
		return result
	}

	metadata := tool.Metadata()
	startTime := time.Now()

	result := r.run(ctx, tool, name, args)

	duration := time.Since(startTime)
	r.notify(name, result)

	r.logger.Info("tool finished",
		zap.String("tool", name),
		zap.Bool("success", result.Success),
		zap.Duration("duration", duration),
	)

	if logErr := r.audit.LogExecution(audit.AuditLog{
		Timestamp: startTime,
		ToolName:  name,
		Category:  metadata.Category,
		Arguments: args,
		Success:   result.Success,
		Error:     result.Error,
		Duration:  duration,
		UserQuery: userQuery(ctx),
	}); logErr != nil {
		// Audit failures must not fail the tool call
		r.logger.Warn("failed to write audit entry", zap.Error(logErr))
	}

	return result
}

// run validates and executes a tool, converting panics into failures
func (r *Registry) run(ctx context.Context, tool Tool, name string, args map[string]interface{}) (result ToolResult) {
	defer func() {
		if rec := recover(); rec != nil {
			msg := fmt.Sprintf("Error executing tool '%s': %v", name, rec)
			r.logger.Error(msg, zap.ByteString("stack", debug.Stack()))
			result = ToolResult{Error: msg}
		}
	}()

	if validator, ok := tool.(ArgValidator); ok && !validator.ValidateArgs(args) {
		return Failed("Invalid arguments for tool '%s'", name)
	}

	if r.StatusHandler != nil {
		r.StatusHandler(name, "executing")
	}

	r.logger.Debug("executing tool", zap.String("tool", name), zap.Any("args", args))
	return tool.Execute(ctx, args)
}

func (r *Registry) notify(name string, result ToolResult) {
	if r.StatusHandler == nil {
		return
	}
	if result.Success {
		r.StatusHandler(name, "completed")
	} else {
		r.StatusHandler(name, "error")
	}
}

// findSimilarTools finds tool names that are similar to the requested name
func (r *Registry) findSimilarTools(requested string) []string {
	allTools := r.List()
	if requested == "" || len(allTools) == 0 {
		return nil
	}

	requested = strings.ToLower(requested)
	seen := make(map[string]bool)
	similar := make([]string, 0)

	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			similar = append(similar, name)
		}
	}

	for _, match := range fuzzy.Find(requested, allTools) {
		add(match.Str)
	}

	for _, name := range allTools {
		nameLower := strings.ToLower(name)
		if strings.Contains(nameLower, requested) || strings.Contains(requested, nameLower) {
			add(name)
			continue
		}
		if levenshteinDistance(requested, nameLower) <= 2 {
			add(name)
		}
	}

	return similar
}

// levenshteinDistance calculates the Levenshtein distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(s1)][len(s2)]
}
