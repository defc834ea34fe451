// Package status derives human-observable status from raw entities: the
// streaming indicator, tool progress text and error summaries.
//
// Every function here is a pure projection over its arguments. Same input,
// same output; callers may invoke them on every render without memoization.
package status

import (
	"fmt"
	"strings"

	"github.com/opencode-ai/opencode-client/pkg/types"
)

// IsStreaming reports whether a message is still being generated. User
// messages never stream; an assistant message streams until it reaches a
// terminal outcome (completed or errored).
func IsStreaming(m *types.Message) bool {
	if m == nil || m.Role != types.RoleAssistant {
		return false
	}
	return m.Time.Completed == nil && m.Error == nil
}

// ToolStatusText maps a tool state to its display text. An unrecognized
// status is a contract violation between client and server and panics;
// silently rendering nothing would hide the schema mismatch.
func ToolStatusText(s types.ToolState) string {
	switch s.Status {
	case types.ToolPending:
		return "Pending..."
	case types.ToolRunning:
		if s.Title != "" {
			return s.Title
		}
		return "Running..."
	case types.ToolCompleted:
		return s.Title
	case types.ToolError:
		return "Error: " + s.Error
	default:
		panic(fmt.Sprintf("status: unknown tool status %q", s.Status))
	}
}

// HasError reports whether an assistant message terminated with an error.
func HasError(m *types.Message) bool {
	return m != nil && m.Role == types.RoleAssistant && m.Error != nil
}

// ErrorDetail extracts the error name and best-effort message string from an
// errored assistant message. The nested data.message payload may be absent
// or non-string; non-string values are coerced.
func ErrorDetail(m *types.Message) (name, message string) {
	if !HasError(m) {
		return "", ""
	}
	name = m.Error.Name
	switch v := m.Error.Data.Message.(type) {
	case nil:
		message = ""
	case string:
		message = v
	default:
		message = fmt.Sprintf("%v", v)
	}
	return name, message
}

// ExtractText concatenates, in order, the content of all non-synthetic text
// parts.
func ExtractText(parts []types.Part) string {
	var b strings.Builder
	for _, part := range parts {
		if text, ok := part.(*types.TextPart); ok && !text.Synthetic {
			b.WriteString(text.Text)
		}
	}
	return b.String()
}

// ExtractToolCalls filters to tool parts, preserving order.
func ExtractToolCalls(parts []types.Part) []*types.ToolPart {
	var tools []*types.ToolPart
	for _, part := range parts {
		if tool, ok := part.(*types.ToolPart); ok {
			tools = append(tools, tool)
		}
	}
	return tools
}
