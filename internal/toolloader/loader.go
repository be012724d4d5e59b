package toolloader

import (
	"context"
	"encoding/json"
	"strings"

	"azmcp/internal/command"
	"azmcp/internal/discovery"

	"github.com/mark3labs/mcp-go/mcp"
)

// Loader lists the tools visible to clients and executes invocations.
// Implementations are safe for concurrent use once constructed.
type Loader interface {
	// List returns the visible tools. Names are unique.
	List(ctx context.Context) ([]discovery.ToolDescriptor, error)

	// Call executes the named tool. It always returns a response; unknown
	// names yield a 404 without reaching any collaborator.
	Call(ctx context.Context, name string, args map[string]any) *command.Response
}

// find returns the descriptor with the given name in a listing.
func find(tools []discovery.ToolDescriptor, name string) (discovery.ToolDescriptor, bool) {
	for _, d := range tools {
		if d.Name == name {
			return d, true
		}
	}
	return discovery.ToolDescriptor{}, false
}

// ToolSummary is the short form of a tool returned in learn mode.
type ToolSummary struct {
	Name        string          `json:"name"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}

func summarize(d discovery.ToolDescriptor, name string, withSchema bool) ToolSummary {
	s := ToolSummary{Name: name, Title: d.Title, Description: d.Description}
	if !withSchema {
		return s
	}
	tool := d.Tool()
	if len(tool.RawInputSchema) > 0 {
		s.InputSchema = tool.RawInputSchema
	} else if raw, err := json.Marshal(tool.InputSchema); err == nil {
		s.InputSchema = raw
	}
	return s
}

// responseFromResult translates a remote tool result into a Response.
func responseFromResult(result *mcp.CallToolResult) *command.Response {
	var texts []string
	for _, content := range result.Content {
		if text, ok := mcp.AsTextContent(content); ok {
			texts = append(texts, text.Text)
		}
	}
	joined := strings.Join(texts, "\n")

	if result.IsError {
		return command.Failed(remoteError(joined))
	}

	if len(texts) == 0 {
		return command.OK(nil)
	}
	var decoded any
	if err := json.Unmarshal([]byte(joined), &decoded); err == nil {
		return command.OK(decoded)
	}
	return command.OK(joined)
}

type remoteError string

func (e remoteError) Error() string {
	if e == "" {
		return "remote tool reported an error"
	}
	return string(e)
}
