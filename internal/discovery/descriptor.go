package discovery

import (
	"encoding/json"

	"azmcp/internal/command"
	"azmcp/internal/registry"

	"github.com/mark3labs/mcp-go/mcp"
)

// Source labels for ToolDescriptor.Source.
const (
	SourceCommands = "commands"
	SourceRegistry = "registry"
	SourceProxy    = "proxy"
)

// ToolDescriptor is the externally visible projection of a command or a
// remote tool.
type ToolDescriptor struct {
	Name        string
	Title       string
	Description string
	Destructive bool
	ReadOnly    bool

	// Options is set for local commands.
	Options []command.Option
	// RawInputSchema is set for remote tools and takes precedence over Options.
	RawInputSchema json.RawMessage

	Source string
}

// FromCommand projects a command descriptor.
func FromCommand(desc command.Descriptor) ToolDescriptor {
	return ToolDescriptor{
		Name:        desc.Name,
		Title:       desc.Title,
		Description: desc.Description,
		Destructive: desc.Destructive,
		ReadOnly:    desc.ReadOnly,
		Options:     desc.Options,
		Source:      SourceCommands,
	}
}

// FromRemoteTool projects a tool of a registry server under its prefixed name.
func FromRemoteTool(server string, tool mcp.Tool) ToolDescriptor {
	desc := ToolDescriptor{
		Name:        registry.PrefixedName(server, tool.Name),
		Title:       tool.Annotations.Title,
		Description: tool.Description,
		Source:      SourceRegistry,
	}
	if tool.Annotations.ReadOnlyHint != nil {
		desc.ReadOnly = *tool.Annotations.ReadOnlyHint
	}
	// The destructive hint is only meaningful for tools that write.
	if tool.Annotations.DestructiveHint != nil && !desc.ReadOnly {
		desc.Destructive = *tool.Annotations.DestructiveHint
	}
	if len(tool.RawInputSchema) > 0 {
		desc.RawInputSchema = tool.RawInputSchema
	} else if raw, err := json.Marshal(tool.InputSchema); err == nil {
		desc.RawInputSchema = raw
	}
	return desc
}

// Tool converts the descriptor to an MCP tool definition.
func (d ToolDescriptor) Tool() mcp.Tool {
	tool := mcp.Tool{
		Name:        d.Name,
		Description: d.Description,
		Annotations: mcp.ToolAnnotation{
			Title:           d.Title,
			ReadOnlyHint:    mcp.ToBoolPtr(d.ReadOnly),
			DestructiveHint: mcp.ToBoolPtr(d.Destructive),
		},
	}
	if len(d.RawInputSchema) > 0 {
		tool.RawInputSchema = d.RawInputSchema
		return tool
	}
	tool.InputSchema = InputSchema(d.Options)
	return tool
}

// InputSchema builds the JSON schema object for an option list.
func InputSchema(options []command.Option) mcp.ToolInputSchema {
	schema := mcp.ToolInputSchema{
		Type:       "object",
		Properties: make(map[string]interface{}, len(options)),
	}
	for _, opt := range options {
		prop := map[string]interface{}{}
		switch opt.Type {
		case command.TypeStringArray:
			prop["type"] = "array"
			prop["items"] = map[string]interface{}{"type": "string"}
		default:
			prop["type"] = string(opt.Type)
		}
		if opt.Description != "" {
			prop["description"] = opt.Description
		}
		if len(opt.Allowed) > 0 {
			prop["enum"] = opt.Allowed
		}
		if opt.Default != nil {
			prop["default"] = opt.Default
		}
		schema.Properties[opt.Name] = prop
		if opt.Required {
			schema.Required = append(schema.Required, opt.Name)
		}
	}
	return schema
}
