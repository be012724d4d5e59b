package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"azmcp/internal/command"
	"azmcp/internal/command/commandtest"
	"azmcp/internal/registry"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(tools []ToolDescriptor) []string {
	out := make([]string, 0, len(tools))
	for _, d := range tools {
		out = append(out, d.Name)
	}
	return out
}

type staticStrategy struct {
	name  string
	tools []ToolDescriptor
	err   error
	calls int
}

func (s *staticStrategy) Name() string { return s.name }

func (s *staticStrategy) Discover(context.Context, Filter) ([]ToolDescriptor, error) {
	s.calls++
	return s.tools, s.err
}

type fakeLister struct {
	listing []registry.ServerTools
	err     error
}

func (f *fakeLister) ListTools(context.Context) ([]registry.ServerTools, error) {
	return f.listing, f.err
}

func TestTreeStrategy_NamespaceFilter(t *testing.T) {
	tree, _ := commandtest.Tree("kv.key.get", "kv.key.list", "kv.secret.get")
	strategy := NewTreeStrategy(tree)

	tools, err := strategy.Discover(context.Background(), Filter{Namespaces: []string{"kv.key"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"kv.key.get", "kv.key.list"}, names(tools))

	// stable across calls
	again, err := strategy.Discover(context.Background(), Filter{Namespaces: []string{"kv.key"}})
	require.NoError(t, err)
	assert.Equal(t, tools, again)

	all, err := strategy.Discover(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"kv.key.get", "kv.key.list", "kv.secret.get"}, names(all))
}

func TestTreeStrategy_ReadOnlyDropsDestructive(t *testing.T) {
	tree := command.NewTree()
	tree.MustRegister("kv.key.get", commandtest.New("get"))
	tree.MustRegister("kv.key.create", commandtest.Destructive("create"))

	tools, err := NewTreeStrategy(tree).Discover(context.Background(), Filter{ReadOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"kv.key.get"}, names(tools))
	assert.Equal(t, SourceCommands, tools[0].Source)
}

func TestRegistryStrategy(t *testing.T) {
	search := mcp.Tool{
		Name: "search",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"q": map[string]interface{}{"type": "string"}},
			Required:   []string{"q"},
		},
	}
	destructive := mcp.NewTool("delete", mcp.WithDestructiveHintAnnotation(true))
	lister := &fakeLister{listing: []registry.ServerTools{
		{Server: "docs", Tools: []mcp.Tool{search, destructive}},
		{Server: "other", Tools: []mcp.Tool{{Name: "ping"}}},
	}}
	strategy := NewRegistryStrategy(lister, FailFast)

	tools, err := strategy.Discover(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"docs.search", "docs.delete", "other.ping"}, names(tools))
	assert.Equal(t, SourceRegistry, tools[0].Source)
	assert.True(t, tools[1].Destructive)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(tools[0].RawInputSchema, &schema))
	assert.Equal(t, []any{"q"}, schema["required"])

	filtered, err := strategy.Discover(context.Background(), Filter{Namespaces: []string{"docs"}, ReadOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"docs.search"}, names(filtered))
}

func TestRegistryStrategy_ErrorIsSourceError(t *testing.T) {
	strategy := NewRegistryStrategy(&fakeLister{err: errors.New("connection refused")}, FailFast)

	_, err := strategy.Discover(context.Background(), Filter{})
	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, SourceRegistry, srcErr.Source)
	assert.ErrorContains(t, err, "connection refused")
}

func TestRegistryStrategy_FailingServerPolicy(t *testing.T) {
	partial := func() *fakeLister {
		return &fakeLister{
			listing: []registry.ServerTools{{Server: "docs", Tools: []mcp.Tool{{Name: "search"}}}},
			err:     &registry.ServerError{Server: "broken", Err: errors.New("connection refused")},
		}
	}

	tests := []struct {
		name     string
		policy   FailurePolicy
		expected []string
		wantErr  bool
	}{
		{"fail fast drops the whole registry", FailFast, nil, true},
		{"tolerate keeps healthy servers", TolerateFailures, []string{"docs.search"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tools, err := NewRegistryStrategy(partial(), tt.policy).Discover(context.Background(), Filter{})
			if tt.wantErr {
				assert.ErrorContains(t, err, "broken")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, names(tools))
		})
	}
}

func TestCompositeStrategy_FirstSourceWins(t *testing.T) {
	a := &staticStrategy{name: "a", tools: []ToolDescriptor{{Name: "t", Description: "from A"}, {Name: "a1"}}}
	b := &staticStrategy{name: "b", tools: []ToolDescriptor{{Name: "t", Description: "from B"}, {Name: "b1"}}}

	tools, err := NewCompositeStrategy(FailFast, a, b).Discover(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"t", "a1", "b1"}, names(tools))
	assert.Equal(t, "from A", tools[0].Description)
}

func TestCompositeStrategy_FailurePolicy(t *testing.T) {
	newChildren := func() (*staticStrategy, *staticStrategy, *staticStrategy) {
		return &staticStrategy{name: "first", tools: []ToolDescriptor{{Name: "one"}}},
			&staticStrategy{name: "broken", err: errors.New("unreachable")},
			&staticStrategy{name: "last", tools: []ToolDescriptor{{Name: "two"}}}
	}

	t.Run("fail fast", func(t *testing.T) {
		first, broken, last := newChildren()
		_, err := NewCompositeStrategy(FailFast, first, broken, last).Discover(context.Background(), Filter{})

		var srcErr *SourceError
		require.ErrorAs(t, err, &srcErr)
		assert.Equal(t, "broken", srcErr.Source)
		assert.Equal(t, 0, last.calls)
	})

	t.Run("tolerate failures", func(t *testing.T) {
		first, broken, last := newChildren()
		tools, err := NewCompositeStrategy(TolerateFailures, first, broken, last).Discover(context.Background(), Filter{})

		require.NoError(t, err)
		assert.Equal(t, []string{"one", "two"}, names(tools))
	})

	t.Run("cancellation is never tolerated", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewCompositeStrategy(TolerateFailures, &staticStrategy{name: "x", err: context.Canceled}).Discover(ctx, Filter{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestToolDescriptor_Tool(t *testing.T) {
	desc := FromCommand(command.Descriptor{
		Name:        "kv.key.create",
		Title:       "Create Key",
		Description: "Creates a key",
		Destructive: true,
		Options: []command.Option{
			{Name: "vault", Type: command.TypeString, Required: true, Description: "Vault name"},
			{Name: "key-type", Type: command.TypeString, Allowed: []string{"RSA", "EC"}},
			{Name: "tags", Type: command.TypeStringArray},
		},
	})

	tool := desc.Tool()
	assert.Equal(t, "kv.key.create", tool.Name)
	assert.Equal(t, "Create Key", tool.Annotations.Title)
	require.NotNil(t, tool.Annotations.DestructiveHint)
	assert.True(t, *tool.Annotations.DestructiveHint)
	assert.False(t, *tool.Annotations.ReadOnlyHint)

	assert.Equal(t, "object", tool.InputSchema.Type)
	assert.Equal(t, []string{"vault"}, tool.InputSchema.Required)
	keyType := tool.InputSchema.Properties["key-type"].(map[string]interface{})
	assert.Equal(t, []string{"RSA", "EC"}, keyType["enum"])
	tags := tool.InputSchema.Properties["tags"].(map[string]interface{})
	assert.Equal(t, "array", tags["type"])

	remote := ToolDescriptor{Name: "docs.search", RawInputSchema: json.RawMessage(`{"type":"object"}`)}.Tool()
	assert.JSONEq(t, `{"type":"object"}`, string(remote.RawInputSchema))
	assert.Empty(t, remote.InputSchema.Properties)
}
