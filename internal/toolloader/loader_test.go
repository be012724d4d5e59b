package toolloader

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"azmcp/internal/command"
	"azmcp/internal/command/commandtest"
	"azmcp/internal/discovery"
	"azmcp/internal/registry"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toolNames(tools []discovery.ToolDescriptor) []string {
	out := make([]string, 0, len(tools))
	for _, d := range tools {
		out = append(out, d.Name)
	}
	return out
}

// stubLoader lists fixed tools and records calls.
type stubLoader struct {
	name    string
	tools   []string
	listErr error

	mu    sync.Mutex
	calls []string
	args  map[string]any
}

func (s *stubLoader) List(context.Context) ([]discovery.ToolDescriptor, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	tools := make([]discovery.ToolDescriptor, 0, len(s.tools))
	for _, n := range s.tools {
		tools = append(tools, discovery.ToolDescriptor{Name: n, Description: s.name + " " + n})
	}
	return tools, nil
}

func (s *stubLoader) Call(_ context.Context, name string, args map[string]any) *command.Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, name)
	s.args = args
	return command.OK(map[string]any{"loader": s.name, "tool": name})
}

type fakeRegistry struct {
	listing []registry.ServerTools
	listErr error
	result  *mcp.CallToolResult
	callErr error

	calls []string
	args  map[string]interface{}
}

func (f *fakeRegistry) ListTools(context.Context) ([]registry.ServerTools, error) {
	return f.listing, f.listErr
}

func (f *fakeRegistry) CallTool(_ context.Context, server, tool string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	f.calls = append(f.calls, server+"/"+tool)
	f.args = args
	return f.result, f.callErr
}

func newRegistryLoader(f *fakeRegistry, filter discovery.Filter) *RegistryLoader {
	return NewRegistryLoader(discovery.NewRegistryStrategy(f, discovery.FailFast), f, filter)
}

func TestCommandFactoryLoader_ListAndCall(t *testing.T) {
	tree, fakes := commandtest.Tree("kv.key.get", "kv.key.list", "kv.secret.get")
	loader := NewCommandFactoryLoader(tree, command.NewExecutor(nil), discovery.Filter{Namespaces: []string{"kv.key"}})

	tools, err := loader.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"kv.key.get", "kv.key.list"}, toolNames(tools))

	resp := loader.Call(context.Background(), "kv.key.list", nil)
	require.Equal(t, command.StatusOK, resp.Status)
	assert.Equal(t, map[string]any{"path": "kv.key.list"}, resp.Results)

	// outside the filter
	resp = loader.Call(context.Background(), "kv.secret.get", nil)
	assert.Equal(t, command.StatusNotFound, resp.Status)
	assert.Equal(t, int64(0), fakes["kv.secret.get"].Calls())
}

func TestLoaders_UnknownToolIsNotFound(t *testing.T) {
	tree, fakes := commandtest.Tree("kv.key.get")
	reg := &fakeRegistry{listing: []registry.ServerTools{{Server: "docs", Tools: []mcp.Tool{{Name: "search"}}}}}
	factory := NewCommandFactoryLoader(tree, command.NewExecutor(nil), discovery.Filter{})
	regLoader := newRegistryLoader(reg, discovery.Filter{})
	composite := NewCompositeLoader(discovery.FailFast, regLoader, factory)

	loaders := map[string]Loader{
		"command factory": factory,
		"registry":        regLoader,
		"composite":       composite,
		"single proxy":    NewSingleProxyLoader(composite),
		"namespace": NewNamespaceLoader(
			discovery.NewCompositeStrategy(discovery.FailFast, discovery.NewRegistryStrategy(reg, discovery.FailFast), discovery.NewTreeStrategy(tree)),
			composite, discovery.Filter{}, nil),
	}

	for name, loader := range loaders {
		t.Run(name, func(t *testing.T) {
			resp := loader.Call(context.Background(), "does.not.exist", map[string]any{"x": 1})
			assert.Equal(t, command.StatusNotFound, resp.Status)
			assert.Contains(t, resp.Message, "does.not.exist")
		})
	}

	assert.Equal(t, int64(0), fakes["kv.key.get"].Calls())
	assert.Empty(t, reg.calls)
}

func TestRegistryLoader_Call(t *testing.T) {
	listing := []registry.ServerTools{{Server: "docs", Tools: []mcp.Tool{{Name: "search"}}}}

	t.Run("json result", func(t *testing.T) {
		reg := &fakeRegistry{listing: listing, result: mcp.NewToolResultText(`{"hits":2}`)}
		resp := newRegistryLoader(reg, discovery.Filter{}).Call(context.Background(), "docs.search", map[string]any{"q": "vault"})

		require.Equal(t, command.StatusOK, resp.Status)
		assert.Equal(t, map[string]any{"hits": float64(2)}, resp.Results)
		assert.Equal(t, []string{"docs/search"}, reg.calls)
		assert.Equal(t, map[string]interface{}{"q": "vault"}, reg.args)
	})

	t.Run("plain text result", func(t *testing.T) {
		reg := &fakeRegistry{listing: listing, result: mcp.NewToolResultText("two hits")}
		resp := newRegistryLoader(reg, discovery.Filter{}).Call(context.Background(), "docs.search", nil)
		assert.Equal(t, "two hits", resp.Results)
		assert.Equal(t, map[string]interface{}{}, reg.args)
	})

	t.Run("remote error", func(t *testing.T) {
		reg := &fakeRegistry{listing: listing, result: mcp.NewToolResultError("index unavailable")}
		resp := newRegistryLoader(reg, discovery.Filter{}).Call(context.Background(), "docs.search", nil)
		assert.Equal(t, command.StatusInternalError, resp.Status)
		assert.Equal(t, "index unavailable", resp.Message)
	})

	t.Run("transport error", func(t *testing.T) {
		reg := &fakeRegistry{listing: listing, callErr: errors.New("boom: broken pipe")}
		resp := newRegistryLoader(reg, discovery.Filter{}).Call(context.Background(), "docs.search", nil)
		assert.Equal(t, command.StatusInternalError, resp.Status)
		assert.True(t, strings.HasPrefix(resp.Message, "boom"))
	})

	t.Run("listing error", func(t *testing.T) {
		reg := &fakeRegistry{listErr: errors.New("unreachable")}
		resp := newRegistryLoader(reg, discovery.Filter{}).Call(context.Background(), "docs.search", nil)
		assert.Equal(t, command.StatusInternalError, resp.Status)
		assert.Empty(t, reg.calls)
	})
}

func TestCompositeLoader_FirstChildWins(t *testing.T) {
	a := &stubLoader{name: "A", tools: []string{"t", "a-only"}}
	b := &stubLoader{name: "B", tools: []string{"t", "b-only"}}
	composite := NewCompositeLoader(discovery.FailFast, a, b)

	tools, err := composite.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"t", "a-only", "b-only"}, toolNames(tools))
	assert.Equal(t, "A t", tools[0].Description)

	resp := composite.Call(context.Background(), "t", nil)
	assert.Equal(t, map[string]any{"loader": "A", "tool": "t"}, resp.Results)
	assert.Equal(t, []string{"t"}, a.calls)
	assert.Empty(t, b.calls)

	resp = composite.Call(context.Background(), "b-only", nil)
	assert.Equal(t, map[string]any{"loader": "B", "tool": "b-only"}, resp.Results)
}

func TestCompositeLoader_FailurePolicy(t *testing.T) {
	broken := &stubLoader{name: "broken", listErr: errors.New("unreachable")}
	ok := &stubLoader{name: "ok", tools: []string{"t"}}

	_, err := NewCompositeLoader(discovery.FailFast, broken, ok).List(context.Background())
	assert.ErrorContains(t, err, "unreachable")
	resp := NewCompositeLoader(discovery.FailFast, broken, ok).Call(context.Background(), "t", nil)
	assert.Equal(t, command.StatusInternalError, resp.Status)

	tolerant := NewCompositeLoader(discovery.TolerateFailures, broken, ok)
	tools, err := tolerant.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"t"}, toolNames(tools))
	assert.Equal(t, command.StatusOK, tolerant.Call(context.Background(), "t", nil).Status)
}

func TestSingleProxyLoader(t *testing.T) {
	inner := &stubLoader{name: "inner", tools: []string{"kv.key.get", "docs.search"}}
	proxy := NewSingleProxyLoader(inner)

	tools, err := proxy.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, SingleProxyToolName, tools[0].Name)
	assert.Contains(t, tools[0].Tool().InputSchema.Properties, "targetTool")

	t.Run("forwards transparently", func(t *testing.T) {
		resp := proxy.Call(context.Background(), SingleProxyToolName, map[string]any{
			"targetTool": "kv.key.get",
			"targetArgs": map[string]any{"vault": "v1"},
			"intent":     "read a key",
		})
		direct := inner.Call(context.Background(), "kv.key.get", map[string]any{"vault": "v1"})
		assert.Equal(t, direct, resp)
		assert.Equal(t, map[string]any{"vault": "v1"}, inner.args)
	})

	t.Run("learn lists inner tools", func(t *testing.T) {
		resp := proxy.Call(context.Background(), SingleProxyToolName, map[string]any{"learn": true})
		require.Equal(t, command.StatusOK, resp.Status)
		summaries := resp.Results.([]ToolSummary)
		assert.Equal(t, "kv.key.get", summaries[0].Name)
		assert.Equal(t, "docs.search", summaries[1].Name)
	})

	t.Run("missing target", func(t *testing.T) {
		before := len(inner.calls)
		resp := proxy.Call(context.Background(), SingleProxyToolName, map[string]any{})
		assert.Equal(t, command.StatusBadRequest, resp.Status)
		assert.Contains(t, resp.Message, "required")
		assert.Len(t, inner.calls, before)
	})
}

func TestNamespaceLoader(t *testing.T) {
	tree, _ := commandtest.Tree("kv.key.get", "kv.key.list", "kubernetes.pod.list", "extension.kubeconfig.context.list")
	executor := command.NewExecutor(nil)
	inner := NewCommandFactoryLoader(tree, executor, discovery.Filter{})
	loader := NewNamespaceLoader(discovery.NewTreeStrategy(tree), inner, discovery.Filter{},
		map[string]string{"kv": "Key Vault operations"})

	tools, err := loader.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"kv", "kubernetes", "extension"}, toolNames(tools))
	assert.Contains(t, tools[0].Description, "Key Vault operations")
	assert.Contains(t, tools[0].Description, "- key.list")
	assert.True(t, tools[0].ReadOnly)

	resp := loader.Call(context.Background(), "kv", map[string]any{"command": "key.list"})
	require.Equal(t, command.StatusOK, resp.Status)
	assert.Equal(t, map[string]any{"path": "kv.key.list"}, resp.Results)

	resp = loader.Call(context.Background(), "kv", map[string]any{"learn": true})
	require.Equal(t, command.StatusOK, resp.Status)
	summaries := resp.Results.([]ToolSummary)
	require.Len(t, summaries, 2)
	assert.Equal(t, "key.get", summaries[0].Name)
	assert.NotEmpty(t, summaries[0].InputSchema)

	resp = loader.Call(context.Background(), "kv", map[string]any{"command": "secret.get"})
	assert.Equal(t, command.StatusNotFound, resp.Status)

	resp = loader.Call(context.Background(), "kv", map[string]any{})
	assert.Equal(t, command.StatusBadRequest, resp.Status)
	assert.Contains(t, resp.Message, "required")

	filtered := NewNamespaceLoader(discovery.NewTreeStrategy(tree), inner, discovery.Filter{Namespaces: []string{"kubernetes"}}, nil)
	tools, err = filtered.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"kubernetes"}, toolNames(tools))
}
