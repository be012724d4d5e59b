package keyvault

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"azmcp/internal/command"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	mu    sync.Mutex
	calls []string

	keys    []string
	key     *Key
	secrets []string
	secret  *Secret
	err     error

	lastTenant  string
	lastManaged bool
	lastKeyType string
}

func (f *fakeService) record(call, tenant string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	f.lastTenant = tenant
}

func (f *fakeService) ListKeys(_ context.Context, _ string, includeManaged bool, tenant string) ([]string, error) {
	f.record("ListKeys", tenant)
	f.lastManaged = includeManaged
	return f.keys, f.err
}

func (f *fakeService) GetKey(_ context.Context, _, _, tenant string) (*Key, error) {
	f.record("GetKey", tenant)
	return f.key, f.err
}

func (f *fakeService) CreateKey(_ context.Context, _, name, keyType, tenant string) (*Key, error) {
	f.record("CreateKey", tenant)
	f.lastKeyType = keyType
	if f.err != nil {
		return nil, f.err
	}
	return &Key{Name: name, KeyType: normalizeKeyType(keyType)}, nil
}

func (f *fakeService) ListSecrets(_ context.Context, _, tenant string) ([]string, error) {
	f.record("ListSecrets", tenant)
	return f.secrets, f.err
}

func (f *fakeService) GetSecret(_ context.Context, _, _, tenant string) (*Secret, error) {
	f.record("GetSecret", tenant)
	return f.secret, f.err
}

func (f *fakeService) SetSecret(_ context.Context, _, name, value, tenant string) (*Secret, error) {
	f.record("SetSecret", tenant)
	if f.err != nil {
		return nil, f.err
	}
	return &Secret{Name: name, Value: value}, nil
}

func execute(t *testing.T, svc Service, path string, args map[string]any) *command.Response {
	t.Helper()
	tree := command.NewTree()
	require.NoError(t, Register(tree, svc))
	leaf, err := tree.Resolve(path)
	require.NoError(t, err)
	return command.NewExecutor(nil).Execute(context.Background(), leaf, args)
}

func TestRegister(t *testing.T) {
	tree := command.NewTree()
	require.NoError(t, Register(tree, &fakeService{}))

	var paths []string
	for path, leaf := range tree.Walk() {
		paths = append(paths, path)
		if strings.HasSuffix(path, ".create") || strings.HasSuffix(path, ".set") {
			assert.False(t, leaf.Descriptor.ReadOnly, path)
		} else {
			assert.True(t, leaf.Descriptor.ReadOnly, path)
		}
	}
	assert.ElementsMatch(t, []string{
		"kv.key.list", "kv.key.get", "kv.key.create",
		"kv.secret.list", "kv.secret.get", "kv.secret.set",
	}, paths)
	assert.Equal(t, "kv", tree.Namespaces()[0].Name)
}

func TestKeyGet(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	enabled := true

	tests := []struct {
		name       string
		svc        *fakeService
		args       map[string]any
		wantStatus int
		wantCalls  int
		check      func(t *testing.T, resp *command.Response)
	}{
		{
			name:       "returns key",
			svc:        &fakeService{key: &Key{Name: "k1", KeyType: "RSA", Enabled: &enabled, CreatedOn: &created}},
			args:       map[string]any{"subscription": "sub", "vault": "v1", "key": "k1", "tenant": "t1"},
			wantStatus: command.StatusOK,
			wantCalls:  1,
			check: func(t *testing.T, resp *command.Response) {
				key, ok := resp.Results.(*Key)
				require.True(t, ok)
				assert.Equal(t, "k1", key.Name)
				assert.Equal(t, "RSA", key.KeyType)
				assert.Equal(t, created, *key.CreatedOn)
			},
		},
		{
			name:       "empty key is rejected",
			svc:        &fakeService{},
			args:       map[string]any{"subscription": "sub", "vault": "v1", "key": ""},
			wantStatus: command.StatusBadRequest,
			check: func(t *testing.T, resp *command.Response) {
				assert.Contains(t, strings.ToLower(resp.Message), "required")
			},
		},
		{
			name:       "missing subscription is rejected",
			svc:        &fakeService{},
			args:       map[string]any{"vault": "v1", "key": "k1"},
			wantStatus: command.StatusBadRequest,
			check: func(t *testing.T, resp *command.Response) {
				assert.Contains(t, resp.Message, "--subscription")
			},
		},
		{
			name:       "service error keeps its message",
			svc:        &fakeService{err: errors.New("Test error")},
			args:       map[string]any{"subscription": "sub", "vault": "v1", "key": "k1"},
			wantStatus: command.StatusInternalError,
			wantCalls:  1,
			check: func(t *testing.T, resp *command.Response) {
				assert.True(t, strings.HasPrefix(resp.Message, "Test error"), resp.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := execute(t, tt.svc, "kv.key.get", tt.args)
			assert.Equal(t, tt.wantStatus, resp.Status, resp.Message)
			assert.Len(t, tt.svc.calls, tt.wantCalls)
			if tt.check != nil {
				tt.check(t, resp)
			}
		})
	}
}

func TestKeyList(t *testing.T) {
	t.Run("returns keys and forwards flags", func(t *testing.T) {
		svc := &fakeService{keys: []string{"a", "b"}}
		resp := execute(t, svc, "kv.key.list", map[string]any{
			"subscription": "sub", "vault": "v1", "include-managed": true, "tenant": "t1",
		})
		require.Equal(t, command.StatusOK, resp.Status, resp.Message)
		assert.Equal(t, map[string]any{"keys": []string{"a", "b"}}, resp.Results)
		assert.True(t, svc.lastManaged)
		assert.Equal(t, "t1", svc.lastTenant)
	})

	t.Run("empty list has nil results", func(t *testing.T) {
		svc := &fakeService{}
		resp := execute(t, svc, "kv.key.list", map[string]any{"subscription": "sub", "vault": "v1"})
		require.Equal(t, command.StatusOK, resp.Status)
		assert.Nil(t, resp.Results)
		assert.False(t, svc.lastManaged)
	})
}

func TestKeyCreate_KeyTypeValidation(t *testing.T) {
	tests := []struct {
		keyType    string
		wantStatus int
	}{
		{"RSA", command.StatusOK},
		{"ec", command.StatusOK},
		{"oct-HSM", command.StatusOK},
		{"DSA", command.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.keyType, func(t *testing.T) {
			svc := &fakeService{}
			resp := execute(t, svc, "kv.key.create", map[string]any{
				"subscription": "sub", "vault": "v1", "key": "k1", "key-type": tt.keyType,
			})
			assert.Equal(t, tt.wantStatus, resp.Status, resp.Message)
			if tt.wantStatus != command.StatusOK {
				assert.Empty(t, svc.calls)
				return
			}
			assert.Equal(t, tt.keyType, svc.lastKeyType)
		})
	}
}

func TestSecrets(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		svc := &fakeService{secrets: []string{"s1"}}
		resp := execute(t, svc, "kv.secret.list", map[string]any{"subscription": "sub", "vault": "v1"})
		require.Equal(t, command.StatusOK, resp.Status)
		assert.Equal(t, map[string]any{"secrets": []string{"s1"}}, resp.Results)
	})

	t.Run("get", func(t *testing.T) {
		svc := &fakeService{secret: &Secret{Name: "s1", Value: "hunter2"}}
		resp := execute(t, svc, "kv.secret.get", map[string]any{"subscription": "sub", "vault": "v1", "secret": "s1"})
		require.Equal(t, command.StatusOK, resp.Status)
		assert.Equal(t, "hunter2", resp.Results.(*Secret).Value)
	})

	t.Run("set requires a value", func(t *testing.T) {
		svc := &fakeService{}
		resp := execute(t, svc, "kv.secret.set", map[string]any{"subscription": "sub", "vault": "v1", "secret": "s1"})
		assert.Equal(t, command.StatusBadRequest, resp.Status)
		assert.Contains(t, resp.Message, "--value")
		assert.Empty(t, svc.calls)
	})

	t.Run("set", func(t *testing.T) {
		svc := &fakeService{}
		resp := execute(t, svc, "kv.secret.set", map[string]any{
			"subscription": "sub", "vault": "v1", "secret": "s1", "value": "v",
		})
		require.Equal(t, command.StatusOK, resp.Status)
		assert.Equal(t, &Secret{Name: "s1", Value: "v"}, resp.Results)
	})
}

func TestVaultURL(t *testing.T) {
	assert.Equal(t, "https://myvault.vault.azure.net", VaultURL("myvault"))
}

func TestNormalizeKeyType(t *testing.T) {
	assert.Equal(t, "EC-HSM", normalizeKeyType("ec-hsm"))
	assert.Equal(t, "RSA", normalizeKeyType("rsa"))
	assert.Equal(t, "unknown", normalizeKeyType("unknown"))
}
