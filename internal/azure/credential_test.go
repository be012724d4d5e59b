package azure

import (
	"context"
	"errors"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCredential struct{ tenant string }

func (staticCredential) GetToken(context.Context, policy.TokenRequestOptions) (azcore.AccessToken, error) {
	return azcore.AccessToken{Token: "token"}, nil
}

func TestCredentialProvider_CachesPerTenant(t *testing.T) {
	var created []string
	provider := NewCredentialProviderWith(func(tenant string) (azcore.TokenCredential, error) {
		created = append(created, tenant)
		return staticCredential{tenant: tenant}, nil
	})

	a1, err := provider.Credential("tenant-a")
	require.NoError(t, err)
	a2, err := provider.Credential("tenant-a")
	require.NoError(t, err)
	_, err = provider.Credential("")
	require.NoError(t, err)

	assert.Equal(t, a1, a2)
	assert.Equal(t, []string{"tenant-a", ""}, created)
}

func TestCredentialProvider_Error(t *testing.T) {
	provider := NewCredentialProviderWith(func(string) (azcore.TokenCredential, error) {
		return nil, errors.New("no identity")
	})
	_, err := provider.Credential("t")
	assert.ErrorContains(t, err, "no identity")
}
