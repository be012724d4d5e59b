// Package azure provides credential acquisition shared by the Azure areas.
package azure

import (
	"fmt"
	"sync"

	"azmcp/pkg/logging"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// CredentialProvider hands out one credential per tenant. The empty tenant
// selects the default tenant of the signed-in identity.
type CredentialProvider struct {
	mu    sync.Mutex
	creds map[string]azcore.TokenCredential

	newCredential func(tenant string) (azcore.TokenCredential, error)
}

// NewCredentialProvider uses azidentity's DefaultAzureCredential chain.
func NewCredentialProvider() *CredentialProvider {
	return NewCredentialProviderWith(defaultCredential)
}

// NewCredentialProviderWith uses a custom credential constructor.
func NewCredentialProviderWith(newCredential func(tenant string) (azcore.TokenCredential, error)) *CredentialProvider {
	return &CredentialProvider{
		creds:         make(map[string]azcore.TokenCredential),
		newCredential: newCredential,
	}
}

// Credential returns the cached credential for tenant, creating it on first use.
func (p *CredentialProvider) Credential(tenant string) (azcore.TokenCredential, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cred, ok := p.creds[tenant]; ok {
		return cred, nil
	}
	cred, err := p.newCredential(tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire credential: %w", err)
	}
	p.creds[tenant] = cred
	logging.Debug("Azure", "Created credential for tenant %q", tenant)
	return cred, nil
}

func defaultCredential(tenant string) (azcore.TokenCredential, error) {
	return azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{
		TenantID: tenant,
	})
}
