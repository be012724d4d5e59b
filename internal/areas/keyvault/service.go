package keyvault

import (
	"context"
	"fmt"
	"strings"
	"time"

	"azmcp/pkg/logging"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azkeys"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
)

// Key is the projection of a Key Vault key returned to clients.
type Key struct {
	Name      string     `json:"name"`
	KeyType   string     `json:"keyType"`
	Enabled   *bool      `json:"enabled,omitempty"`
	NotBefore *time.Time `json:"notBefore,omitempty"`
	ExpiresOn *time.Time `json:"expiresOn,omitempty"`
	CreatedOn *time.Time `json:"createdOn,omitempty"`
	UpdatedOn *time.Time `json:"updatedOn,omitempty"`
}

// Secret is the projection of a Key Vault secret returned to clients.
type Secret struct {
	Name        string     `json:"name"`
	Value       string     `json:"value"`
	ContentType string     `json:"contentType,omitempty"`
	Enabled     *bool      `json:"enabled,omitempty"`
	NotBefore   *time.Time `json:"notBefore,omitempty"`
	ExpiresOn   *time.Time `json:"expiresOn,omitempty"`
	CreatedOn   *time.Time `json:"createdOn,omitempty"`
	UpdatedOn   *time.Time `json:"updatedOn,omitempty"`
}

// Service is the Key Vault collaborator of the kv commands.
type Service interface {
	ListKeys(ctx context.Context, vault string, includeManaged bool, tenant string) ([]string, error)
	GetKey(ctx context.Context, vault, name, tenant string) (*Key, error)
	CreateKey(ctx context.Context, vault, name, keyType, tenant string) (*Key, error)
	ListSecrets(ctx context.Context, vault, tenant string) ([]string, error)
	GetSecret(ctx context.Context, vault, name, tenant string) (*Secret, error)
	SetSecret(ctx context.Context, vault, name, value, tenant string) (*Secret, error)
}

// CredentialSource hands out Azure credentials per tenant.
type CredentialSource interface {
	Credential(tenant string) (azcore.TokenCredential, error)
}

// KeyTypes are the key types accepted by kv key create.
var KeyTypes = []string{
	string(azkeys.KeyTypeRSA),
	string(azkeys.KeyTypeRSAHSM),
	string(azkeys.KeyTypeEC),
	string(azkeys.KeyTypeECHSM),
	string(azkeys.KeyTypeOct),
	string(azkeys.KeyTypeOctHSM),
}

// AzureService implements Service with the Azure SDK data-plane clients.
type AzureService struct {
	credentials CredentialSource
	// vaultURL is replaceable for sovereign clouds.
	vaultURL func(vault string) string
}

func NewAzureService(credentials CredentialSource) *AzureService {
	return &AzureService{credentials: credentials, vaultURL: VaultURL}
}

// VaultURL returns the public-cloud endpoint of a vault.
func VaultURL(vault string) string {
	return fmt.Sprintf("https://%s.vault.azure.net", vault)
}

func (s *AzureService) keyClient(vault, tenant string) (*azkeys.Client, error) {
	cred, err := s.credentials.Credential(tenant)
	if err != nil {
		return nil, err
	}
	return azkeys.NewClient(s.vaultURL(vault), cred, nil)
}

func (s *AzureService) secretClient(vault, tenant string) (*azsecrets.Client, error) {
	cred, err := s.credentials.Credential(tenant)
	if err != nil {
		return nil, err
	}
	return azsecrets.NewClient(s.vaultURL(vault), cred, nil)
}

func (s *AzureService) ListKeys(ctx context.Context, vault string, includeManaged bool, tenant string) ([]string, error) {
	client, err := s.keyClient(vault, tenant)
	if err != nil {
		return nil, err
	}

	var keys []string
	pager := client.NewListKeyPropertiesPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("Error retrieving keys from vault %s: %w", vault, err)
		}
		for _, props := range page.Value {
			if props == nil || props.KID == nil {
				continue
			}
			managed := props.Managed != nil && *props.Managed
			if managed != includeManaged {
				continue
			}
			keys = append(keys, props.KID.Name())
		}
	}
	logging.Debug("KeyVault", "Listed %d keys in vault %s", len(keys), vault)
	return keys, nil
}

func (s *AzureService) GetKey(ctx context.Context, vault, name, tenant string) (*Key, error) {
	client, err := s.keyClient(vault, tenant)
	if err != nil {
		return nil, err
	}
	resp, err := client.GetKey(ctx, name, "", nil)
	if err != nil {
		return nil, fmt.Errorf("Error retrieving key '%s' from vault %s: %w", name, vault, err)
	}
	return keyFromBundle(name, resp.KeyBundle), nil
}

func (s *AzureService) CreateKey(ctx context.Context, vault, name, keyType, tenant string) (*Key, error) {
	client, err := s.keyClient(vault, tenant)
	if err != nil {
		return nil, err
	}
	kty := azkeys.KeyType(normalizeKeyType(keyType))
	resp, err := client.CreateKey(ctx, name, azkeys.CreateKeyParameters{Kty: to.Ptr(kty)}, nil)
	if err != nil {
		return nil, fmt.Errorf("Error creating key '%s' in vault %s: %w", name, vault, err)
	}
	return keyFromBundle(name, resp.KeyBundle), nil
}

func (s *AzureService) ListSecrets(ctx context.Context, vault, tenant string) ([]string, error) {
	client, err := s.secretClient(vault, tenant)
	if err != nil {
		return nil, err
	}

	var secrets []string
	pager := client.NewListSecretPropertiesPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("Error retrieving secrets from vault %s: %w", vault, err)
		}
		for _, props := range page.Value {
			if props == nil || props.ID == nil {
				continue
			}
			secrets = append(secrets, props.ID.Name())
		}
	}
	return secrets, nil
}

func (s *AzureService) GetSecret(ctx context.Context, vault, name, tenant string) (*Secret, error) {
	client, err := s.secretClient(vault, tenant)
	if err != nil {
		return nil, err
	}
	resp, err := client.GetSecret(ctx, name, "", nil)
	if err != nil {
		return nil, fmt.Errorf("Error retrieving secret '%s' from vault %s: %w", name, vault, err)
	}
	return secretFromBundle(name, resp.Secret), nil
}

func (s *AzureService) SetSecret(ctx context.Context, vault, name, value, tenant string) (*Secret, error) {
	client, err := s.secretClient(vault, tenant)
	if err != nil {
		return nil, err
	}
	resp, err := client.SetSecret(ctx, name, azsecrets.SetSecretParameters{Value: to.Ptr(value)}, nil)
	if err != nil {
		return nil, fmt.Errorf("Error creating secret '%s' in vault %s: %w", name, vault, err)
	}
	return secretFromBundle(name, resp.Secret), nil
}

// normalizeKeyType maps case-insensitive input onto the SDK's spelling.
func normalizeKeyType(keyType string) string {
	for _, kt := range KeyTypes {
		if strings.EqualFold(kt, keyType) {
			return kt
		}
	}
	return keyType
}

func keyFromBundle(name string, bundle azkeys.KeyBundle) *Key {
	key := &Key{Name: name}
	if bundle.Key != nil {
		if bundle.Key.KID != nil {
			key.Name = bundle.Key.KID.Name()
		}
		if bundle.Key.Kty != nil {
			key.KeyType = string(*bundle.Key.Kty)
		}
	}
	if attrs := bundle.Attributes; attrs != nil {
		key.Enabled = attrs.Enabled
		key.NotBefore = attrs.NotBefore
		key.ExpiresOn = attrs.Expires
		key.CreatedOn = attrs.Created
		key.UpdatedOn = attrs.Updated
	}
	return key
}

func secretFromBundle(name string, bundle azsecrets.Secret) *Secret {
	secret := &Secret{Name: name}
	if bundle.ID != nil {
		secret.Name = bundle.ID.Name()
	}
	if bundle.Value != nil {
		secret.Value = *bundle.Value
	}
	if bundle.ContentType != nil {
		secret.ContentType = *bundle.ContentType
	}
	if attrs := bundle.Attributes; attrs != nil {
		secret.Enabled = attrs.Enabled
		secret.NotBefore = attrs.NotBefore
		secret.ExpiresOn = attrs.Expires
		secret.CreatedOn = attrs.Created
		secret.UpdatedOn = attrs.Updated
	}
	return secret
}
