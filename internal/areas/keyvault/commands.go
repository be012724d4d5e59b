package keyvault

import (
	"context"

	"azmcp/internal/command"
)

const (
	optionVault          = "vault"
	optionKey            = "key"
	optionKeyType        = "key-type"
	optionSecret         = "secret"
	optionValue          = "value"
	optionIncludeManaged = "include-managed"
)

func vaultOption() command.Option {
	return command.Option{
		Name:        optionVault,
		Description: "The name of the Key Vault.",
		Type:        command.TypeString,
		Required:    true,
	}
}

func withCommon(opts ...command.Option) []command.Option {
	return append([]command.Option{command.SubscriptionOption(), command.TenantOption(), vaultOption()}, opts...)
}

// Register adds the kv group and its commands to tree.
func Register(tree *command.Tree, svc Service) error {
	if err := tree.AddGroup("kv", "Key Vault operations - Commands for managing keys and secrets in Azure Key Vault."); err != nil {
		return err
	}
	if err := tree.AddGroup("kv.key", "Key Vault key operations."); err != nil {
		return err
	}
	if err := tree.AddGroup("kv.secret", "Key Vault secret operations."); err != nil {
		return err
	}

	commands := map[string]command.Command{
		"kv.key.list":    &keyListCommand{svc: svc},
		"kv.key.get":     &keyGetCommand{svc: svc},
		"kv.key.create":  &keyCreateCommand{svc: svc},
		"kv.secret.list": &secretListCommand{svc: svc},
		"kv.secret.get":  &secretGetCommand{svc: svc},
		"kv.secret.set":  &secretSetCommand{svc: svc},
	}
	for _, path := range []string{"kv.key.list", "kv.key.get", "kv.key.create", "kv.secret.list", "kv.secret.get", "kv.secret.set"} {
		if err := tree.Register(path, commands[path]); err != nil {
			return err
		}
	}
	return nil
}

type keyListCommand struct{ svc Service }

func (c *keyListCommand) Descriptor() command.Descriptor {
	return command.Descriptor{
		Title: "List Key Vault Keys",
		Description: "List all keys in an Azure Key Vault. Managed keys are only returned when " +
			"--include-managed is set.",
		ReadOnly: true,
		Options: withCommon(command.Option{
			Name:        optionIncludeManaged,
			Description: "Whether or not to include managed keys in results.",
			Type:        command.TypeBool,
			Default:     false,
		}),
	}
}

func (c *keyListCommand) Execute(ctx context.Context, opts command.Options) (any, error) {
	keys, err := c.svc.ListKeys(ctx, opts.String(optionVault), opts.Bool(optionIncludeManaged), opts.String(command.OptionTenant))
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}
	return map[string]any{"keys": keys}, nil
}

type keyGetCommand struct{ svc Service }

func (c *keyGetCommand) Descriptor() command.Descriptor {
	return command.Descriptor{
		Title:       "Get Key Vault Key",
		Description: "Get a key from an Azure Key Vault, including its type, state and lifetime.",
		ReadOnly:    true,
		Options: withCommon(command.Option{
			Name:        optionKey,
			Description: "The name of the key.",
			Type:        command.TypeString,
			Required:    true,
		}),
	}
}

func (c *keyGetCommand) Execute(ctx context.Context, opts command.Options) (any, error) {
	key, err := c.svc.GetKey(ctx, opts.String(optionVault), opts.String(optionKey), opts.String(command.OptionTenant))
	if err != nil {
		return nil, err
	}
	return key, nil
}

type keyCreateCommand struct{ svc Service }

func (c *keyCreateCommand) Descriptor() command.Descriptor {
	return command.Descriptor{
		Title:       "Create Key Vault Key",
		Description: "Create a new key in an Azure Key Vault. Creating a key that exists adds a new version.",
		Options: withCommon(
			command.Option{
				Name:        optionKey,
				Description: "The name of the key.",
				Type:        command.TypeString,
				Required:    true,
			},
			command.Option{
				Name:        optionKeyType,
				Description: "The type of key to create.",
				Type:        command.TypeString,
				Required:    true,
				Allowed:     KeyTypes,
			},
		),
	}
}

func (c *keyCreateCommand) Execute(ctx context.Context, opts command.Options) (any, error) {
	return c.svc.CreateKey(ctx, opts.String(optionVault), opts.String(optionKey), opts.String(optionKeyType), opts.String(command.OptionTenant))
}

type secretListCommand struct{ svc Service }

func (c *secretListCommand) Descriptor() command.Descriptor {
	return command.Descriptor{
		Title:       "List Key Vault Secrets",
		Description: "List the names of all secrets in an Azure Key Vault.",
		ReadOnly:    true,
		Options:     withCommon(),
	}
}

func (c *secretListCommand) Execute(ctx context.Context, opts command.Options) (any, error) {
	secrets, err := c.svc.ListSecrets(ctx, opts.String(optionVault), opts.String(command.OptionTenant))
	if err != nil {
		return nil, err
	}
	if len(secrets) == 0 {
		return nil, nil
	}
	return map[string]any{"secrets": secrets}, nil
}

type secretGetCommand struct{ svc Service }

func (c *secretGetCommand) Descriptor() command.Descriptor {
	return command.Descriptor{
		Title:       "Get Key Vault Secret",
		Description: "Get a secret and its value from an Azure Key Vault.",
		ReadOnly:    true,
		Options: withCommon(command.Option{
			Name:        optionSecret,
			Description: "The name of the secret.",
			Type:        command.TypeString,
			Required:    true,
		}),
	}
}

func (c *secretGetCommand) Execute(ctx context.Context, opts command.Options) (any, error) {
	secret, err := c.svc.GetSecret(ctx, opts.String(optionVault), opts.String(optionSecret), opts.String(command.OptionTenant))
	if err != nil {
		return nil, err
	}
	return secret, nil
}

type secretSetCommand struct{ svc Service }

func (c *secretSetCommand) Descriptor() command.Descriptor {
	return command.Descriptor{
		Title:       "Set Key Vault Secret",
		Description: "Create a secret in an Azure Key Vault, or add a new version if it exists.",
		Destructive: true,
		Options: withCommon(
			command.Option{
				Name:        optionSecret,
				Description: "The name of the secret.",
				Type:        command.TypeString,
				Required:    true,
			},
			command.Option{
				Name:        optionValue,
				Description: "The value to store.",
				Type:        command.TypeString,
				Required:    true,
			},
		),
	}
}

func (c *secretSetCommand) Execute(ctx context.Context, opts command.Options) (any, error) {
	secret, err := c.svc.SetSecret(ctx, opts.String(optionVault), opts.String(optionSecret), opts.String(optionValue), opts.String(command.OptionTenant))
	if err != nil {
		return nil, err
	}
	return secret, nil
}
