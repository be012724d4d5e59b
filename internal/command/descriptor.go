package command

import (
	"context"
	"fmt"
)

// OptionType is the declared type of a command option.
type OptionType string

const (
	TypeString      OptionType = "string"
	TypeBool        OptionType = "boolean"
	TypeInt         OptionType = "integer"
	TypeNumber      OptionType = "number"
	TypeObject      OptionType = "object"
	TypeStringArray OptionType = "string-array"
)

// Common option names shared by the cloud areas.
const (
	OptionSubscription = "subscription"
	OptionTenant       = "tenant"
)

// Option describes a single named parameter of a command.
type Option struct {
	Name        string
	Description string
	Type        OptionType
	Required    bool
	Default     any
	// Allowed restricts string values to a fixed set when non-empty.
	Allowed []string
}

// Descriptor is the static metadata of a command. Name is the full dotted
// path and is filled in by the tree at registration time.
type Descriptor struct {
	Name        string
	Title       string
	Description string
	Destructive bool
	ReadOnly    bool
	Options     []Option
}

// Option returns the option with the given name.
func (d Descriptor) Option(name string) (Option, bool) {
	for _, o := range d.Options {
		if o.Name == name {
			return o, true
		}
	}
	return Option{}, false
}

func (d Descriptor) validate() error {
	seen := make(map[string]struct{}, len(d.Options))
	for _, o := range d.Options {
		if o.Name == "" {
			return fmt.Errorf("command %s: option with empty name", d.Name)
		}
		if _, dup := seen[o.Name]; dup {
			return fmt.Errorf("command %s: duplicate option %q", d.Name, o.Name)
		}
		seen[o.Name] = struct{}{}
		switch o.Type {
		case TypeString, TypeBool, TypeInt, TypeNumber, TypeObject, TypeStringArray:
		default:
			return fmt.Errorf("command %s: option %q has unknown type %q", d.Name, o.Name, o.Type)
		}
		if len(o.Allowed) > 0 && o.Type != TypeString {
			return fmt.Errorf("command %s: option %q: allowed values require type %q", d.Name, o.Name, TypeString)
		}
	}
	if d.Destructive && d.ReadOnly {
		return fmt.Errorf("command %s: cannot be both destructive and read-only", d.Name)
	}
	return nil
}

// Command is a leaf of the command tree.
type Command interface {
	// Descriptor returns the static metadata. It must return the same value on every call.
	Descriptor() Descriptor

	// Execute invokes the external collaborator with bound, validated options.
	// A nil result with a nil error means "nothing to report".
	Execute(ctx context.Context, opts Options) (any, error)
}

// Validator is implemented by commands that have cross-option constraints.
type Validator interface {
	Validate(opts Options) error
}

// SubscriptionOption is the common required subscription option.
func SubscriptionOption() Option {
	return Option{
		Name:        OptionSubscription,
		Description: "The Azure subscription ID or name.",
		Type:        TypeString,
		Required:    true,
	}
}

// TenantOption is the common optional tenant hint passed to credential acquisition.
func TenantOption() Option {
	return Option{
		Name:        OptionTenant,
		Description: "The Microsoft Entra ID tenant ID or name.",
		Type:        TypeString,
	}
}
