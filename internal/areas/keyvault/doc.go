// Package keyvault implements the kv command group over Azure Key Vault keys
// and secrets.
package keyvault
