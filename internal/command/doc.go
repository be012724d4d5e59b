// Package command provides the static command tree and the execution pipeline
// that turns a raw tool invocation into a structured Response.
//
// # Command Tree
//
// Commands are registered once at startup under dotted paths such as
// "kv.key.get". Every path segment is a Group node; the last segment carries
// the leaf Command. Groups may carry a description which the namespace proxy
// uses when it advertises a whole namespace as a single tool.
//
//	tree := command.NewTree()
//	tree.AddGroup("kv", "Azure Key Vault operations")
//	tree.MustRegister("kv.key.get", keyvault.NewKeyGetCommand(svc))
//
// Registering two commands on the same path is a programming error:
// MustRegister panics, Register returns an error.
//
// # Execution Pipeline
//
// Executor.Execute runs one invocation through four phases:
//
//  1. Binding: raw arguments are mapped onto the descriptor's option schema.
//     Unknown keys are ignored, defaults are applied, type mismatches fail.
//  2. Validating: required options, allowed values and the command's own
//     cross-option checks (Validator). Failures produce a 400 Response.
//  3. Invoking: the command's Execute is called with the bound Options.
//  4. Classifying: success becomes 200 with the command's results, any error
//     becomes 500 with the error text as the message prefix.
//
// Errors never escape Execute; every path ends in a well-formed Response.
package command
