// Package toolloader decides which tools a client sees and routes calls to
// them.
//
// A Loader lists tools and executes calls. Every call ends in a
// command.Response, never a bare error, and a name the loader does not list
// yields a 404 without any collaborator being reached.
//
// The variants compose:
//
//   - CommandFactoryLoader exposes tree commands one to one and runs them
//     through the command executor.
//   - RegistryLoader exposes remote registry tools as "<server>.<tool>" and
//     forwards calls over MCP.
//   - SingleProxyLoader lists a single tool named "azure" that dispatches to
//     an inner loader via targetTool and targetArgs, or lists the inner tools
//     when learn is set.
//   - NamespaceLoader lists one tool per top-level namespace; the command
//     argument selects a command inside it.
//   - CompositeLoader merges children; the first child to list a name wins.
//
// Which graph is built for which server mode is decided in package app.
package toolloader
