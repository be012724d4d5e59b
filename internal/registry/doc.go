// Package registry connects to the remote MCP servers listed in the
// configuration and re-exposes their tools.
//
// Each server is reached over stdio, SSE or streamable HTTP using the
// mcp-go client. Connections are opened on first use. Tool listings are
// cached per server; listing all servers fans out concurrently but the
// result keeps the configured order. Tools are addressed as
// "<server>.<tool>", see SplitPrefixedName.
package registry
