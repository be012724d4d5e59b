// Package runtime is the MCP-facing side of azmcp.
//
// A Runtime wraps the tool loader selected at startup. tools/list returns
// the loader's descriptors as MCP tool definitions with title, read-only
// and destructive annotations. tools/call runs the loader and always
// answers with one JSON text content:
//
//	{"status": 200, "message": "Success", "results": {...}, "duration": 12}
//
// The MCP isError flag is set whenever status is not 2xx. Transport level
// errors are never returned for failed invocations.
package runtime
