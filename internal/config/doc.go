// Package config provides configuration management for azmcp.
//
// This package implements a layered configuration system. Configuration is
// loaded from multiple sources and merged in a specific order, with later
// sources overriding earlier ones.
//
// # Configuration Layers
//
//  1. Default Configuration (embedded in binary)
//     - Exposes every command directly, no registry servers
//
//  2. User Configuration (~/.config/azmcp/config.yaml)
//     - User-specific settings that apply to all projects
//
//  3. Project Configuration (./.azmcp/config.yaml)
//     - Project-specific settings in the current directory
//
// An explicit file passed with --config replaces layers 2 and 3. Command
// line flags are applied by the caller after loading.
//
// # Configuration Structure
//
//	server:
//	  name: "Azure MCP Server"
//	  mode: "namespace"          # all, single or namespace
//	  namespaces: ["kv", "kubernetes"]
//	  readOnly: true
//	  tolerateDiscoveryErrors: false
//
//	registry:
//	  servers:
//	    - name: "docs"
//	      description: "Documentation search"
//	      transport: "streamable-http"
//	      url: "http://localhost:8090/mcp"
//	    - name: "local"
//	      transport: "stdio"
//	      command: "npx"
//	      args: ["-y", "some-mcp-server"]
//	      env:
//	        LOG_LEVEL: "debug"
//
// # Merge Rules
//
// Scalar values in a later layer replace earlier ones when set. The readOnly
// and tolerateDiscoveryErrors switches can be turned on by any layer but not
// turned off again. Registry servers are merged by name: a server defined in
// a later layer replaces the earlier definition in place, new servers are
// appended, so the configured order is stable.
//
// # Validation
//
// LoadConfig and LoadConfigFromPath validate the merged result: the mode must
// be known, registry server names must be unique and free of dots, and every
// server must carry the fields its transport needs.
package config
