// Package adapter_tools wires the adapter layer into the MCP surface. It
// registers reflection-backed adapters around the Chat and Forms clients,
// exposes every canonical adapter method as a dynamically generated MCP
// tool, and provides management tools for inspecting the registry
// (workspace_adapter_status, workspace_list_adapters,
// workspace_describe_adapter, workspace_adapter_usage).
package adapter_tools
