// Package adapter turns arbitrary Go API clients into MCP-exposable tool
// surfaces at runtime.
//
// An Adapter enumerates the exported methods of a wrapped value via
// reflection. Methods with the canonical shape
//
//	func (c *Client) Op(ctx context.Context, args ArgsStruct) (Result, error)
//
// get a JSON schema synthesized from the args struct and can be invoked
// dynamically through Call with schema validation. Methods with other shapes
// are still listed with a permissive object schema so clients can discover
// them, but cannot be invoked dynamically.
//
// The Registry tracks adapters with metadata, usage counters and
// category/keyword filtering. The Factory carries Google Workspace naming
// defaults. Discovery resolves adapter configuration files on disk.
package adapter
