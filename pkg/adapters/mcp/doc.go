// Package mcp exposes a running engine as a Model Context Protocol server,
// so agents can inspect flags and drive the signal board as tools.
package mcp
