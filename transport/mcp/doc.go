// Package mcp exposes the game to MCP clients such as LLM agents.
//
// Client registers one MCP tool per REST operation and proxies every call
// to the HTTP API, so an agent drives exactly the same sessions a browser
// or terminal player would. Tool results are plain text: menus with a
// cursor marker, the board drawn with H for the head, o for the body and *
// for food, plus the events of the frame.
//
// The server can be reached two ways:
//   - POST /mcp on the HTTP server, one JSON-RPC message per request
//   - "snakegrid mcp", an stdio server that reuses a running HTTP API or
//     starts an internal one on a loopback port
//
// Failed API calls are reported as tool errors carrying the API's error
// message rather than as protocol errors.
package mcp
