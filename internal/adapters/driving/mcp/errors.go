// Package mcp provides an MCP (Model Context Protocol) server adapter for descheck.
// It lets AI assistants verify and generate image descriptions through the
// same pipeline as the CLI.
package mcp

import "errors"

var (
	// ErrMissingPipeline is returned when the pipeline service is not provided.
	ErrMissingPipeline = errors.New("mcp: pipeline service is required")

	// ErrNoImage is returned when a tool call names neither an image nor a post.
	ErrNoImage = errors.New("mcp: image or post_url is required")

	// ErrAmbiguousInput is returned when a tool call names both an image and a post.
	ErrAmbiguousInput = errors.New("mcp: give either image or post_url, not both")
)
