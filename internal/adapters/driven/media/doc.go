// Package media loads and sniffs image payloads.
//
// LoadFile turns a path on disk into pipeline input, HTTPFetcher streams
// remote images for the encoder, and Inspector reads image headers for
// previews. Media types are detected from content, not file extensions.
package media
