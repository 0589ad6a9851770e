// Package domain defines the core business entities for descheck.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawInput: What the user handed us (file, URL or social post)
//   - CanonicalContent: The normalised payload every later step consumes
//   - PipelineState: Where a submission currently is
//   - Session / Identity: Who is submitting
//   - UploadRecord / AnalysisResult: What the remote services returned
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
