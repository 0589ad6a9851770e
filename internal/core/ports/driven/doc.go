// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ConfigStore: Application configuration
//   - TokenStore: Bearer token persistence
//   - IdentityService: Login, registration and the signed-in user
//   - RemoteStore: Upload, list and delete stored content
//   - Analyzer: Remote image analysis
//   - SocialExtractor: Image and caption extraction from social posts
//   - ContentFetcher: Lazy retrieval of URL payloads
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - HistoryStore: Local run log. Without it, history is not recorded.
//   - ImageInspector: Preview metadata. Without it, previews show no dimensions.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
