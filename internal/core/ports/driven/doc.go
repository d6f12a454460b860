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
//   - CorpusStore: Test case persistence, sharded by functional area
//   - CorpusSource: Reads test case shards from their backing files
//   - EmbeddingService: Generates vector embeddings for similarity ranking
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Language model operations. Without it, review and
//     duplicate classification are skipped and raw scores are returned.
//   - EmbeddingCache: Embedding persistence. Without it, every ranking
//     re-embeds the corpus.
//   - ReportExporter: CSV report output. Without it, export is disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
