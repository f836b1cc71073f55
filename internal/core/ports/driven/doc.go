// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - CourseSource: produces raw course records from interchangeable
//     producers (JSON file, browser scraper, static-HTML scraper)
//   - EmbeddingService: maps text to fixed-dimension vectors
//   - LLMService: generation backend for answer synthesis
//   - VectorIndex: read-only k-nearest-neighbour search over chunk vectors
//   - IndexStore: durable persistence for a built index
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
