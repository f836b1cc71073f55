// Package domain contains the core business types for coursefind.
//
// These types have no dependencies on infrastructure. They represent
// the course catalogue as it flows through the pipeline: raw records
// from a scraper, normalised documents, chunks, and query results.
//
// Import Rules:
//   - Can Import: standard library, validation tags only
//   - Cannot Import: ports, services, adapters, connectors
package domain
