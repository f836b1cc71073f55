// Package connectors provides implementations of the CourseSource
// interface for various catalogue sources. Each connector knows how to
// fetch course records from a specific source type (JSON file, headless
// browser, static HTML).
package connectors
