// Package kinds registers the workbook kinds with the core registry.
// Import this package to ensure all kinds are registered.
package kinds

// This file exists to provide a single import point.
// Each kind file uses init() to register its kind.
