// Package graph builds the import dependency graph over a module set and
// assigns each module its reference level. It runs three passes: extract
// edges from source text, link edges to target descriptors (recording
// reverse edges), and propagate levels so that sorting by descending level
// visits every importee before any of its importers.
package graph
