// Package kernel holds the primitives shared by every aggregate of the dispatch
// domain: identifiers, the acting user and calendar date helpers.
package kernel
