// Package text reads and writes plain-text files line by line.
//
// A Manager wraps one file and opens it once per call through fileop.
// Structured payloads (maps, slices) are written as JSON.
package text
