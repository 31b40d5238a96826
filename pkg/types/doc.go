// Package types defines the data structures shared across the media kit.
// It includes the result envelope returned to the UI bridge, the provider
// payload types (videos, tracks, transcodings, iTunes items), the resolver
// error taxonomy, and the metrics event structures.
package types
