package topic

import (
	"strings"
)

// Builder encapsulates the logic for constructing MQTT topic strings.
// It ensures consistency across every publisher and subscriber in the project.
type Builder struct {
	// root is the base namespace for all topics (e.g., "a4jflight", "rover/dev").
	root string
}

// NewBuilder creates a new instance of Builder with the specified root namespace.
// Trailing slashes are trimmed.
func NewBuilder(root string) *Builder {
	return &Builder{root: strings.TrimRight(root, "/")}
}

// Root returns the namespace the builder was created with.
func (b *Builder) Root() string {
	return b.root
}

// Build joins the root and segments with "/". Empty segments are skipped.
// Pattern: {root}/{segment}/{segment}...
func (b *Builder) Build(segments ...string) string {
	parts := make([]string, 0, len(segments)+1)
	if b.root != "" {
		parts = append(parts, b.root)
	}
	for _, s := range segments {
		if s == "" {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "/")
}

// Wildcard returns {root}/{segments...}/+ .
func (b *Builder) Wildcard(segments ...string) string {
	return b.Build(append(segments, Wildcard)...)
}

// All returns {root}/# and matches everything under the namespace.
func (b *Builder) All() string {
	return b.Build(MultiWildcard)
}
