package tree

import (
	"iter"
	"slices"
	"strings"
)

// Source is the read-only capability set Build needs from a tree node.
//
// ChildCount is the number of children the node declares; Children returns
// the children that can actually be enumerated. The two must agree, and
// Build rejects a node for which they do not.
type Source interface {
	Tag() string
	ChildCount() int
	Children() []Source
	Attrs() iter.Seq2[string, string]
	ID() (string, bool)
}

// attrSharer is implemented by sources whose attribute map is already
// immutable and may be reused by reference instead of copied.
type attrSharer interface {
	sharedAttrs() map[string]string
}

// PruneFunc reports whether a child should be left out of the layout.
type PruneFunc func(Source) bool

// SkipTags returns a PruneFunc that drops children with any of the given
// tags. Tags are compared case-insensitively.
func SkipTags(tags ...string) PruneFunc {
	skip := make([]string, len(tags))
	for i, t := range tags {
		skip[i] = strings.ToLower(t)
	}
	return func(s Source) bool {
		return slices.Contains(skip, strings.ToLower(s.Tag()))
	}
}
