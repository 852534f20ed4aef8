package governor

import (
	"sort"
	"strings"
)

// NameSet is an immutable set of process image names.
type NameSet struct {
	names    map[string]struct{}
	foldCase bool
}

// NewNameSet builds a set from names. With foldCase, lookups ignore case.
func NewNameSet(names []string, foldCase bool) NameSet {
	set := NameSet{
		names:    make(map[string]struct{}, len(names)),
		foldCase: foldCase,
	}
	for _, name := range names {
		if name == "" {
			continue
		}
		set.names[set.key(name)] = struct{}{}
	}
	return set
}

// Contains reports whether name is in the set
func (s NameSet) Contains(name string) bool {
	if len(s.names) == 0 {
		return false
	}
	_, ok := s.names[s.key(name)]
	return ok
}

// Len returns the number of distinct names
func (s NameSet) Len() int {
	return len(s.names)
}

// Names returns the (case folded) names in sorted order
func (s NameSet) Names() []string {
	out := make([]string, 0, len(s.names))
	for name := range s.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s NameSet) key(name string) string {
	if s.foldCase {
		return strings.ToLower(name)
	}
	return name
}

// BypassPolicy is the set of processes that must never be touched. It is
// built once before any toggling starts and never changes afterwards, so it
// is safe to share between goroutines without locking.
type BypassPolicy struct {
	set NameSet
}

// NewBypassPolicy freezes names into a policy
func NewBypassPolicy(names []string, foldCase bool) *BypassPolicy {
	return &BypassPolicy{set: NewNameSet(names, foldCase)}
}

// Bypassed reports whether a process with the given image name must be left alone.
// A nil policy bypasses nothing.
func (b *BypassPolicy) Bypassed(name string) bool {
	if b == nil {
		return false
	}
	return b.set.Contains(name)
}

// Len returns the number of bypassed names
func (b *BypassPolicy) Len() int {
	if b == nil {
		return 0
	}
	return b.set.Len()
}
