package keyed

import (
	"fmt"
	"slices"
)

// Path identifies how a pass was realized.
type Path uint8

const (
	PathGeneral         Path = iota // LIS-based diff
	PathIdentical                   // same keys in the same order
	PathCreateAll                   // nothing rendered before
	PathClear                       // nothing to render now
	PathReplaceAll                  // no key in common
	PathAppend                      // old keys are a prefix of new keys
	PathPrepend                     // old keys are a suffix of new keys
	PathTrailingRemoval             // exactly the last old key dropped
)

// String returns the string representation of the Path.
func (p Path) String() string {
	switch p {
	case PathGeneral:
		return "general"
	case PathIdentical:
		return "identical"
	case PathCreateAll:
		return "create_all"
	case PathClear:
		return "clear"
	case PathReplaceAll:
		return "replace_all"
	case PathAppend:
		return "append"
	case PathPrepend:
		return "prepend"
	case PathTrailingRemoval:
		return "trailing_removal"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Path) UnmarshalText(text []byte) error {
	for c := PathGeneral; c <= PathTrailingRemoval; c++ {
		if c.String() == string(text) {
			*p = c
			return nil
		}
	}
	return fmt.Errorf("keyed: unknown path %q", text)
}

// Script is the outcome of planning one pass.
type Script struct {
	// Path is the fast path taken, or PathGeneral.
	Path Path

	// Sources maps each new position to its old position, or -1 for a create.
	Sources []int

	// Removed lists old positions whose keys are gone, in old order.
	Removed []int

	// Created lists new positions that need a fresh row, in new order.
	Created []int

	// Moved lists new positions of retained rows that must be physically
	// moved, in new order. Only PathGeneral moves rows.
	Moved []int
}

// Retained returns the number of rows kept from the previous pass.
func (s Script) Retained() int {
	return len(s.Sources) - len(s.Created)
}

// Plan computes the create/remove/move script that turns old into next.
// Both slices must be free of duplicate keys.
func Plan[K comparable](old, next []K) Script {
	n, m := len(old), len(next)
	s := Script{Sources: make([]int, m)}

	switch {
	case n == 0 && m == 0:
		s.Path = PathIdentical
		return s
	case n == 0:
		s.Path = PathCreateAll
		for i := range next {
			s.Sources[i] = -1
			s.Created = append(s.Created, i)
		}
		return s
	case m == 0:
		s.Path = PathClear
		s.Removed = seq(0, n)
		return s
	case slices.Equal(old, next):
		s.Path = PathIdentical
		for i := range next {
			s.Sources[i] = i
		}
		return s
	case m == n-1 && slices.Equal(old[:m], next):
		s.Path = PathTrailingRemoval
		for i := range next {
			s.Sources[i] = i
		}
		s.Removed = []int{m}
		return s
	case m > n && slices.Equal(old, next[:n]):
		s.Path = PathAppend
		for i := range next {
			if i < n {
				s.Sources[i] = i
			} else {
				s.Sources[i] = -1
				s.Created = append(s.Created, i)
			}
		}
		return s
	case m > n && slices.Equal(old, next[m-n:]):
		s.Path = PathPrepend
		for i := range next {
			if i < m-n {
				s.Sources[i] = -1
				s.Created = append(s.Created, i)
			} else {
				s.Sources[i] = i - (m - n)
			}
		}
		return s
	}

	oldIndex := make(map[K]int, n)
	for i, k := range old {
		oldIndex[k] = i
	}

	kept := make([]bool, n)
	for i, k := range next {
		if j, ok := oldIndex[k]; ok {
			s.Sources[i] = j
			kept[j] = true
		} else {
			s.Sources[i] = -1
			s.Created = append(s.Created, i)
		}
	}

	for j, ok := range kept {
		if !ok {
			s.Removed = append(s.Removed, j)
		}
	}

	if len(s.Created) == m {
		s.Path = PathReplaceAll
		return s
	}

	stable := LIS(s.Sources)
	inLIS := make([]bool, m)
	for _, i := range stable {
		inLIS[i] = true
	}
	for i, src := range s.Sources {
		if src >= 0 && !inLIS[i] {
			s.Moved = append(s.Moved, i)
		}
	}

	s.Path = PathGeneral
	return s
}

func seq(from, to int) []int {
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}
