package entity

import (
	"fmt"
	"strings"
)

// ChangeKind identifies one category of appearance setting change.
type ChangeKind uint8

const (
	ChangeTheme ChangeKind = iota
	ChangeAccent
	ChangeAquaVariant
	ChangeSystemColors
	ChangeFinderLabels
	ChangeAccessibility
	ChangeAutoplayImages

	changeKindCount
)

var changeKindNames = [changeKindCount]string{
	ChangeTheme:          "theme",
	ChangeAccent:         "accent",
	ChangeAquaVariant:    "aqua-variant",
	ChangeSystemColors:   "system-colors",
	ChangeFinderLabels:   "finder-labels",
	ChangeAccessibility:  "accessibility",
	ChangeAutoplayImages: "autoplay-images",
}

// AllChangeKinds returns every known change kind.
func AllChangeKinds() []ChangeKind {
	kinds := make([]ChangeKind, 0, changeKindCount)
	for k := ChangeKind(0); k < changeKindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Valid reports whether k belongs to the closed set of kinds.
func (k ChangeKind) Valid() bool {
	return k < changeKindCount
}

func (k ChangeKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("ChangeKind(%d)", uint8(k))
	}
	return changeKindNames[k]
}

// ParseChangeKind returns the kind with the given name.
func ParseChangeKind(name string) (ChangeKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range changeKindNames {
		if n == name {
			return ChangeKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown change kind %q", name)
}

// ChangeSet is a set of change kinds.
// It is a value type: a copy handed to a listener never sees later additions.
type ChangeSet struct {
	bits uint64
}

// NewChangeSet returns a set holding the given kinds.
func NewChangeSet(kinds ...ChangeKind) ChangeSet {
	var cs ChangeSet
	for _, k := range kinds {
		cs.Add(k)
	}
	return cs
}

// Add inserts k. Adding a kind outside the closed set panics.
func (cs *ChangeSet) Add(k ChangeKind) {
	if !k.Valid() {
		panic(fmt.Sprintf("entity: invalid change kind %d", uint8(k)))
	}
	cs.bits |= 1 << k
}

// Contains reports whether k is in the set.
func (cs ChangeSet) Contains(k ChangeKind) bool {
	return k.Valid() && cs.bits&(1<<k) != 0
}

// Len returns the number of kinds in the set.
func (cs ChangeSet) Len() int {
	n := 0
	for b := cs.bits; b != 0; b &= b - 1 {
		n++
	}
	return n
}

// IsEmpty reports whether the set holds no kinds.
func (cs ChangeSet) IsEmpty() bool {
	return cs.bits == 0
}

// Kinds returns the kinds in declaration order.
func (cs ChangeSet) Kinds() []ChangeKind {
	kinds := make([]ChangeKind, 0, cs.Len())
	for k := ChangeKind(0); k < changeKindCount; k++ {
		if cs.Contains(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Union returns a new set holding the kinds of both sets.
func (cs ChangeSet) Union(other ChangeSet) ChangeSet {
	return ChangeSet{bits: cs.bits | other.bits}
}

// Equal reports whether both sets hold the same kinds.
func (cs ChangeSet) Equal(other ChangeSet) bool {
	return cs.bits == other.bits
}

func (cs ChangeSet) String() string {
	kinds := cs.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return "{" + strings.Join(names, ",") + "}"
}
