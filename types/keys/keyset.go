package keys

import "strings"

// Set is a compact set of dispatch keys.
//
// The zero value is the empty set. Sets compare equal with == when they hold
// the same keys. Membership is O(1) and enumeration is O(KeyNumKeys), always
// in priority order.
type Set uint16

// NewSet returns a Set holding the given keys.
func NewSet(ks ...Key) Set {
	var s Set
	for _, k := range ks {
		s.Add(k)
	}
	return s
}

// Has returns true if Set s has the given key.
func (s Set) Has(k Key) bool {
	checkValid(k)
	return s&(1<<k) != 0
}

// Add inserts the key into the set. Adding a key already present is a no-op.
func (s *Set) Add(k Key) {
	checkValid(k)
	*s |= 1 << k
}

// Remove deletes the key from the set. Removing an absent key is a no-op.
func (s *Set) Remove(k Key) {
	checkValid(k)
	*s &^= 1 << k
}

// Clear empties the set.
func (s *Set) Clear() {
	*s = 0
}

// IsEmpty reports whether the set has no keys.
func (s Set) IsEmpty() bool {
	return s == 0
}

// Len returns the number of keys in the set.
func (s Set) Len() int {
	count := 0
	for v := s; v != 0; v &= v - 1 {
		count++
	}
	return count
}

// Union returns the set of keys present in either s or other.
func (s Set) Union(other Set) Set {
	return s | other
}

// Intersect returns the set of keys present in both s and other.
func (s Set) Intersect(other Set) Set {
	return s & other
}

// Difference returns the set of keys present in s but not in other.
func (s Set) Difference(other Set) Set {
	return s &^ other
}

// UnionWith adds every key of other to s.
func (s *Set) UnionWith(other Set) {
	*s |= other
}

// IntersectWith removes from s every key not in other.
func (s *Set) IntersectWith(other Set) {
	*s &= other
}

// DifferenceWith removes from s every key in other.
func (s *Set) DifferenceWith(other Set) {
	*s &^= other
}

// Keys returns the members of the set in ascending priority number, so the
// key dispatch would select first comes first.
func (s Set) Keys() []Key {
	if s.IsEmpty() {
		return nil
	}
	result := make([]Key, 0, s.Len())
	for _, k := range keysByPriority {
		if s.Has(k) {
			result = append(result, k)
		}
	}
	return result
}

// HighestPriority returns the member with the lowest priority number, the key
// dispatch selects first. It returns KeyUndefined for the empty set; an
// Undefined member is never preferred over any other member.
func (s Set) HighestPriority() Key {
	for _, k := range keysByPriority {
		if s.Has(k) {
			return k
		}
	}
	return KeyUndefined
}

// String renders the set as "{}" or "{K1, K2, …}" with members in priority
// order.
func (s Set) String() string {
	if s.IsEmpty() {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range s.Keys() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k.String())
	}
	sb.WriteByte('}')
	return sb.String()
}
