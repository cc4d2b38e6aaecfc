package mddiff

import (
	"strconv"
)

// Key addresses a value within a Document. Keys are either strings (object
// members) or integer indices (list positions). A decimal string in canonical
// form ("0", "12", "-3") is the same key as the matching index, so {"0": x}
// and [x] line up during comparison.
type Key struct {
	str     string
	idx     int
	isIndex bool
}

// StringKey creates a key from a string, canonicalizing integer-like strings
// into index keys
func StringKey(s string) Key {
	if i, ok := canonicalIndex(s); ok {
		return Key{idx: i, isIndex: true}
	}
	return Key{str: s}
}

// IndexKey creates an integer key
func IndexKey(i int) Key {
	return Key{idx: i, isIndex: true}
}

// IsIndex reports whether the key is an integer key
func (k Key) IsIndex() bool { return k.isIndex }

// Index returns the integer value of an index key, and 0 for string keys
func (k Key) Index() int { return k.idx }

// String renders the key. index keys render in decimal
func (k Key) String() string {
	if k.isIndex {
		return strconv.Itoa(k.idx)
	}
	return k.str
}

// less orders index keys before string keys, indices numerically, strings
// lexically
func (k Key) less(other Key) bool {
	if k.isIndex != other.isIndex {
		return k.isIndex
	}
	if k.isIndex {
		return k.idx < other.idx
	}
	return k.str < other.str
}

func canonicalIndex(s string) (int, bool) {
	if s == "" || len(s) > 20 {
		return 0, false
	}
	digits := s
	if s[0] == '-' {
		digits = s[1:]
		if digits == "" || digits == "0" {
			return 0, false
		}
	}
	if digits[0] == '0' && len(digits) > 1 {
		return 0, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, false
		}
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return i, true
}
