package mddiff

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
)

// Kind defines all of the atoms in our universe, or the types of data we
// will encounter while comparing documents
type Kind uint8

const (
	// KindUnknown defines a type outside our universe, should never be
	// encountered on a normalized value
	KindUnknown Kind = iota
	// KindDocument is a container of key / value pairs
	KindDocument
	// KindString is a string scalar
	KindString
	// KindFloat is a float64 scalar
	KindFloat
	// KindInt is an int64 scalar
	KindInt
	// KindBool is a boolean scalar
	KindBool
	// KindNull is the absence of a value, nil
	KindNull
	// KindOpaque is any value that isn't a document or scalar. opaque values
	// are compared by identity
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "Document"
	case KindString:
		return "String"
	case KindFloat:
		return "Float"
	case KindInt:
		return "Int"
	case KindBool:
		return "Bool"
	case KindNull:
		return "Null"
	case KindOpaque:
		return "Opaque"
	default:
		return "Unknown"
	}
}

// Opaque wraps a value that can't be classified as a document or scalar,
// eg: a function, channel or pointer. Opaque values are never recursed into
// or coerced, two opaque values are equal only when they're the same value
type Opaque struct {
	V interface{}
}

// String implements the fmt.Stringer interface
func (o Opaque) String() string {
	return fmt.Sprintf("opaque(%T)", o.V)
}

// KindOf classifies a normalized value
func KindOf(v interface{}) Kind {
	switch x := v.(type) {
	case nil:
		return KindNull
	case *Document:
		if x == nil {
			return KindNull
		}
		return KindDocument
	case string:
		return KindString
	case float64:
		return KindFloat
	case int64:
		return KindInt
	case bool:
		return KindBool
	case Opaque:
		return KindOpaque
	default:
		return KindUnknown
	}
}

// Normalize converts an arbitrary go value into the closed set of kinds
// documents are built from. Maps with string or integer keys, slices and
// arrays become *Document, numbers widen to int64 & float64, and anything
// left over is wrapped as Opaque. A map or slice that contains itself is
// not followed: the repeated reference is kept as an Opaque value
func Normalize(v interface{}) interface{} {
	n := &normalizer{}
	return n.value(v)
}

// visitKey identifies a reference-typed container during normalization
type visitKey struct {
	t   reflect.Type
	ptr uintptr
	len int
}

type normalizer struct {
	path map[visitKey]struct{}
}

func (n *normalizer) value(v interface{}) interface{} {
	switch x := v.(type) {
	case nil:
		return nil
	case *Document:
		if x == nil {
			return nil
		}
		return x
	case Opaque:
		return x
	case string, int64, float64, bool:
		return x
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		return uintValue(uint64(x))
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return uintValue(x)
	case float32:
		return float64(x)
	case []byte:
		return string(x)
	case json.Number:
		return numberValue(x.String())
	}
	return n.reflectValue(v)
}

func (n *normalizer) reflectValue(v interface{}) interface{} {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return uintValue(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Map:
		if !keyableKind(rv.Type().Key().Kind()) {
			return Opaque{V: v}
		}
		id := visitKey{t: rv.Type(), ptr: rv.Pointer()}
		if !n.enter(id) {
			return Opaque{V: v}
		}
		defer n.leave(id)
		return n.mapDocument(rv)
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return string(rv.Bytes())
		}
		id := visitKey{t: rv.Type(), ptr: rv.Pointer(), len: rv.Len()}
		if !n.enter(id) {
			return Opaque{V: v}
		}
		defer n.leave(id)
		return n.listDocument(rv)
	case reflect.Array:
		return n.listDocument(rv)
	default:
		return Opaque{V: v}
	}
}

func (n *normalizer) enter(id visitKey) bool {
	if id.ptr == 0 {
		return true
	}
	if n.path == nil {
		n.path = map[visitKey]struct{}{}
	}
	if _, ok := n.path[id]; ok {
		return false
	}
	n.path[id] = struct{}{}
	return true
}

func (n *normalizer) leave(id visitKey) {
	delete(n.path, id)
}

func (n *normalizer) mapDocument(rv reflect.Value) *Document {
	type entry struct {
		key Key
		val reflect.Value
	}

	// go maps are unordered, sort keys for deterministic output
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		entries = append(entries, entry{key: reflectKey(iter.Key()), val: iter.Value()})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].key.less(entries[j].key)
	})

	doc := newDocument(len(entries))
	for _, e := range entries {
		doc.set(e.key, n.value(e.val.Interface()))
	}
	return doc
}

func (n *normalizer) listDocument(rv reflect.Value) *Document {
	l := rv.Len()
	doc := newDocument(l)
	doc.list = true
	for i := 0; i < l; i++ {
		doc.set(IndexKey(i), n.value(rv.Index(i).Interface()))
	}
	return doc
}

func keyableKind(k reflect.Kind) bool {
	switch k {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func reflectKey(rv reflect.Value) Key {
	switch rv.Kind() {
	case reflect.String:
		return StringKey(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return IndexKey(int(rv.Int()))
	default:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return StringKey(strconv.FormatUint(u, 10))
		}
		return IndexKey(int(u))
	}
}

func uintValue(u uint64) interface{} {
	if u > math.MaxInt64 {
		return float64(u)
	}
	return int64(u)
}

// numberValue parses a numeric literal as an int64 where possible, falling
// back to float64 for fractions, exponents & integers that overflow
func numberValue(lit string) interface{} {
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(lit, 64); err == nil {
		return f
	}
	return lit
}
