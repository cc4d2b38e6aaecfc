package mddiff

import (
	"strings"
)

// Document is an ordered mapping from Key to value. Values held by a document
// are always normalized (see Normalize), and key order is preserved as
// inserted. Order carries no meaning for comparison, it only keeps output
// readable.
//
// Documents stand in for both objects and lists: a list is a document whose
// keys are the indices 0..n-1 in order.
//
// The zero value is not usable, create documents with NewDocument
type Document struct {
	keys []Key
	vals map[Key]interface{}
	// list marks documents created from list sources
	list bool
}

// NewDocument allocates an empty document
func NewDocument() *Document {
	return newDocument(0)
}

func newDocument(size int) *Document {
	return &Document{
		keys: make([]Key, 0, size),
		vals: make(map[Key]interface{}, size),
	}
}

// NewList creates a list document from the given values
func NewList(vals ...interface{}) *Document {
	doc := newDocument(len(vals))
	doc.list = true
	for i, v := range vals {
		doc.Set(IndexKey(i), v)
	}
	return doc
}

// Set assigns v to key k, normalizing v first. Setting an existing key
// replaces its value & keeps its position. v must not contain d itself
func (d *Document) Set(k Key, v interface{}) {
	d.set(k, Normalize(v))
}

func (d *Document) set(k Key, v interface{}) {
	if _, ok := d.vals[k]; !ok {
		d.keys = append(d.keys, k)
	}
	d.vals[k] = v
}

// Get returns the value stored at k & whether the key exists. a key mapped to
// nil exists
func (d *Document) Get(k Key) (interface{}, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.vals[k]
	return v, ok
}

// Has reports key existence, not the truthiness of the stored value
func (d *Document) Has(k Key) bool {
	_, ok := d.Get(k)
	return ok
}

// Delete removes k, returning true if it existed
func (d *Document) Delete(k Key) bool {
	if _, ok := d.vals[k]; !ok {
		return false
	}
	delete(d.vals, k)
	for i, key := range d.keys {
		if key == k {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
	return true
}

// Len is the number of keys in the document
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Keys returns document keys in order. The returned slice is a copy
func (d *Document) Keys() []Key {
	if d == nil {
		return nil
	}
	keys := make([]Key, len(d.keys))
	copy(keys, d.keys)
	return keys
}

// Range calls fn for each entry in order until fn returns false
func (d *Document) Range(fn func(k Key, v interface{}) bool) {
	if d == nil {
		return
	}
	for _, k := range d.keys {
		if !fn(k, d.vals[k]) {
			return
		}
	}
}

// IsList reports whether the document was created from a list & its keys
// are still exactly the indices 0..n-1 in order
func (d *Document) IsList() bool {
	if d == nil || !d.list {
		return false
	}
	for i, k := range d.keys {
		if !k.isIndex || k.idx != i {
			return false
		}
	}
	return true
}

// Clone makes a deep copy of the document. nested documents are copied,
// scalars and opaque values are shared
func (d *Document) Clone() *Document {
	return d.clone(map[*Document]*Document{})
}

func (d *Document) clone(memo map[*Document]*Document) *Document {
	if d == nil {
		return nil
	}
	if c, ok := memo[d]; ok {
		return c
	}
	c := newDocument(len(d.keys))
	c.list = d.list
	memo[d] = c
	for _, k := range d.keys {
		v := d.vals[k]
		if sub, ok := v.(*Document); ok {
			v = sub.clone(memo)
		}
		c.set(k, v)
	}
	return c
}

// Interface converts the document into plain go values: list documents
// become []interface{}, everything else becomes map[string]interface{} keyed
// by the rendered key. Opaque values are unwrapped
func (d *Document) Interface() interface{} {
	if d == nil {
		return nil
	}
	if d.IsList() {
		list := make([]interface{}, len(d.keys))
		for i, k := range d.keys {
			list[i] = plain(d.vals[k])
		}
		return list
	}
	obj := make(map[string]interface{}, len(d.keys))
	for _, k := range d.keys {
		obj[k.String()] = plain(d.vals[k])
	}
	return obj
}

func plain(v interface{}) interface{} {
	switch x := v.(type) {
	case *Document:
		return x.Interface()
	case Opaque:
		return x.V
	default:
		return v
	}
}

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// Pointer looks up a value with an RFC 6901 JSON pointer, eg: "/a/b/0".
// the empty pointer refers to the document itself
func (d *Document) Pointer(ptr string) (interface{}, bool) {
	if ptr == "" {
		return d, true
	}
	if !strings.HasPrefix(ptr, "/") {
		return nil, false
	}

	var cur interface{} = d
	for _, tok := range strings.Split(ptr[1:], "/") {
		doc, ok := cur.(*Document)
		if !ok {
			return nil, false
		}
		tok = pointerUnescaper.Replace(tok)
		if cur, ok = doc.Get(StringKey(tok)); !ok {
			return nil, false
		}
	}
	return cur, true
}

// docPath tracks the documents on the current recursion path, guarding
// traversals of hand-built trees that reference themselves
type docPath map[*Document]struct{}

func (p docPath) enter(d *Document) bool {
	if _, ok := p[d]; ok {
		return false
	}
	p[d] = struct{}{}
	return true
}

func (p docPath) leave(d *Document) {
	delete(p, d)
}
