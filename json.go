package mddiff

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// DecodeJSON parses JSON into a normalized value, keeping the order of object
// members. Integer literals decode as int64, all other numbers as float64
func DecodeJSON(data []byte) (interface{}, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.Wrap(ErrDecode, "invalid json")
	}
	return jsonValue(gjson.ParseBytes(data)), nil
}

func jsonValue(r gjson.Result) interface{} {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return numberValue(r.Raw)
	case gjson.String:
		return r.Str
	}

	doc := NewDocument()
	if r.IsArray() {
		doc.list = true
		i := 0
		r.ForEach(func(_, v gjson.Result) bool {
			doc.set(IndexKey(i), jsonValue(v))
			i++
			return true
		})
		return doc
	}
	r.ForEach(func(k, v gjson.Result) bool {
		doc.set(StringKey(k.String()), jsonValue(v))
		return true
	})
	return doc
}

// UnmarshalJSON implements the json.Unmarshaler interface. data must hold a
// JSON object or array
func (d *Document) UnmarshalJSON(data []byte) error {
	v, err := DecodeJSON(data)
	if err != nil {
		return err
	}
	doc, ok := v.(*Document)
	if !ok {
		return errors.Wrapf(ErrDecode, "expected a json object or array, got %s", KindOf(v))
	}
	*d = *doc
	return nil
}

// MarshalJSON implements a custom JSON Marshaller that writes members in
// document order. list documents are written as arrays
func (d *Document) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := writeJSON(buf, d, docPath{}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v interface{}, path docPath) error {
	switch x := v.(type) {
	case *Document:
		if !path.enter(x) {
			return errors.Wrap(ErrEncode, "document contains itself")
		}
		defer path.leave(x)
		return writeJSONDocument(buf, x, path)
	case Opaque:
		v = x.V
	}

	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(ErrEncode, "json: %s", err)
	}
	buf.Write(data)
	if _, ok := v.(float64); ok && !bytes.ContainsAny(data, ".eE") {
		// keep integral floats floats when read back
		buf.WriteString(".0")
	}
	return nil
}

func writeJSONDocument(buf *bytes.Buffer, d *Document, path docPath) error {
	list := d.IsList()
	start, end := byte('{'), byte('}')
	if list {
		start, end = '[', ']'
	}

	buf.WriteByte(start)
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if !list {
			key, err := json.Marshal(k.String())
			if err != nil {
				return errors.Wrapf(ErrEncode, "json: %s", err)
			}
			buf.Write(key)
			buf.WriteByte(':')
		}
		if err := writeJSON(buf, d.vals[k], path); err != nil {
			return err
		}
	}
	buf.WriteByte(end)
	return nil
}
