package mddiff

import (
	"bytes"
	"math"
	"strconv"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// DecodeMsgpack parses MessagePack data into a normalized value. maps keep
// the order they were written in
func DecodeMsgpack(data []byte) (interface{}, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	v, err := decodeMsgpack(dec)
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "msgpack: %s", err)
	}
	return v, nil
}

func decodeMsgpack(dec *msgpack.Decoder) (interface{}, error) {
	code, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}

	switch {
	case msgpcode.IsFixedMap(code) || code == msgpcode.Map16 || code == msgpcode.Map32:
		l, err := dec.DecodeMapLen()
		if err != nil {
			return nil, err
		}
		doc := newDocument(l)
		for i := 0; i < l; i++ {
			kv, err := dec.DecodeInterfaceLoose()
			if err != nil {
				return nil, err
			}
			key, err := msgpackKey(kv)
			if err != nil {
				return nil, err
			}
			v, err := decodeMsgpack(dec)
			if err != nil {
				return nil, err
			}
			doc.set(key, v)
		}
		return doc, nil
	case msgpcode.IsFixedArray(code) || code == msgpcode.Array16 || code == msgpcode.Array32:
		l, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		doc := newDocument(l)
		doc.list = true
		for i := 0; i < l; i++ {
			v, err := decodeMsgpack(dec)
			if err != nil {
				return nil, err
			}
			doc.set(IndexKey(i), v)
		}
		return doc, nil
	}

	v, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return nil, err
	}
	return Normalize(v), nil
}

func msgpackKey(v interface{}) (Key, error) {
	switch x := v.(type) {
	case string:
		return StringKey(x), nil
	case []byte:
		return StringKey(string(x)), nil
	case int64:
		return IndexKey(int(x)), nil
	case uint64:
		if x > math.MaxInt64 {
			return StringKey(strconv.FormatUint(x, 10)), nil
		}
		return IndexKey(int(x)), nil
	default:
		return Key{}, errors.Errorf("unsupported map key type %T", v)
	}
}

// DecodeMsgpack implements the msgpack.CustomDecoder interface
func (d *Document) DecodeMsgpack(dec *msgpack.Decoder) error {
	v, err := decodeMsgpack(dec)
	if err != nil {
		return errors.Wrapf(ErrDecode, "msgpack: %s", err)
	}
	doc, ok := v.(*Document)
	if !ok {
		return errors.Wrapf(ErrDecode, "expected a msgpack map or array, got %s", KindOf(v))
	}
	*d = *doc
	return nil
}

// EncodeMsgpack implements the msgpack.CustomEncoder interface, writing map
// entries in document order
func (d *Document) EncodeMsgpack(enc *msgpack.Encoder) error {
	return encodeMsgpack(enc, d, docPath{})
}

func encodeMsgpack(enc *msgpack.Encoder, v interface{}, path docPath) error {
	switch x := v.(type) {
	case *Document:
		if !path.enter(x) {
			return errors.Wrap(ErrEncode, "document contains itself")
		}
		defer path.leave(x)

		if x.IsList() {
			if err := enc.EncodeArrayLen(x.Len()); err != nil {
				return err
			}
			for _, k := range x.keys {
				if err := encodeMsgpack(enc, x.vals[k], path); err != nil {
					return err
				}
			}
			return nil
		}

		if err := enc.EncodeMapLen(x.Len()); err != nil {
			return err
		}
		for _, k := range x.keys {
			var err error
			if k.IsIndex() {
				err = enc.EncodeInt(int64(k.idx))
			} else {
				err = enc.EncodeString(k.str)
			}
			if err != nil {
				return err
			}
			if err := encodeMsgpack(enc, x.vals[k], path); err != nil {
				return err
			}
		}
		return nil
	case Opaque:
		return enc.Encode(x.V)
	default:
		return enc.Encode(v)
	}
}
