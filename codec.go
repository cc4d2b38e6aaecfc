package mddiff

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format names an encoding documents can be read from & written to
type Format string

const (
	// FormatJSON is JavaScript Object Notation
	FormatJSON = Format("json")
	// FormatYAML is YAML 1.2
	FormatYAML = Format("yaml")
	// FormatMsgpack is MessagePack
	FormatMsgpack = Format("msgpack")
)

// ParseFormat matches a format name or file extension, case-insensitively
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack", "mp", "mpk":
		return FormatMsgpack, nil
	default:
		return "", errors.Errorf("unrecognized format %q", s)
	}
}

// FormatFromPath picks a format based on a file extension
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", errors.Errorf("can't detect format of %q without a file extension", path)
	}
	return ParseFormat(ext)
}

// Decode reads data in the given format into a normalized value
func Decode(f Format, data []byte) (interface{}, error) {
	switch f {
	case FormatJSON:
		return DecodeJSON(data)
	case FormatYAML:
		return DecodeYAML(data)
	case FormatMsgpack:
		return DecodeMsgpack(data)
	default:
		return nil, errors.Wrapf(ErrDecode, "unsupported format %q", f)
	}
}

// DecodeFile reads & decodes a file, detecting its format from the extension
func DecodeFile(path string) (interface{}, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v, err := Decode(f, data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return v, nil
}

// Encode writes a document in the given format. JSON output is indented
func Encode(f Format, doc *Document) ([]byte, error) {
	switch f {
	case FormatJSON:
		data, err := doc.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf := &bytes.Buffer{}
		if err := json.Indent(buf, data, "", "  "); err != nil {
			return nil, errors.Wrapf(ErrEncode, "json: %s", err)
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, errors.Wrapf(ErrEncode, "yaml: %s", err)
		}
		return data, nil
	case FormatMsgpack:
		return msgpack.Marshal(doc)
	default:
		return nil, errors.Wrapf(ErrEncode, "unsupported format %q", f)
	}
}
