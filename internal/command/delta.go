package command

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/qri-io/mddiff"
	"github.com/qri-io/mddiff/internal/log"
)

// formatDelta renders the result next to the values OLD holds for the same
// keys, so changed entries show both sides. Only keys present in the result
// are shown
func formatDelta(result *mddiff.Document, oldDoc interface{}, color bool) (string, error) {
	if result.Len() == 0 {
		return "", nil
	}

	left, err := json.Marshal(objectTree(project(result, oldDoc)))
	if err != nil {
		return "", errors.Wrap(mddiff.ErrEncode, err.Error())
	}
	right, err := json.Marshal(objectTree(result))
	if err != nil {
		return "", errors.Wrap(mddiff.ErrEncode, err.Error())
	}

	differ := gojsondiff.New()
	delta, err := differ.Compare(left, right)
	if err != nil {
		return "", errors.Wrap(err, "comparing delta")
	}
	log.Debugf("delta: %d top level changes", len(delta.Deltas()))

	var jdoc map[string]interface{}
	if err := json.Unmarshal(left, &jdoc); err != nil {
		return "", err
	}

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       color,
	}
	return formatter.NewAsciiFormatter(jdoc, config).Format(delta)
}

// project picks the values of old that sit under the keys of result
func project(result *mddiff.Document, old interface{}) *mddiff.Document {
	od, ok := old.(*mddiff.Document)
	if !ok {
		return mddiff.NewDocument()
	}

	p := mddiff.NewDocument()
	result.Range(func(k mddiff.Key, rv interface{}) bool {
		ov, ok := od.Get(k)
		if !ok {
			return true
		}
		rd, rok := rv.(*mddiff.Document)
		odoc, ook := ov.(*mddiff.Document)
		if rok && ook && rd.Len() > 0 {
			p.Set(k, project(rd, odoc))
		} else {
			p.Set(k, ov)
		}
		return true
	})
	return p
}

// objectTree converts a document to nested JSON objects, rendering every key
// as a member name. Sparse results of list comparisons keep their indices
// this way
func objectTree(doc *mddiff.Document) map[string]interface{} {
	obj := make(map[string]interface{}, doc.Len())
	doc.Range(func(k mddiff.Key, v interface{}) bool {
		switch x := v.(type) {
		case *mddiff.Document:
			obj[k.String()] = objectTree(x)
		case mddiff.Opaque:
			obj[k.String()] = x.V
		default:
			obj[k.String()] = v
		}
		return true
	})
	return obj
}
