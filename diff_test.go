package mddiff

import (
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

type TestCase struct {
	description string // description of what test is checking
	new, old    string // express test cases as json strings
	expect      string // expected result, also as json
}

func mustDecodeJSON(t *testing.T, s string) interface{} {
	t.Helper()
	v, err := DecodeJSON([]byte(s))
	if err != nil {
		t.Fatalf("decoding %q: %s", s, err)
	}
	return v
}

func RunTestCases(t *testing.T, cases []TestCase, opts ...Option) {
	d := New(opts...)

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			nd := mustDecodeJSON(t, c.new)
			od := mustDecodeJSON(t, c.old)
			expect := mustDecodeJSON(t, c.expect).(*Document)

			got, err := d.Compare(nd, od)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(expect.Interface(), got.Interface()); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBasicComparison(t *testing.T) {
	cases := []TestCase{
		{"identical documents",
			`{"a":1,"b":{"c":[1,2,"three"]},"d":null}`,
			`{"a":1,"b":{"c":[1,2,"three"]},"d":null}`,
			`{}`,
		},
		{"key added",
			`{"a":1,"b":2}`,
			`{"a":1}`,
			`{"b":2}`,
		},
		{"keys only in old are ignored",
			`{"a":1}`,
			`{"a":1,"b":2,"c":{"d":3}}`,
			`{}`,
		},
		{"changed scalar emits new value",
			`{"a":1}`,
			`{"a":2}`,
			`{"a":1}`,
		},
		{"nested change keeps its path",
			`{"a":{"b":{"c":1,"d":2}},"e":"same"}`,
			`{"a":{"b":{"c":1,"d":3}},"e":"same"}`,
			`{"a":{"b":{"d":2}}}`,
		},
		{"equal subtree vanishes",
			`{"a":{"b":1},"c":{"d":{"e":[1,2]}}}`,
			`{"a":{"b":2},"c":{"d":{"e":[1,2]}}}`,
			`{"a":{"b":1}}`,
		},
		{"null is a present value",
			`{"a":null}`,
			`{"a":null}`,
			`{}`,
		},
		{"null reported when key missing",
			`{"a":null,"b":false,"c":0,"d":""}`,
			`{}`,
			`{"a":null,"b":false,"c":0,"d":""}`,
		},
		{"list element change keeps its index",
			`{"a":[1,2,3]}`,
			`{"a":[1,5,3]}`,
			`{"a":{"1":2}}`,
		},
		{"list grew",
			`{"a":[1,2,3]}`,
			`{"a":[1,2]}`,
			`{"a":{"2":3}}`,
		},
		{"list shrank",
			`{"a":[1,2]}`,
			`{"a":[1,2,3]}`,
			`{}`,
		},
		{"list lines up with integer keys",
			`[1,2]`,
			`{"0":1,"1":2}`,
			`[]`,
		},
		{"root list",
			`[{"a":1},{"a":2}]`,
			`[{"a":1},{"a":3}]`,
			`{"1":{"a":2}}`,
		},
		{"six levels deep",
			`{"a":{"b":{"c":{"d":{"e":{"f":1,"g":2}}}}}}`,
			`{"a":{"b":{"c":{"d":{"e":{"f":1,"g":3}}}}}}`,
			`{"a":{"b":{"c":{"d":{"e":{"g":2}}}}}}`,
		},
	}

	RunTestCases(t, cases)
	RunTestCases(t, cases, OptionLoose())
}

func TestEmptyContainers(t *testing.T) {
	cases := []TestCase{
		{"empty list equals empty list",
			`{"a":[]}`,
			`{"a":[]}`,
			`{}`,
		},
		{"empty list equals empty object",
			`{"a":[]}`,
			`{"a":{}}`,
			`{}`,
		},
		{"empty list vs non-empty list",
			`{"a":[]}`,
			`{"a":[1]}`,
			`{"a":[]}`,
		},
		{"empty object vs scalar",
			`{"a":{}}`,
			`{"a":0}`,
			`{"a":{}}`,
		},
		{"empty list vs null",
			`{"a":[]}`,
			`{"a":null}`,
			`{"a":[]}`,
		},
		{"non-empty list vs empty list",
			`{"a":[1]}`,
			`{"a":[]}`,
			`{"a":[1]}`,
		},
		{"empty root",
			`{}`,
			`{"a":1}`,
			`{}`,
		},
	}

	RunTestCases(t, cases)
	RunTestCases(t, cases, OptionLoose())
}

func TestReplacements(t *testing.T) {
	cases := []TestCase{
		{"container replaced by scalar",
			`{"a":{"b":1}}`,
			`{"a":"x"}`,
			`{"a":{"b":1}}`,
		},
		{"scalar replaced by container",
			`{"a":"x"}`,
			`{"a":{"b":1}}`,
			`{"a":"x"}`,
		},
		{"list replaced by null",
			`{"a":[1,2]}`,
			`{"a":null}`,
			`{"a":[1,2]}`,
		},
	}

	RunTestCases(t, cases)
	RunTestCases(t, cases, OptionLoose())
}

func TestStrictComparison(t *testing.T) {
	cases := []TestCase{
		{"int vs numeric string",
			`{"a":1714}`,
			`{"a":"1714"}`,
			`{"a":1714}`,
		},
		{"int vs float",
			`{"a":1}`,
			`{"a":1.0}`,
			`{"a":1}`,
		},
		{"false vs null",
			`{"a":false}`,
			`{"a":null}`,
			`{"a":false}`,
		},
		{"false vs zero",
			`{"a":false}`,
			`{"a":0}`,
			`{"a":false}`,
		},
		{"empty string vs null",
			`{"a":""}`,
			`{"a":null}`,
			`{"a":""}`,
		},
		{"floats within epsilon",
			`{"a":1.0000000000000002}`,
			`{"a":1.0}`,
			`{}`,
		},
		{"floats beyond epsilon",
			`{"a":123.0}`,
			`{"a":124.0}`,
			`{"a":123.0}`,
		},
		{"strings are case sensitive",
			`{"a":"abc"}`,
			`{"a":"ABC"}`,
			`{"a":"abc"}`,
		},
	}

	RunTestCases(t, cases)
	RunTestCases(t, cases, OptionStrict(true))
}

func TestLooseComparison(t *testing.T) {
	cases := []TestCase{
		{"int vs numeric string",
			`{"a":1714}`,
			`{"a":"1714"}`,
			`{}`,
		},
		{"int vs float",
			`{"a":1}`,
			`{"a":1.0}`,
			`{}`,
		},
		{"false vs zero",
			`{"a":false,"b":false,"c":false}`,
			`{"a":0,"b":"","c":"0"}`,
			`{}`,
		},
		{"true vs non-empty string",
			`{"a":true}`,
			`{"a":"abc"}`,
			`{}`,
		},
		{"null vs falsy scalars",
			`{"a":null,"b":null,"c":false,"d":0}`,
			`{"a":false,"b":0,"c":null,"d":null}`,
			`{}`,
		},
		{"null vs strings",
			`{"a":null,"b":null}`,
			`{"a":"0","b":"x"}`,
			`{"a":null,"b":null}`,
		},
		{"null vs float zero",
			`{"a":null,"b":0.0}`,
			`{"a":0.0,"b":null}`,
			`{"a":null,"b":0.0}`,
		},
		{"empty string vs null",
			`{"a":""}`,
			`{"a":null}`,
			`{"a":""}`,
		},
		{"scientific notation",
			`{"a":"1e3"}`,
			`{"a":1000}`,
			`{}`,
		},
		{"numeric strings compare numerically",
			`{"a":"1.0","b":"010"}`,
			`{"a":"1","b":"10"}`,
			`{}`,
		},
		{"surrounding whitespace",
			`{"a":" 1"}`,
			`{"a":1}`,
			`{}`,
		},
		{"non-numeric string vs int",
			`{"a":"abc"}`,
			`{"a":0}`,
			`{"a":"abc"}`,
		},
		{"float vs numeric string",
			`{"a":0.1}`,
			`{"a":"0.1"}`,
			`{}`,
		},
		{"negative zero",
			`{"a":-0.0}`,
			`{"a":0}`,
			`{}`,
		},
		{"strings are case sensitive",
			`{"a":"abc"}`,
			`{"a":"ABC"}`,
			`{"a":"abc"}`,
		},
		{"different numbers",
			`{"a":"1714"}`,
			`{"a":1715}`,
			`{"a":"1714"}`,
		},
		{"floats within epsilon",
			`{"a":1.0000000000000002,"b":"1.0000000000000002"}`,
			`{"a":1.0,"b":1.0}`,
			`{}`,
		},
		{"floats beyond 14 significant digits",
			`{"a":0.30000000000000004}`,
			`{"a":"0.3"}`,
			`{}`,
		},
		{"floats within 14 significant digits",
			`{"a":1.0000000000001}`,
			`{"a":1}`,
			`{"a":1.0000000000001}`,
		},
		{"floats compare as decimal strings against bools",
			`{"a":1.5,"b":0.0,"c":1.0,"d":true}`,
			`{"a":true,"b":false,"c":true,"d":1.0}`,
			`{"a":1.5,"b":0.0}`,
		},
		{"ints compare by truthiness against bools",
			`{"a":2,"b":0}`,
			`{"a":true,"b":false}`,
			`{}`,
		},
	}

	RunTestCases(t, cases, OptionLoose())
	RunTestCases(t, cases, OptionStrict(false))
}

func TestNaN(t *testing.T) {
	nan := math.NaN()
	nd := map[string]interface{}{"nan": nan, "list": []interface{}{nan}, "bool": nan}
	od := map[string]interface{}{"nan": nan, "list": []interface{}{math.NaN()}, "bool": true}

	cases := []struct {
		description string
		opts        []Option
	}{
		{"strict", nil},
		{"loose", []Option{OptionLoose()}},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			got, err := Compare(nd, od, c.opts...)
			if err != nil {
				t.Fatal(err)
			}
			keys := keyStrings(got)
			if diff := cmp.Diff([]string{"bool"}, keys); diff != "" {
				t.Errorf("expected only NaN vs true to differ (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEntryPoints(t *testing.T) {
	nd := map[string]interface{}{"a": 1714}
	od := map[string]interface{}{"a": "1714"}

	strict, err := StrictComparison(nd, od)
	if err != nil {
		t.Fatal(err)
	}
	if strict.Len() != 1 {
		t.Errorf("strict: expected 1 entry, got %d", strict.Len())
	}

	loose, err := LooseComparison(nd, od)
	if err != nil {
		t.Fatal(err)
	}
	if loose.Len() != 0 {
		t.Errorf("loose: expected 0 entries, got %d", loose.Len())
	}

	flagged, err := ArrayDiffMultidimensional(nd, od, false)
	if err != nil {
		t.Fatal(err)
	}
	if flagged.Len() != 0 {
		t.Errorf("flag loose: expected 0 entries, got %d", flagged.Len())
	}
	if flagged, _ = ArrayDiffMultidimensional(nd, od, true); flagged.Len() != 1 {
		t.Errorf("flag strict: expected 1 entry, got %d", flagged.Len())
	}
}

func TestInvalidInput(t *testing.T) {
	cases := []struct {
		description string
		new         interface{}
	}{
		{"string", "a"},
		{"int", 5},
		{"nil", nil},
		{"nil document", (*Document)(nil)},
		{"func", func() {}},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			_, err := Compare(c.new, map[string]interface{}{"a": 1})
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got: %v", err)
			}
		})
	}
}

func TestOldNotADocument(t *testing.T) {
	nd := mustDecodeJSON(t, `{"a":1,"b":{"c":2}}`).(*Document)

	for _, old := range []interface{}{nil, "x", 5, false} {
		t.Run(fmt.Sprintf("%T", old), func(t *testing.T) {
			st := &Stats{}
			got, err := Compare(nd, old, OptionSetStats(st))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(nd.Interface(), got.Interface()); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}
			if got == nd {
				t.Error("expected a copy of new, got new itself")
			}
			expect := Stats{Visited: 2, Added: 2, MaxDepth: 1}
			if diff := cmp.Diff(expect, *st); diff != "" {
				t.Errorf("stats mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResultSharesNoState(t *testing.T) {
	nd := mustDecodeJSON(t, `{"a":{"b":1},"c":[1,2],"d":{"e":{"f":1}}}`).(*Document)
	od := mustDecodeJSON(t, `{"c":"x","d":{"e":{"f":2}}}`).(*Document)
	before := nd.Interface()

	got, err := Compare(nd, od)
	if err != nil {
		t.Fatal(err)
	}

	// mutate every document in the result
	var mutate func(d *Document)
	mutate = func(d *Document) {
		d.Range(func(k Key, v interface{}) bool {
			if sub, ok := v.(*Document); ok {
				mutate(sub)
			}
			return true
		})
		d.Set(StringKey("mutated"), true)
	}
	mutate(got)

	if diff := cmp.Diff(before, nd.Interface()); diff != "" {
		t.Errorf("new document changed through the result (-want +got):\n%s", diff)
	}
}

func TestOpaqueValues(t *testing.T) {
	ch := make(chan int)
	f := func() {}
	type point struct{ X, Y int }

	cases := []struct {
		description string
		new, old    interface{}
		differs     bool
	}{
		{"same channel", ch, ch, false},
		{"different channel", ch, make(chan int), true},
		{"same func", f, f, false},
		{"equal structs", point{1, 2}, point{1, 2}, false},
		{"different structs", point{1, 2}, point{2, 1}, true},
		{"opaque vs scalar", ch, "chan", true},
		{"opaque vs null", ch, nil, true},
	}

	for _, c := range cases {
		for _, loose := range []bool{false, true} {
			t.Run(fmt.Sprintf("%s loose=%t", c.description, loose), func(t *testing.T) {
				got, err := Compare(
					map[string]interface{}{"a": c.new},
					map[string]interface{}{"a": c.old},
					OptionStrict(!loose),
				)
				if err != nil {
					t.Fatal(err)
				}
				if c.differs != got.Has(StringKey("a")) {
					t.Errorf("expected differs=%t, got result with %d keys", c.differs, got.Len())
				}
				if v, ok := got.Get(StringKey("a")); ok && KindOf(v) != KindOpaque {
					t.Errorf("expected an opaque value, got %s", KindOf(v))
				}
			})
		}
	}
}

func TestCyclicInput(t *testing.T) {
	t.Run("go map containing itself", func(t *testing.T) {
		m := map[string]interface{}{"a": 1}
		m["self"] = m

		got, err := Compare(m, m)
		if err != nil {
			t.Fatal(err)
		}
		if got.Len() != 0 {
			t.Errorf("expected no differences, got %d", got.Len())
		}

		got, err = Compare(m, map[string]interface{}{"a": 1, "self": map[string]interface{}{"a": 1}})
		if err != nil {
			t.Fatal(err)
		}
		// the repeated reference is opaque, so it replaces the old document
		v, ok := got.Get(StringKey("self"))
		if !ok {
			t.Fatal("expected self to be reported")
		}
		if KindOf(v) != KindOpaque {
			t.Errorf("expected the repeated reference to be opaque, got %s", KindOf(v))
		}
		if got.Has(StringKey("a")) {
			t.Error("expected a to match")
		}
	})

	t.Run("document containing itself", func(t *testing.T) {
		d := NewDocument()
		d.set(StringKey("a"), int64(1))
		d.set(StringKey("self"), d)

		got, err := Compare(d, d)
		if err != nil {
			t.Fatal(err)
		}
		if got.Len() != 0 {
			t.Errorf("expected no differences, got %d", got.Len())
		}

		st := &Stats{}
		other := mustDecodeJSON(t, `{"a":1,"self":{"a":1,"self":{}}}`)
		got, err = Compare(d, other, OptionSetStats(st))
		if err != nil {
			t.Fatal(err)
		}
		if !got.Has(StringKey("self")) {
			t.Error("expected self to be reported")
		}
		if st.Changed != 1 {
			t.Errorf("expected 1 change, got %d", st.Changed)
		}
	})
}

func TestStats(t *testing.T) {
	nd := mustDecodeJSON(t, `{"a":1,"b":{"c":2,"d":3},"e":[],"f":{"g":1},"h":5}`)
	od := mustDecodeJSON(t, `{"a":1,"b":{"c":2,"d":4},"e":[1],"f":"x"}`)

	st := &Stats{}
	got, err := Compare(nd, od, OptionSetStats(st))
	if err != nil {
		t.Fatal(err)
	}

	expect := mustDecodeJSON(t, `{"b":{"d":3},"e":[],"f":{"g":1},"h":5}`).(*Document)
	if diff := cmp.Diff(expect.Interface(), got.Interface()); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}

	expectStats := Stats{Visited: 7, MaxDepth: 2, Added: 1, Changed: 2, Replaced: 1}
	if diff := cmp.Diff(expectStats, *st); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}

	// stats are overwritten on every call
	if _, err := Compare(od, od, OptionSetStats(st)); err != nil {
		t.Fatal(err)
	}
	if st.Differences() != 0 {
		t.Errorf("expected stats to be reset, got %d differences", st.Differences())
	}
}

func TestEpsilonOption(t *testing.T) {
	nd := map[string]interface{}{"a": 1.0}
	od := map[string]interface{}{"a": 1.001}

	got, err := Compare(nd, od)
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != 1 {
		t.Errorf("default epsilon: expected 1 difference, got %d", got.Len())
	}

	got, err = Compare(nd, od, OptionEpsilon(0.01))
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != 0 {
		t.Errorf("wide epsilon: expected no differences, got %d", got.Len())
	}

	cfg := New(OptionEpsilon(0.5), OptionLoose()).Config()
	if cfg.Epsilon != 0.5 || !cfg.Loose {
		t.Errorf("unexpected config: %#v", cfg)
	}
	if New().Config().Epsilon != Epsilon {
		t.Error("expected default epsilon")
	}
}

func TestGoValues(t *testing.T) {
	type id string

	nd := map[string]interface{}{
		"ints":   []int{1, 2, 3},
		"uint":   uint8(7),
		"nested": map[int]string{0: "a", 1: "b"},
		"bytes":  []byte("raw"),
		"named":  id("x"),
	}
	od := map[string]interface{}{
		"ints":   []interface{}{1, 2, 4},
		"uint":   int64(7),
		"nested": []string{"a", "c"},
		"bytes":  "raw",
		"named":  "x",
	}

	got, err := Compare(nd, od)
	if err != nil {
		t.Fatal(err)
	}

	expect := map[string]interface{}{
		"ints":   map[string]interface{}{"2": int64(3)},
		"nested": map[string]interface{}{"1": "b"},
	}
	if diff := cmp.Diff(expect, got.Interface()); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestConcurrentComparisons(t *testing.T) {
	d := New(OptionLoose())
	nd := mustDecodeJSON(t, `{"a":1714,"b":{"c":[1,2,3]},"d":"x"}`)
	od := mustDecodeJSON(t, `{"a":"1714","b":{"c":[1,2,4]}}`)
	expect := mustDecodeJSON(t, `{"b":{"c":{"2":3}},"d":"x"}`).(*Document).Interface()

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := d.Compare(nd, od)
			if err != nil {
				errs <- err.Error()
				return
			}
			if diff := cmp.Diff(expect, got.Interface()); diff != "" {
				errs <- diff
			}
		}()
	}
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}
}

func TestDeterministicOutput(t *testing.T) {
	nd := map[string]interface{}{}
	od := map[string]interface{}{}
	for i := 0; i < 50; i++ {
		nd[fmt.Sprintf("key_%02d", i)] = i
		od[fmt.Sprintf("key_%02d", i)] = i + i%2
	}

	var first []byte
	for i := 0; i < 20; i++ {
		got, err := Compare(nd, od)
		if err != nil {
			t.Fatal(err)
		}
		data, err := got.MarshalJSON()
		if err != nil {
			t.Fatal(err)
		}
		if first == nil {
			first = data
			continue
		}
		if string(first) != string(data) {
			t.Fatalf("output changed between runs:\n%s\n%s", first, data)
		}
	}
}
