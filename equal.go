package mddiff

import (
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Epsilon is the default tolerance for strict float comparison: the gap
// between 1.0 and the next representable float64
const Epsilon = 2.220446049250313e-16

// strictEqual requires scalars to share a kind. floats compare within eps,
// NaN equals NaN. int & float are different kinds and never equal
func strictEqual(a, b interface{}, eps float64) bool {
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		return false
	}

	switch ka {
	case KindNull:
		return true
	case KindString, KindInt, KindBool:
		return a == b
	case KindFloat:
		return floatsEqual(a.(float64), b.(float64), eps)
	case KindOpaque:
		return sameIdentity(a.(Opaque).V, b.(Opaque).V)
	default:
		return false
	}
}

func floatsEqual(a, b, eps float64) bool {
	if a == b {
		return true
	}
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return math.Abs(a-b) <= eps
}

// looseEqual compares two scalars after numeric-aware coercion. Rules apply
// in order, the first one that matches the pair of kinds decides:
//
//   opaque & any    identity, never coerced
//   float & any     canonical decimal strings of both sides, true is "1",
//                   false & null are ""
//   null & any      equal to null, false & 0. "" is not equal to null
//   bool & any      truthiness of both sides
//   int & int       value
//   string & string numerically when both are numeric strings, bytewise otherwise
//   int & string    numerically when the string is numeric, otherwise the
//                   decimal rendering of the int against the string
func looseEqual(a, b interface{}) bool {
	ka, kb := KindOf(a), KindOf(b)

	switch {
	case ka == KindOpaque || kb == KindOpaque:
		return ka == kb && sameIdentity(a.(Opaque).V, b.(Opaque).V)
	case ka == KindFloat || kb == KindFloat:
		return canonicalString(a) == canonicalString(b)
	case ka == KindNull:
		return looseNull(b)
	case kb == KindNull:
		return looseNull(a)
	case ka == KindBool || kb == KindBool:
		return truthy(a) == truthy(b)
	case ka == KindInt && kb == KindInt:
		return a == b
	case ka == KindString && kb == KindString:
		return looseStrings(a.(string), b.(string))
	case ka == KindInt && kb == KindString:
		return looseIntString(a.(int64), b.(string))
	case ka == KindString && kb == KindInt:
		return looseIntString(b.(int64), a.(string))
	default:
		return false
	}
}

// looseNull reports whether v loosely equals null. strings never do
func looseNull(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case int64:
		return x == 0
	default:
		return false
	}
}

var numericPattern = regexp.MustCompile(`^\s*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?\s*$`)

// numericString parses strings that read as a decimal number, allowing
// surrounding whitespace. "inf", "nan" & hex literals are not numeric
func numericString(s string) (float64, bool) {
	if !numericPattern.MatchString(s) {
		return 0, false
	}
	// syntax is already checked, a range error still yields ±Inf
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, true
}

func integerString(s string) (int64, bool) {
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return i, err == nil
}

func looseStrings(x, y string) bool {
	fx, xok := numericString(x)
	fy, yok := numericString(y)
	if !xok || !yok {
		return x == y
	}
	if ix, ok := integerString(x); ok {
		if iy, ok := integerString(y); ok {
			return ix == iy
		}
	}
	return fx == fy
}

func looseIntString(i int64, s string) bool {
	f, ok := numericString(s)
	if !ok {
		return strconv.FormatInt(i, 10) == s
	}
	if is, ok := integerString(s); ok {
		return i == is
	}
	return float64(i) == f
}

// canonicalString renders a scalar the way loose float comparison sees it
func canonicalString(v interface{}) string {
	switch x := v.(type) {
	case float64:
		return formatFloat(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case string:
		if f, ok := numericString(x); ok {
			return formatFloat(f)
		}
		return x
	case bool:
		if x {
			return "1"
		}
		return ""
	default:
		return ""
	}
}

// formatFloat renders f with 14 significant digits as a plain decimal, so
// representational noise past that precision compares equal
func formatFloat(f float64) string {
	if f == 0 {
		// fold negative zero
		return "0"
	}
	// the rounded 'g' form is always parseable, NaN & ±Inf included
	r, _ := strconv.ParseFloat(strconv.FormatFloat(f, 'g', 14, 64), 64)
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// truthy reports the boolean reading of a value. false, 0, 0.0, "", "0",
// null & empty documents are falsy
func truthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int64:
		return x != 0
	case float64:
		return x != 0
	case string:
		return x != "" && x != "0"
	case *Document:
		return x.Len() > 0
	default:
		return true
	}
}

// sameIdentity reports whether a and b are the same value. reference types
// compare by address, comparable values with ==. func values compare by code
// pointer, so two closures created by the same literal count as identical
func sameIdentity(a, b interface{}) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() {
		return va.IsValid() == vb.IsValid()
	}
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Ptr, reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Map:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}

	if va.Comparable() && vb.Comparable() {
		return va.Equal(vb)
	}
	return false
}
