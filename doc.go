// Package mddiff computes one-directional structural differences between
// nested documents. Given a "new" and an "old" document, Compare returns the
// entries of new that are absent from, or different in, old, recursing into
// nested containers and preserving their shape. Keys that exist only in old
// are never reported.
//
// It's intended for comparing configuration trees, API payloads & other
// record-shaped data ranging from a handful of keys to a few MB of encoded JSON
//
// Instead of operating on an encoding directly, mddiff operates on document
// trees. Any go value produced by unmarshaling JSON, YAML, CBOR and friends is
// accepted & normalized into a closed set of kinds, one complex type:
//   *Document (maps & lists, keyed by string or index)
// and five scalar types:
//   string, int64, float64, bool, nil
// anything else is carried along as an Opaque value & only ever compared by
// identity.
//
// Two comparison modes exist. Strict mode requires scalars to match in both
// kind and value, with floats compared within a small epsilon. Loose mode
// applies numeric-aware coercion first, so 1714 and "1714" compare equal.
//
// Empty containers are values: an empty container in new only matches an
// empty container in old.
//
// mddiff also includes codecs that keep key order (JSON, YAML, MessagePack),
// a pretty printer for results and a small command line tool, see cmd/mddiff
package mddiff
