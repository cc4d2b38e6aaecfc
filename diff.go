package mddiff

import (
	"github.com/pkg/errors"
)

// Compare returns the entries of newDoc that are absent from, or different
// in, oldDoc. Comparison recurses into nested documents, emitting only the
// differing leaves along with the path of containers leading to them. Keys
// found only in oldDoc never appear in the result.
//
// newDoc must be a document: a *Document, a map keyed by strings or integers,
// or a slice. Anything else returns an error wrapping ErrInvalidInput. When
// oldDoc isn't a document there's nothing to compare against & a copy of
// newDoc is returned.
//
// Comparison is strict unless OptionLoose or OptionStrict(false) is passed
func Compare(newDoc, oldDoc interface{}, opts ...Option) (*Document, error) {
	return New(opts...).Compare(newDoc, oldDoc)
}

// StrictComparison compares requiring scalars to match in kind & value
func StrictComparison(newDoc, oldDoc interface{}) (*Document, error) {
	return Compare(newDoc, oldDoc, OptionStrict(true))
}

// LooseComparison compares scalars after numeric-aware coercion
func LooseComparison(newDoc, oldDoc interface{}) (*Document, error) {
	return Compare(newDoc, oldDoc, OptionLoose())
}

// ArrayDiffMultidimensional is Compare with the mode given as a flag, for
// parity with flat array-difference helpers
func ArrayDiffMultidimensional(newDoc, oldDoc interface{}, strict bool) (*Document, error) {
	return Compare(newDoc, oldDoc, OptionStrict(strict))
}

// Config are any possible configuration parameters for comparing documents
type Config struct {
	// If true scalars are compared with numeric-aware coercion instead of
	// requiring matching kinds
	Loose bool
	// Tolerance for strict float comparison. defaults to Epsilon
	Epsilon float64
	// Provide a non-nil stats pointer & Compare will populate it with data
	// from the comparison
	Stats *Stats
}

// Option is a function that adjusts a config, zero or more Options can be
// passed to New or Compare
type Option func(cfg *Config)

// OptionLoose enables loose comparison
func OptionLoose() Option {
	return func(cfg *Config) {
		cfg.Loose = true
	}
}

// OptionStrict picks strict (true) or loose (false) comparison
func OptionStrict(strict bool) Option {
	return func(cfg *Config) {
		cfg.Loose = !strict
	}
}

// OptionEpsilon overrides the strict float comparison tolerance
func OptionEpsilon(eps float64) Option {
	return func(cfg *Config) {
		cfg.Epsilon = eps
	}
}

// OptionSetStats will set the passed-in stats pointer when Compare is called
func OptionSetStats(st *Stats) Option {
	return func(cfg *Config) {
		cfg.Stats = st
	}
}

// Differ is a configured comparison. A Differ holds no state between calls
// and is safe for concurrent use, unless it was configured with a Stats
// pointer, which every call overwrites
type Differ struct {
	cfg Config
}

// New creates a Differ
func New(opts ...Option) *Differ {
	cfg := Config{Epsilon: Epsilon}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Differ{cfg: cfg}
}

// Config returns a copy of the differ's configuration
func (d *Differ) Config() Config {
	return d.cfg
}

// Compare returns the entries of newDoc absent from, or different in, oldDoc
// using the differ's configuration. See the package level Compare for details
func (d *Differ) Compare(newDoc, oldDoc interface{}) (*Document, error) {
	nd, ok := Normalize(newDoc).(*Document)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidInput, "got %T", newDoc)
	}

	c := &comparison{
		cfg:  &d.cfg,
		path: docPath{},
	}

	var result *Document
	if od, ok := Normalize(oldDoc).(*Document); ok {
		c.path.enter(nd)
		result = c.level(nd, od, 1)
	} else {
		result = nd.Clone()
		c.stats = Stats{Visited: nd.Len(), Added: nd.Len(), MaxDepth: 1}
	}

	if d.cfg.Stats != nil {
		*d.cfg.Stats = c.stats
	}
	return result, nil
}

// comparison carries per-call state through the recursion
type comparison struct {
	cfg   *Config
	stats Stats
	path  docPath
}

// level compares every key of nd against od. nd & od are both documents
func (c *comparison) level(nd, od *Document, depth int) *Document {
	if depth > c.stats.MaxDepth {
		c.stats.MaxDepth = depth
	}

	result := NewDocument()
	result.list = nd.list
	for _, k := range nd.keys {
		c.stats.Visited++
		v1 := nd.vals[k]

		// existence, not truthiness: a key holding nil is present
		v2, ok := od.Get(k)
		if !ok {
			c.stats.Added++
			result.set(k, emitted(v1))
			continue
		}

		if v, differs := c.entry(v1, v2, depth); differs {
			result.set(k, v)
		}
	}
	return result
}

// entry compares two values found under the same key, returning what to emit
// & whether they differ
func (c *comparison) entry(v1, v2 interface{}, depth int) (interface{}, bool) {
	d2, oldIsDoc := v2.(*Document)

	if d1, ok := v1.(*Document); ok {
		switch {
		case d1.Len() == 0:
			// empty containers only match empty containers
			if oldIsDoc && d2.Len() == 0 {
				return nil, false
			}
			c.count(oldIsDoc)
			return d1.Clone(), true
		case oldIsDoc:
			if !c.path.enter(d1) {
				// d1 contains itself, don't follow the cycle
				if d1 == d2 {
					return nil, false
				}
				c.stats.Changed++
				return d1.Clone(), true
			}
			defer c.path.leave(d1)

			sub := c.level(d1, d2, depth+1)
			if sub.Len() == 0 {
				return nil, false
			}
			return sub, true
		default:
			c.stats.Replaced++
			return d1.Clone(), true
		}
	}

	if oldIsDoc {
		c.stats.Replaced++
		return v1, true
	}

	if c.equal(v1, v2) {
		return nil, false
	}
	c.stats.Changed++
	return v1, true
}

func (c *comparison) equal(a, b interface{}) bool {
	if c.cfg.Loose {
		return looseEqual(a, b)
	}
	return strictEqual(a, b, c.cfg.Epsilon)
}

// count records an emitted empty container, a change when the old side is
// also a container and a replacement otherwise
func (c *comparison) count(oldIsDoc bool) {
	if oldIsDoc {
		c.stats.Changed++
		return
	}
	c.stats.Replaced++
}

// emitted copies nested documents so results never share mutable state with
// inputs
func emitted(v interface{}) interface{} {
	if d, ok := v.(*Document); ok {
		return d.Clone()
	}
	return v
}
