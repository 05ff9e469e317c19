package depend

import "fmt"

// Node is anything that can participate in a dependency graph as an
// upstream input. Stamp brings the node up to date and returns its
// version counter, which changes whenever the value changes.
type Node interface {
	Stamp() uint64
	Name() string
}

// Scalar is a lazily recomputed float64 node. It holds either a stored
// value, a zero-argument rule plus the upstream nodes the rule reads, or
// both (a stored write shadows the rule until an upstream changes).
type Scalar struct {
	name     string
	value    float64
	has      bool
	fn       func() float64
	deps     []Node
	seen     []uint64
	version  uint64
	fresh    bool
	volatile bool
}

func NewScalar(name string) *Scalar {
	return &Scalar{name: name}
}

func NewScalarValue(name string, v float64) *Scalar {
	return &Scalar{name: name, value: v, has: true, fresh: true}
}

func NewScalarFunc(name string, fn func() float64, deps ...Node) *Scalar {
	return &Scalar{name: name, fn: fn, deps: deps, seen: make([]uint64, len(deps))}
}

// NewScalarVolatile returns a node that re-invokes its rule on every
// read, for values derived from state living outside the graph.
func NewScalarVolatile(name string, fn func() float64) *Scalar {
	return &Scalar{name: name, fn: fn, volatile: true}
}

func (s *Scalar) Name() string { return s.name }

// Set stores a value directly, invalidating every downstream node.
func (s *Scalar) Set(v float64) {
	s.value = v
	s.has = true
	s.fresh = true
	s.record()
	s.version++
}

func (s *Scalar) stale() bool {
	if s.fn == nil {
		return false
	}
	if s.volatile {
		return true
	}
	if !s.fresh {
		return true
	}
	for i, d := range s.deps {
		if d.Stamp() != s.seen[i] {
			return true
		}
	}
	return false
}

func (s *Scalar) record() {
	if len(s.seen) != len(s.deps) {
		s.seen = make([]uint64, len(s.deps))
	}
	for i, d := range s.deps {
		s.seen[i] = d.Stamp()
	}
}

// Get returns the cached value, re-invoking the rule first if any
// upstream has changed since the cache was filled. Reading a node with
// neither a stored value nor a rule is a programming error.
func (s *Scalar) Get() float64 {
	if s.stale() {
		s.value = s.fn()
		s.has = true
		s.fresh = true
		s.record()
		s.version++
	} else if !s.has {
		panic(fmt.Sprintf("depend: read of uninitialized node %q", s.name))
	}
	return s.value
}

func (s *Scalar) Stamp() uint64 {
	s.Get()
	return s.version
}

// Array is the []float64 twin of Scalar. Get returns the underlying
// slice; by convention derived arrays are read-only to callers.
type Array struct {
	name    string
	value   []float64
	has     bool
	fn      func() []float64
	deps    []Node
	seen    []uint64
	version uint64
	fresh   bool
}

func NewArray(name string) *Array {
	return &Array{name: name}
}

func NewArrayValue(name string, v []float64) *Array {
	return &Array{name: name, value: v, has: true, fresh: true}
}

func NewArrayFunc(name string, fn func() []float64, deps ...Node) *Array {
	return &Array{name: name, fn: fn, deps: deps, seen: make([]uint64, len(deps))}
}

func (a *Array) Name() string { return a.name }

func (a *Array) Set(v []float64) {
	a.value = v
	a.has = true
	a.fresh = true
	a.record()
	a.version++
}

func (a *Array) stale() bool {
	if a.fn == nil {
		return false
	}
	if !a.fresh {
		return true
	}
	for i, d := range a.deps {
		if d.Stamp() != a.seen[i] {
			return true
		}
	}
	return false
}

func (a *Array) record() {
	if len(a.seen) != len(a.deps) {
		a.seen = make([]uint64, len(a.deps))
	}
	for i, d := range a.deps {
		a.seen[i] = d.Stamp()
	}
}

func (a *Array) Get() []float64 {
	if a.stale() {
		a.value = a.fn()
		a.has = true
		a.fresh = true
		a.record()
		a.version++
	} else if !a.has {
		panic(fmt.Sprintf("depend: read of uninitialized node %q", a.name))
	}
	return a.value
}

func (a *Array) Stamp() uint64 {
	a.Get()
	return a.version
}

// Pipe links src into dst one-directionally: dst re-reads src lazily and
// any future change to src invalidates dst. The target's own value or
// rule is discarded. Installation does not force evaluation.
func Pipe(src, dst *Scalar) {
	dst.fn = src.Get
	dst.deps = []Node{src}
	dst.seen = make([]uint64, 1)
	dst.fresh = false
}

// PipeArray is Pipe for array nodes.
func PipeArray(src, dst *Array) {
	dst.fn = src.Get
	dst.deps = []Node{src}
	dst.seen = make([]uint64, 1)
	dst.fresh = false
}
