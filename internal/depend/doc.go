// Package depend provides a small dependency-tracked lazy cache for
// derived simulation quantities.
//
// A node wraps either a stored value or a zero-argument recomputation
// rule with an explicit list of upstream nodes. Reads return the cached
// value unless an upstream changed since the cache was filled; writes
// invalidate everything downstream. Staleness is tracked with version
// counters compared on read, so recomputation is pull-based and a node
// is never evaluated before it is first used.
//
//	dt := depend.NewScalarValue("dt", 0.5)
//	tdt := depend.NewScalarFunc("tdt", func() float64 { return dt.Get() / 2 }, dt)
//	dt.Set(1.0) // tdt recomputes on next Get
//
// [Pipe] keeps two nodes owned by different objects identical without
// duplicating ownership: the target becomes a lazy one-way alias of the
// source. This is how the integrator's derived step sizes are shared
// with the thermostat, barostat and normal-mode transform.
//
// Recomputation rules must be idempotent and side-effect free beyond
// cache population: a Get may trigger evaluation at any point.
package depend
