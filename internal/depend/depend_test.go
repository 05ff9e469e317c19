package depend

import (
	"math"
	"testing"
)

func TestScalarLazyRecompute(t *testing.T) {
	dt := NewScalarValue("dt", 2.0)
	calls := 0
	half := NewScalarFunc("half", func() float64 {
		calls++
		return dt.Get() * 0.5
	}, dt)

	if got := half.Get(); got != 1.0 {
		t.Fatalf("half = %v, want 1.0", got)
	}
	half.Get()
	half.Get()
	if calls != 1 {
		t.Errorf("rule invoked %d times for unchanged input, want 1", calls)
	}

	dt.Set(4.0)
	if got := half.Get(); got != 2.0 {
		t.Fatalf("half after Set = %v, want 2.0", got)
	}
	if calls != 2 {
		t.Errorf("rule invoked %d times, want 2", calls)
	}
}

func TestTransitiveInvalidation(t *testing.T) {
	a := NewScalarValue("a", 1.0)
	b := NewScalarFunc("b", func() float64 { return a.Get() + 1 }, a)
	c := NewScalarFunc("c", func() float64 { return b.Get() * 10 }, b)

	if got := c.Get(); got != 20.0 {
		t.Fatalf("c = %v, want 20", got)
	}
	a.Set(5.0)
	if got := c.Get(); got != 60.0 {
		t.Fatalf("c after a.Set = %v, want 60", got)
	}
}

func TestPipeForwardsChanges(t *testing.T) {
	src := NewScalarValue("src", 300.0)
	dst := NewScalarValue("dst", -1.0)

	Pipe(src, dst)

	if got := dst.Get(); got != 300.0 {
		t.Fatalf("piped dst = %v, want 300", got)
	}
	src.Set(600.0)
	if got := dst.Get(); got != 600.0 {
		t.Fatalf("piped dst after src.Set = %v, want 600", got)
	}
}

func TestArrayFuncDependsOnScalar(t *testing.T) {
	n := NewScalarValue("n", 3.0)
	arr := NewArrayFunc("arr", func() []float64 {
		v := make([]float64, int(n.Get()))
		for i := range v {
			v[i] = float64(i)
		}
		return v
	}, n)

	if got := arr.Get(); len(got) != 3 {
		t.Fatalf("len(arr) = %d, want 3", len(got))
	}
	n.Set(5.0)
	if got := arr.Get(); len(got) != 5 {
		t.Fatalf("len(arr) after n.Set = %d, want 5", len(got))
	}
}

func TestUninitializedReadPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic reading uninitialized node")
		}
	}()
	NewScalar("empty").Get()
}

func TestStoredWriteShadowsRule(t *testing.T) {
	a := NewScalarValue("a", 1.0)
	b := NewScalarFunc("b", func() float64 { return a.Get() * 2 }, a)

	if b.Get() != 2.0 {
		t.Fatal("initial rule value wrong")
	}
	b.Set(math.Pi)
	if b.Get() != math.Pi {
		t.Fatal("stored write did not shadow rule")
	}
	a.Set(10.0)
	if b.Get() != 20.0 {
		t.Fatal("upstream change did not re-enable rule")
	}
}
