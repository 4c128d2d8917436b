package linalg

import (
	"math"
	"testing"
)

func TestDenseDotAddTo(t *testing.T) {
	d := Dense{1, 2, 3}
	w := []float64{0.5, -1, 2}

	got := d.Dot(w)
	want := 1*0.5 + 2*-1 + 3*2.0
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Dot = %v, want %v", got, want)
	}

	dst := make([]float64, 3)
	d.AddTo(dst, 2)
	for i, want := range []float64{2, 4, 6} {
		if dst[i] != want {
			t.Errorf("AddTo dst[%d] = %v, want %v", i, dst[i], want)
		}
	}
}

func TestSparseMatchesDense(t *testing.T) {
	sp, err := NewSparse(5, []int{0, 2, 4}, []float64{1, -2, 3})
	if err != nil {
		t.Fatal(err)
	}
	d := Dense{1, 0, -2, 0, 3}
	w := []float64{0.3, 9, -1.5, 9, 0.25}

	if math.Abs(sp.Dot(w)-d.Dot(w)) > 1e-12 {
		t.Errorf("sparse Dot %v != dense Dot %v", sp.Dot(w), d.Dot(w))
	}

	a := make([]float64, 5)
	b := make([]float64, 5)
	sp.AddTo(a, -0.5)
	d.AddTo(b, -0.5)
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("AddTo mismatch at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestNewSparseRejectsBadIndices(t *testing.T) {
	if _, err := NewSparse(3, []int{1, 1}, []float64{1, 2}); err == nil {
		t.Error("expected error for duplicate indices")
	}
	if _, err := NewSparse(3, []int{2, 1}, []float64{1, 2}); err == nil {
		t.Error("expected error for decreasing indices")
	}
	if _, err := NewSparse(3, []int{0, 3}, []float64{1, 2}); err == nil {
		t.Error("expected error for out-of-range index")
	}
	if _, err := NewSparse(3, []int{0}, []float64{1, 2}); err == nil {
		t.Error("expected error for length mismatch")
	}
}

func TestDim(t *testing.T) {
	sp, _ := NewSparse(3, []int{1}, []float64{2})
	n, err := Dim([]Sample{Dense{1, 2, 3}, sp})
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Dim = %d, want 3", n)
	}

	if _, err := Dim([]Sample{Dense{1, 2}, Dense{1, 2, 3}}); err == nil {
		t.Error("expected dimension mismatch error")
	}
	if _, err := Dim(nil); err == nil {
		t.Error("expected error for empty set")
	}
}
