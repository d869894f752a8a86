package transformer

import (
	"errors"
	"math"
	"testing"
)

func TestPositionalEncodingFirstRow(t *testing.T) {
	pe, err := PositionalEncoding(3, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 1, 0, 1}
	for j, w := range want {
		if pe.At(0, j) != w {
			t.Fatalf("PE[0]=%v want %v", pe.RawRowView(0), want)
		}
	}
	if math.Abs(pe.At(1, 0)-math.Sin(1)) > 1e-12 || math.Abs(pe.At(1, 1)-math.Cos(1)) > 1e-12 {
		t.Fatalf("PE[1]=%v", pe.RawRowView(1))
	}
	if math.Abs(pe.At(1, 2)-math.Sin(0.01)) > 1e-12 {
		t.Fatalf("PE[1][2]=%v want sin(0.01)", pe.At(1, 2))
	}
}

func TestAddPositional(t *testing.T) {
	out, err := AddPositional([][]float64{{1, 1}, {0, 0}})
	if err != nil {
		t.Fatal(err)
	}
	if out[0][0] != 1 || out[0][1] != 2 {
		t.Fatalf("row 0=%v want [1 2]", out[0])
	}
	if _, err := AddPositional([][]float64{{1, 1}, {0}}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected argument error, got %v", err)
	}
}

func TestSelfAttentionRowsSumToOne(t *testing.T) {
	x := [][]float64{{1, 0, 0}, {0, 1, 0}, {1, 1, 0}, {0.2, -0.4, 1}}
	for _, causal := range []bool{false, true} {
		w, c, err := SelfAttention(x, causal)
		if err != nil {
			t.Fatal(err)
		}
		if len(c) != len(x) || len(c[0]) != 3 {
			t.Fatalf("context shape %dx%d", len(c), len(c[0]))
		}
		for i, row := range w {
			s := 0.0
			for j, v := range row {
				s += v
				if causal && j > i && v != 0 {
					t.Fatalf("causal leak at [%d][%d]=%v", i, j, v)
				}
			}
			if math.Abs(s-1) > 1e-12 {
				t.Fatalf("row %d sums to %v", i, s)
			}
		}
	}
}

func TestSelfAttentionSinglePosition(t *testing.T) {
	w, c, err := SelfAttention([][]float64{{0.5, -2}}, true)
	if err != nil {
		t.Fatal(err)
	}
	if w[0][0] != 1 || c[0][0] != 0.5 || c[0][1] != -2 {
		t.Fatalf("single position: w=%v c=%v", w, c)
	}
}
