package selection

import (
	"math/rand/v2"
	"sort"
	"testing"
)

func TestSelectMatchesSort(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.IntN(40)
		data := make([]float64, n)
		for i := range data {
			// Coarse values so duplicates are common
			data[i] = float64(rng.IntN(10))
		}

		sorted := append([]float64(nil), data...)
		sort.Float64s(sorted)

		k := rng.IntN(n)
		work := append([]float64(nil), data...)
		got := Select(work, k)
		if got != sorted[k] {
			t.Fatalf("Select(%v, %d) = %v, expected %v", data, k, got, sorted[k])
		}

		for i := 0; i < k; i++ {
			if work[i] > got {
				t.Fatalf("Element %d (%v) before k exceeds selected %v", i, work[i], got)
			}
		}
		for i := k + 1; i < n; i++ {
			if work[i] < got {
				t.Fatalf("Element %d (%v) after k below selected %v", i, work[i], got)
			}
		}
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		data     []float64
		expected float64
	}{
		{"empty", nil, 0},
		{"single", []float64{4}, 4},
		{"odd", []float64{5, 1, 3}, 3},
		{"even uses two distinct centers", []float64{1, 2, 3, 10}, 2.5},
		{"even unsorted", []float64{10, -1, 7, 3, 0, 5}, 4},
		{"even duplicates", []float64{2, 2, 2, 9}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Median(append([]float64(nil), tt.data...))
			if got != tt.expected {
				t.Errorf("Median(%v) = %v, expected %v", tt.data, got, tt.expected)
			}
		})
	}
}

func TestMedianFloat32(t *testing.T) {
	got := Median([]float32{0.5, -0.5, 0.25, 0.75})
	if got != 0.375 {
		t.Errorf("Expected 0.375, got %v", got)
	}
}
