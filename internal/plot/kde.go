package plot

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// scottBandwidth is Scott's rule for one dimension: std * n^(-1/5).
func scottBandwidth(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.StdDev(xs, nil) * math.Pow(float64(len(xs)), -0.2)
}

// gaussianKDE evaluates the Gaussian kernel density estimate of xs at every
// point of grid.
func gaussianKDE(xs []float64, bw float64, grid []float64) []float64 {
	out := make([]float64, len(grid))
	norm := 1 / (float64(len(xs)) * bw * math.Sqrt(2*math.Pi))
	for i, g := range grid {
		var sum float64
		for _, x := range xs {
			z := (g - x) / bw
			sum += math.Exp(-0.5 * z * z)
		}
		out[i] = sum * norm
	}
	return out
}

func linspace(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
