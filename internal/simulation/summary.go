package simulation

import (
	"context"
	"math"
)

// Summary describes a sample of deviations.
type Summary struct {
	Mean   float64
	StdDev float64 // sample standard deviation
	Min    float64
	Max    float64
	N      int
}

// Summarize computes Summary over xs. An empty slice yields the zero Summary.
func Summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	s := Summary{N: len(xs), Min: xs[0], Max: xs[0]}
	sum := 0.0
	for _, x := range xs {
		sum += x
		s.Min = math.Min(s.Min, x)
		s.Max = math.Max(s.Max, x)
	}
	s.Mean = sum / float64(s.N)
	if s.N > 1 {
		ss := 0.0
		for _, x := range xs {
			d := x - s.Mean
			ss += d * d
		}
		s.StdDev = math.Sqrt(ss / float64(s.N-1))
	}
	return s
}

// WelchT returns Welch's t statistic for the difference a.Mean - b.Mean.
// Negative values mean a deviates less than b.
func WelchT(a, b Summary) float64 {
	if a.N < 2 || b.N < 2 {
		return 0
	}
	se := math.Sqrt(a.StdDev*a.StdDev/float64(a.N) + b.StdDev*b.StdDev/float64(b.N))
	if se == 0 {
		return 0
	}
	return (a.Mean - b.Mean) / se
}

// Report is the outcome of one heuristic configuration.
type Report struct {
	Params  Params
	Average Summary
	Max     Summary
	Result  Result
}

// Configurations lists every combination of the two selection heuristics,
// starting with the uniform baseline.
func Configurations(comparisons, simulations int) []Params {
	out := make([]Params, 0, 4)
	for _, least := range []bool{false, true} {
		for _, closer := range []bool{false, true} {
			out = append(out, Params{
				FavourLeastPicked:   least,
				FavourCloserRatings: closer,
				ComparisonsPerSim:   comparisons,
				Simulations:         simulations,
			})
		}
	}
	return out
}

// Compare evaluates all heuristic configurations over the same truth and
// seed, so each configuration sees the same sequence of random sources.
func (e *Evaluator) Compare(ctx context.Context, truth []string, comparisons, simulations int) ([]Report, error) {
	configs := Configurations(comparisons, simulations)
	reports := make([]Report, 0, len(configs))
	for _, p := range configs {
		res, err := e.Evaluate(ctx, truth, p)
		if err != nil {
			return nil, err
		}
		reports = append(reports, Report{
			Params:  p,
			Average: Summarize(res.AverageDeviations),
			Max:     Summarize(res.MaxDeviations),
			Result:  res,
		})
	}
	return reports, nil
}
