package statistics

import (
	"math"
	"math/rand"
	"sort"
)

// ConfidenceInterval is a percentile bootstrap interval over a sample mean.
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Mean  float64 `json:"mean"`
	Level float64 `json:"level"`
}

// bootstrapIterations is the number of resamples per interval.
const bootstrapIterations = 10000

// BootstrapCI computes a percentile bootstrap confidence interval over the
// given values, e.g. per-problem pass signal (1.0 pass, 0.0 fail).
// level is the confidence level in (0, 1). With fewer than two values the
// interval degenerates to the mean.
func BootstrapCI(values []float64, level float64) ConfidenceInterval {
	return BootstrapCIWithSeed(values, level, -1)
}

// BootstrapCIWithSeed is BootstrapCI with a fixed seed for reproducible
// intervals in tests. A negative seed uses a non-deterministic source.
func BootstrapCIWithSeed(values []float64, level float64, seed int64) ConfidenceInterval {
	n := len(values)
	m := Mean(values)
	if n < 2 {
		return ConfidenceInterval{Lower: m, Upper: m, Mean: m, Level: level}
	}

	src := rand.Int63()
	if seed >= 0 {
		src = seed
	}
	rng := rand.New(rand.NewSource(src))

	resampled := make([]float64, bootstrapIterations)
	sample := make([]float64, n)
	for i := range resampled {
		for j := range sample {
			sample[j] = values[rng.Intn(n)]
		}
		resampled[i] = Mean(sample)
	}
	sort.Float64s(resampled)

	alpha := 1.0 - level
	lo := int(math.Floor(alpha / 2.0 * bootstrapIterations))
	hi := int(math.Floor((1.0 - alpha/2.0) * bootstrapIterations))
	if hi >= bootstrapIterations {
		hi = bootstrapIterations - 1
	}

	return ConfidenceInterval{
		Lower: resampled[lo],
		Upper: resampled[hi],
		Mean:  m,
		Level: level,
	}
}

// NormalizedGain computes Hake's normalized gain between two scores:
//
//	g = (post - pre) / (1 - pre)
//
// which controls for ceiling effects when comparing benchmark runs before
// and after an optimization pass.
func NormalizedGain(pre, post float64) float64 {
	if pre >= 1.0 {
		return 0.0
	}
	if post >= 1.0 {
		return 1.0
	}
	if math.Abs(post-pre) < 1e-12 {
		return 0.0
	}
	return (post - pre) / (1.0 - pre)
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
