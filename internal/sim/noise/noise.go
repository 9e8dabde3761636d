// Package noise wraps a seeded Perlin generator behind the small surface the
// terrain generator needs. A Sampler is a pure function of its construction
// parameters and the sampled coordinates, which keeps chunk generation
// reproducible and independent of load order.
package noise

import (
	"github.com/aquilax/go-perlin"
)

type Sampler struct {
	p    *perlin.Perlin
	freq float64
}

// New creates a sampler. alpha controls smoothing, beta the frequency falloff
// between octaves, octaves the number of layered samples, freq the coordinate
// scale applied before sampling.
func New(seed int64, alpha, beta float64, octaves int, freq float64) *Sampler {
	return &Sampler{
		p:    perlin.NewPerlin(alpha, beta, int32(octaves), seed),
		freq: freq,
	}
}

// Sample2 returns coherent noise in [-1, 1] for a 2D coordinate.
func (s *Sampler) Sample2(x, z float64) float64 {
	return clamp1(s.p.Noise2D(x*s.freq, z*s.freq))
}

// Sample3 returns coherent noise in [-1, 1] for a 3D coordinate.
func (s *Sampler) Sample3(x, y, z float64) float64 {
	return clamp1(s.p.Noise3D(x*s.freq, y*s.freq, z*s.freq))
}

// Height maps the normalized 2D sample at (x, z) linearly onto [min, max]
// and truncates to an integer.
func (s *Sampler) Height(x, z float64, min, max int) int {
	n := (s.Sample2(x, z) + 1.0) / 2.0
	return min + int(n*float64(max-min))
}

func clamp1(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
