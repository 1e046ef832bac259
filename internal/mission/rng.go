package mission

import "math/rand/v2"

// seedMix decorrelates the two PCG words derived from one seed.
const seedMix = 0x9e3779b97f4a7c15

func newSource(seed uint64) rand.PCG {
	return *rand.NewPCG(seed, seed^seedMix)
}

// between draws uniformly from [lo, hi).
func between(r *rand.Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

func jitter(r *rand.Rand, p Vector2, spread float64) Vector2 {
	return Vector2{p.X + between(r, -spread, spread), p.Y + between(r, -spread, spread)}
}
