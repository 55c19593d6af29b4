package chromatin

// scriptSampler replays fixed uniform and normal draws, cycling when exhausted.
type scriptSampler struct {
	uniforms []float64
	normals  []float64
	ui, ni   int
}

func (s *scriptSampler) Uniform01() float64 {
	u := s.uniforms[s.ui%len(s.uniforms)]
	s.ui++
	return u
}

func (s *scriptSampler) Normal() (float64, error) {
	z := s.normals[s.ni%len(s.normals)]
	s.ni++
	return z, nil
}

// noDrawSampler fails the test if any draw is made.
type noDrawSampler struct{}

func (noDrawSampler) Uniform01() float64       { panic("unexpected uniform draw") }
func (noDrawSampler) Normal() (float64, error) { panic("unexpected normal draw") }

func threeNucleosomeConfig() Config {
	return Config{
		WrapLength:           146,
		MeanLinkerLength:     20,
		LinkerVariance:       0,
		TotalNucleosomes:     3,
		MissingFraction:      0,
		CutsPerKilobasePairs: 0,
		RetryBudget:          DefaultRetryBudget,
	}
}

func positions(chain []Nucleosome) []int {
	out := make([]int, len(chain))
	for i, n := range chain {
		out[i] = n.Position
	}
	return out
}

func countDetached(chain []Nucleosome) int {
	n := 0
	for _, nuc := range chain {
		if !nuc.Attached {
			n++
		}
	}
	return n
}
