package retina

// Reproduction holds the GA operators and their scratch space: the parent
// index arrays filled by Select and read by Crossover.
type Reproduction struct {
	Config *Config
	P1, P2 []int // parent indices per child slot, aligned with population[NumElites:]
}

// NewReproduction creates the operators with parent buffers sized for config.
func NewReproduction(config *Config) *Reproduction {
	children := config.Evolution.NumIndividuals - config.Evolution.NumElites
	return &Reproduction{
		Config: config,
		P1:     make([]int, children),
		P2:     make([]int, children),
	}
}

// tournament returns the better of rivals a and b with probability
// TournamentProb and the worse otherwise. Ties favour b.
func (r *Reproduction) tournament(s *Stream, genomes []*Genome, a, b int) int {
	better, worse := b, a
	if genomes[a].Cost < genomes[b].Cost {
		better, worse = a, b
	}
	if s.Bernoulli(r.Config.Evolution.TournamentProb) {
		return better
	}
	return worse
}

// Select picks two parents for every child slot by double tournament. The
// rivals for the second parent are redrawn until neither is the first parent.
// genomes must be ranked and hold at least two entries.
func (r *Reproduction) Select(s *Stream, genomes []*Genome) {
	n := len(genomes)
	for i := range r.P1 {
		r.P1[i] = r.tournament(s, genomes, s.Intn(n), s.Intn(n))

		var a, b int
		for {
			a, b = s.Intn(n), s.Intn(n)
			if a != r.P1[i] && b != r.P1[i] {
				break
			}
		}
		r.P2[i] = r.tournament(s, genomes, a, b)
	}
}

// pick returns one of the two parents of child slot i with equal probability.
func (r *Reproduction) pick(s *Stream, i int) int {
	if s.Bernoulli(0.5) {
		return r.P1[i]
	}
	return r.P2[i]
}

// Crossover overwrites children[i] from parents P1[i] and P2[i]. Decay and
// layer count come from one parent; every layer is then taken from an
// independently chosen parent: the receptor from its receptor, the ganglion
// from its ganglion, an interneuron from a random layer of that parent.
// parents must not alias children.
func (r *Reproduction) Crossover(s *Stream, parents []*Genome, children []*Genome) {
	for i, child := range children {
		src := parents[r.pick(s, i)]
		n := src.NTypes
		child.Decay = src.Decay
		child.NTypes = n

		for k := 0; k < n; k++ {
			p := parents[r.pick(s, i)]

			var q int
			switch k {
			case 0:
				q = 0
			case n - 1:
				q = p.NTypes - 1
			default:
				q = s.Intn(p.NTypes)
			}
			child.Layers[k] = p.Layers[q]
		}
		for k := n; k < len(child.Layers); k++ {
			child.Layers[k] = LayerGene{}
		}
	}
}

// Mutate perturbs a child in place. Every out-of-range value is clamped, so
// mutation never fails. The receptor and ganglion cell counts and the
// receptor polarity are left alone.
func (r *Reproduction) Mutate(s *Stream, g *Genome) {
	width := r.Config.Retina.Width
	g.Decay = clamp(s.Gaussian(g.Decay, width*r.Config.Mutation.DecaySigmaFraction), 0, width)

	for k := 0; k < g.NTypes; k++ {
		g.Layers[k].flipCodes(s, r.Config.Mutation.BitFlips)
	}
	for k := 1; k < g.NTypes-1; k++ {
		g.Layers[k].mutateInterneuron(s, r.Config)
	}
}

// Reproduce runs Select, Crossover and Mutate over a ranked population,
// leaving the first NumElites genomes untouched.
func (r *Reproduction) Reproduce(s *Stream, ranked []*Genome) {
	elites := r.Config.Evolution.NumElites
	if elites >= len(ranked) {
		return
	}

	parents := make([]*Genome, len(ranked))
	for i, g := range ranked {
		parents[i] = g.Copy()
	}

	r.Select(s, parents)
	children := ranked[elites:]
	r.Crossover(s, parents, children)
	for _, child := range children {
		r.Mutate(s, child)
	}
}
