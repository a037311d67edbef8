package param

// Sweep enumerates parameter resolvers, one per parameterization of a run.
type Sweep interface {
	Resolvers() []*Resolver
}

// Unit is the sweep with a single empty resolver.
type Unit struct{}

func (Unit) Resolvers() []*Resolver {
	return []*Resolver{NewResolver(nil)}
}

// Points sweeps one key over an explicit list of values.
type Points struct {
	Key    string
	Values []float64
}

func (p Points) Resolvers() []*Resolver {
	out := make([]*Resolver, len(p.Values))
	for i, v := range p.Values {
		out[i] = NewResolver(map[string]float64{p.Key: v})
	}
	return out
}

// Linspace sweeps one key over n evenly spaced values in [start, stop].
type Linspace struct {
	Key         string
	Start, Stop float64
	N           int
}

func (l Linspace) Resolvers() []*Resolver {
	if l.N <= 0 {
		return nil
	}
	out := make([]*Resolver, l.N)
	for i := 0; i < l.N; i++ {
		v := l.Start
		if l.N > 1 {
			v += (l.Stop - l.Start) * float64(i) / float64(l.N-1)
		}
		out[i] = NewResolver(map[string]float64{l.Key: v})
	}
	return out
}

// Zip pairs up sweeps position by position, merging their assignments. The
// shortest sweep bounds the result.
type Zip []Sweep

func (z Zip) Resolvers() []*Resolver {
	if len(z) == 0 {
		return nil
	}
	columns := make([][]*Resolver, len(z))
	n := -1
	for i, s := range z {
		columns[i] = s.Resolvers()
		if n < 0 || len(columns[i]) < n {
			n = len(columns[i])
		}
	}
	out := make([]*Resolver, n)
	for i := 0; i < n; i++ {
		merged := make(map[string]float64)
		for _, col := range columns {
			for k, v := range col[i].Assignments {
				merged[k] = v
			}
		}
		out[i] = NewResolver(merged)
	}
	return out
}
