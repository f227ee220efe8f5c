package grid

// Step advances the simulation by one leapfrog cycle: the E half followed by
// the mirrored H half, then the step counter. The ordering inside each half
// (boundary pre-update, curl+update, boundary post-update, sources,
// detectors) is load-bearing: several absorbing-boundary formulations need
// the field snapshot from before the curl, and time-centering breaks if the
// halves are swapped.
func (g *Grid) Step() {
	g.updateE()
	g.updateH()
	g.steps++
}

func (g *Grid) updateE() {
	dx, dy, dz := g.spacing[0], g.spacing[1], g.spacing[2]

	for _, b := range g.boundaries {
		b.PreUpdateE(dx, dy, dz)
	}

	curl := CurlHNonUniform(g.H, dx, dy, dz)
	coef := SpeedOfLight * g.timeStep
	for n, v := range curl.Re {
		g.E.Re[n] += coef * g.InvPermittivity.Data[n] * v
	}
	if g.E.Im != nil {
		for n, v := range curl.Im {
			g.E.Im[n] += coef * g.InvPermittivity.Data[n] * v
		}
	}

	for _, b := range g.boundaries {
		b.UpdateE()
	}
	for _, s := range g.sources {
		s.UpdateE()
	}
	for _, d := range g.detectors {
		d.DetectE()
	}
}

func (g *Grid) updateH() {
	dx, dy, dz := g.spacing[0], g.spacing[1], g.spacing[2]

	for _, b := range g.boundaries {
		b.PreUpdateH(dx, dy, dz)
	}

	curl := CurlENonUniform(g.E, dx, dy, dz)
	coef := SpeedOfLight * g.timeStep
	for n, v := range curl.Re {
		g.H.Re[n] -= coef * g.InvPermeability.Data[n] * v
	}
	if g.H.Im != nil {
		for n, v := range curl.Im {
			g.H.Im[n] -= coef * g.InvPermeability.Data[n] * v
		}
	}

	for _, b := range g.boundaries {
		b.UpdateH()
	}
	for _, s := range g.sources {
		s.UpdateH()
	}
	for _, d := range g.detectors {
		d.DetectH()
	}
}
