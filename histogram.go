package pic

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ParticleHistogram returns a 1D field with the histogram of the attribute attrib of
// species, in the given number of bins, spanning the range of the data. The grid
// of the field holds the bin centres. If weighted is true and the species has
// recorded weights, each particle counts with its weight. Particles with a
// NaN or infinite value, or weight, are left out of the histogram.
func ParticleHistogram(r DumpReader, species string, attrib Attrib, bins int, weighted bool) (*Field, error) {
	if bins < 1 {
		return nil, NewError(ErrFormat, r.Name(), "ParticleHistogram", "%d bins requested", bins)
	}
	p, err := r.GetSpecies(species, attrib)
	if err != nil {
		return nil, errDecorate(err, "ParticleHistogram")
	}
	if !p.Recorded {
		return nil, NewError(ErrKeyNotFound, r.Name(), "ParticleHistogram", "attribute %s of species %s was not dumped", attrib, species)
	}
	var weights []float64
	if weighted {
		w, err := r.GetSpecies(species, AttribWeight)
		if err != nil {
			return nil, errDecorate(err, "ParticleHistogram")
		}
		if w.Recorded {
			if w.Len() != p.Len() {
				return nil, NewError(ErrFormat, r.Name(), "ParticleHistogram", "species %s has %d weights for %d particles", species, w.Len(), p.Len())
			}
			weights = w.Data
		}
	}
	x, weights, dropped := finite(p.Data, weights)
	dividers := histoDividers(x, bins)
	count := make([]float64, bins)
	if len(x) > 0 {
		stat.SortWeighted(x, weights)
		stat.Histogram(count, dividers, x, weights)
	}
	centres := make([]float64, bins)
	for i := range centres {
		centres[i] = (dividers[i] + dividers[i+1]) / 2
	}
	name := species + "_" + attrib.String()
	f, err := NewField(name, &Array{Shape: []int{bins}, Data: count}, FieldAxis{Name: attrib.String(), Label: attrib.String(), Grid: centres})
	if err != nil {
		return nil, err
	}
	f.Infos = append(f.Infos, species)
	if weights != nil {
		f.Infos = append(f.Infos, "weighted")
	}
	if dropped > 0 {
		f.Infos = append(f.Infos, fmt.Sprintf("%d non-finite values dropped", dropped))
	}
	return f, nil
}

// finite returns copies of x and w without the entries where either is NaN
// or infinite, and the number of entries left out. w may be nil.
func finite(x, w []float64) ([]float64, []float64, int) {
	fx := make([]float64, 0, len(x))
	var fw []float64
	if w != nil {
		fw = make([]float64, 0, len(w))
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if w != nil {
			if math.IsNaN(w[i]) || math.IsInf(w[i], 0) {
				continue
			}
			fw = append(fw, w[i])
		}
		fx = append(fx, v)
	}
	return fx, fw, len(x) - len(fx)
}

// histoDividers returns bins+1 evenly spaced dividers covering all of x. The
// last divider is nudged up so the largest value falls inside the last bin.
func histoDividers(x []float64, bins int) []float64 {
	lo, hi := 0.0, 1.0
	if len(x) > 0 {
		lo, hi = floats.Min(x), floats.Max(x)
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	d := floats.Span(make([]float64, bins+1), lo, hi)
	d[bins] = math.Nextafter(hi, math.Inf(1))
	return d
}
