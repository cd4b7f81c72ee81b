/*
 * reader.go, part of gopic.
 *
 *
 * Copyright 2024 The gopic authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

package pic

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Keys of the dump layout.
const (
	StepKey     = "Header/step"
	TimeKey     = "Header/time"
	CodeNameKey = "Header/code_name"
	DerivedNS   = "Derived/"
)

var (
	codeNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z_-]*?([123])d`)
	speciesRe  = regexp.MustCompile(`^Particles/Px/([^/]+)`)
)

// particleKeys maps each attribute to the function building its key for a given species.
var particleKeys = map[Attrib]func(string) string{
	AttribX:      func(s string) string { return "Grid/Particles/" + s + "/X" },
	AttribY:      func(s string) string { return "Grid/Particles/" + s + "/Y" },
	AttribZ:      func(s string) string { return "Grid/Particles/" + s + "/Z" },
	AttribPx:     func(s string) string { return "Particles/Px/" + s },
	AttribPy:     func(s string) string { return "Particles/Py/" + s },
	AttribPz:     func(s string) string { return "Particles/Pz/" + s },
	AttribWeight: func(s string) string { return "Particles/Weight/" + s },
	AttribID:     func(s string) string { return "Particles/ID/" + s },
}

// ElectricKey returns the key of the electric field component along ax.
func ElectricKey(ax Axis, average bool) string {
	return fieldKey("Electric Field", "E", ax, average)
}

// MagneticKey returns the key of the magnetic field component along ax.
func MagneticKey(ax Axis, average bool) string {
	return fieldKey("Magnetic Field", "B", ax, average)
}

func fieldKey(quantity, prefix string, ax Axis, average bool) string {
	if average {
		quantity += "_average"
	}
	return quantity + "/" + prefix + ax.String()
}

// GridKey returns the key of the grid along ax.
func GridKey(ax Axis) string {
	return "Grid/Grid/" + ax.Upper()
}

// SpeciesKey returns the key of the attribute attrib of the given species.
func SpeciesKey(species string, attrib Attrib) (string, error) {
	f, ok := particleKeys[attrib]
	if !ok {
		return "", NewError(ErrFormat, "", "SpeciesKey", "unknown particle attribute %d", int(attrib))
	}
	return f(species), nil
}

// ParseSimDimensions parses a code name of the form <code><N>d, such as
// "Epoch2d", and returns N.
func ParseSimDimensions(codename string) (int, error) {
	m := codeNameRe.FindStringSubmatch(codename)
	if m == nil {
		return 0, NewError(ErrFormat, "", "ParseSimDimensions", "can't read the dimensionality from code name %q", codename)
	}
	return strconv.Atoi(m[1])
}

// Particles holds one per-particle attribute of a species. Recorded is false when the
// attribute was not written to the dump, which is not the same as a recorded, empty array.
type Particles struct {
	Data     []float64
	Recorded bool
}

// Len returns the number of particles, 0 if the attribute was not recorded.
func (P Particles) Len() int { return len(P.Data) }

// Reader reads a dump from any Store holding the usual key layout. It
// owns the store, and closes it on Close.
type Reader struct {
	name  string
	store Store
}

// NewReader returns a Reader for the dump called name, stored in s.
func NewReader(name string, s Store) *Reader {
	return &Reader{name: name, store: s}
}

func (R *Reader) Name() string { return R.name }

func (R *Reader) String() string {
	return fmt.Sprintf("<pic.Reader at %q>", R.name)
}

func (R *Reader) Keys() []string {
	if R.store == nil {
		return nil
	}
	return R.store.Keys()
}

// Get returns the raw value stored under key.
func (R *Reader) Get(key string) (interface{}, error) {
	if R.store == nil {
		return nil, NewError(ErrClosed, R.name, "Get", "%q", key)
	}
	v, err := R.store.Get(key)
	if err != nil {
		return nil, errDecorate(err, "Get")
	}
	return v, nil
}

// Close closes the underlying store. Calling it more than once is harmless.
func (R *Reader) Close() error {
	if R.store == nil {
		return nil
	}
	err := R.store.Close()
	R.store = nil
	return err
}

func (R *Reader) Timestep() (int, error) {
	v, err := R.Get(StepKey)
	if err != nil {
		return 0, errDecorate(err, "Timestep")
	}
	f, err := AsFloat(v)
	if err != nil {
		return 0, NewError(ErrFormat, R.name, "Timestep", "%s: %v", StepKey, err)
	}
	return int(f), nil
}

func (R *Reader) Time() (float64, error) {
	v, err := R.Get(TimeKey)
	if err != nil {
		return 0, errDecorate(err, "Time")
	}
	f, err := AsFloat(v)
	if err != nil {
		return 0, NewError(ErrFormat, R.name, "Time", "%s: %v", TimeKey, err)
	}
	return f, nil
}

func (R *Reader) SimDimensions() (int, error) {
	v, err := R.Get(CodeNameKey)
	if err != nil {
		return 0, errDecorate(err, "SimDimensions")
	}
	s, err := AsString(v)
	if err != nil {
		return 0, NewError(ErrFormat, R.name, "SimDimensions", "%s: %v", CodeNameKey, err)
	}
	d, err := ParseSimDimensions(s)
	if err != nil {
		return 0, NewError(ErrFormat, R.name, "SimDimensions", "%v", err)
	}
	return d, nil
}

func (R *Reader) array(key, caller string) (*Array, error) {
	v, err := R.Get(key)
	if err != nil {
		return nil, errDecorate(err, caller)
	}
	a, err := AsArray(v)
	if err != nil {
		return nil, NewError(ErrFormat, R.name, caller, "%s: %v", key, err)
	}
	return a, nil
}

func (R *Reader) DataE(ax Axis, average ...bool) (*Array, error) {
	return R.array(ElectricKey(ax, len(average) > 0 && average[0]), "DataE")
}

func (R *Reader) DataB(ax Axis, average ...bool) (*Array, error) {
	return R.array(MagneticKey(ax, len(average) > 0 && average[0]), "DataB")
}

func (R *Reader) Grid(ax Axis) ([]float64, error) {
	a, err := R.array(GridKey(ax), "Grid")
	if err != nil {
		return nil, err
	}
	return a.Data, nil
}

// ListSpecies returns the names of all species with a recorded x-momentum,
// sorted and without repetitions.
func (R *Reader) ListSpecies() []string {
	seen := make(map[string]bool)
	ret := make([]string, 0, 4)
	for _, k := range R.Keys() {
		m := speciesRe.FindStringSubmatch(k)
		if m == nil || seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		ret = append(ret, m[1])
	}
	sort.Strings(ret)
	return ret
}

// GetSpecies returns the attribute attrib of species. If the attribute
// was not dumped, the returned Particles has Recorded set to false and
// the error is nil. Errors are only returned for unreadable data.
func (R *Reader) GetSpecies(species string, attrib Attrib) (Particles, error) {
	key, err := SpeciesKey(species, attrib)
	if err != nil {
		return Particles{}, err
	}
	a, err := R.array(key, "GetSpecies")
	if errors.Is(err, ErrKeyNotFound) {
		return Particles{}, nil
	}
	if err != nil {
		return Particles{}, err
	}
	return Particles{Data: a.Data, Recorded: true}, nil
}

// SpeciesData returns every recorded attribute of species. All of them
// must have the same length.
func (R *Reader) SpeciesData(species string) (map[Attrib][]float64, error) {
	ret := make(map[Attrib][]float64)
	n := -1
	for _, at := range Attribs() {
		p, err := R.GetSpecies(species, at)
		if err != nil {
			return nil, errDecorate(err, "SpeciesData")
		}
		if !p.Recorded {
			continue
		}
		if n >= 0 && p.Len() != n {
			return nil, NewError(ErrFormat, R.name, "SpeciesData", "species %s: attribute %s has %d particles, %d expected", species, at, p.Len(), n)
		}
		n = p.Len()
		ret[at] = p.Data
	}
	return ret, nil
}

// GetDerived returns all the keys under Derived/, sorted.
func (R *Reader) GetDerived() []string {
	ret := make([]string, 0, 8)
	for _, k := range R.Keys() {
		if strings.HasPrefix(k, DerivedNS) {
			ret = append(ret, k)
		}
	}
	sort.Strings(ret)
	return ret
}
