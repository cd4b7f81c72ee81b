/*
 * interfaces.go, part of gopic.
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

/*The plan is to read every dump format through the same accessors, so analyses and plots can be
 * written once. A format package only needs to provide a Store (the path-keyed mapping of the
 * file); the key layout of the dump is interpreted by Reader.*/

// Store is an opaque, read-only mapping from path-like keys ("Header/step",
// "Electric Field/Ex") to stored values.
type Store interface {

	//Keys returns every addressable key in the store. Each call
	//returns a new slice, in no meaningful order.
	Keys() []string

	//Get returns the value stored under key as an *Array, a float64,
	//an int64 or a string. Missing keys give an error wrapping ErrKeyNotFound.
	Get(key string) (interface{}, error)

	//Close releases the underlying file, if any.
	Close() error
}

// DumpReader gives read-only access to one simulation dump, regardless of the
// format it was written in.
type DumpReader interface {
	//Name returns the dump identifier, normally the path it was read from.
	Name() string

	Keys() []string

	Get(key string) (interface{}, error)

	//Timestep returns the simulation step counter of the dump.
	Timestep() (int, error)

	//Time returns the physical simulation time of the dump.
	Time() (float64, error)

	//SimDimensions returns the spatial dimensionality (1, 2 or 3) of the simulation.
	SimDimensions() (int, error)

	//DataE returns the component ax of the electric field. If average is given and true,
	//the time-averaged field is returned instead.
	DataE(ax Axis, average ...bool) (*Array, error)

	//DataB is the magnetic-field equivalent of DataE.
	DataB(ax Axis, average ...bool) (*Array, error)

	//Grid returns the coordinates of the grid along ax.
	Grid(ax Axis) ([]float64, error)

	//ListSpecies returns the sorted names of the particle species in the dump.
	ListSpecies() []string

	//GetSpecies returns one attribute of a particle species. An attribute that
	//was not dumped is not an error: it gives a Particles with Recorded false.
	GetSpecies(species string, attrib Attrib) (Particles, error)

	//GetDerived returns the sorted keys of the derived quantities in the dump.
	GetDerived() []string

	Close() error
}

//Errors

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Each call appends the caller to the trail and returns it. An empty string only returns the current trail.
}

// FileError is the interface for errors associated to a given dump or manifest file.
type FileError interface {
	Error
	Critical() bool
	FileName() string
}
