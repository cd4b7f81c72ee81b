/*
 * doc.go, part of gopic.
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
 */

/*Package pic is the main package of the gopic library. It reads the output of particle-in-cell
plasma simulations and turns it into fields ready for analysis and plotting.

	**gopic Capabilities**

    Reads single simulation dumps through the DumpReader interface: header
	data (step, time, dimensionality), electric and magnetic field components,
	grids, per-species particle attributes and derived quantities.

    Dumps are read from any Store, a path-keyed mapping of the file. HDF5
	(package h5) and the compressed zdump format (package zdump) are supported.

    Reads series of dumps listed in a manifest file (Sequence), opening each
	dump only when asked for it.

    Builds Fields (data plus grids) from the dump, with lineouts, resolution
	reduction and particle histograms.

    Plots 1D and 2D fields (package picplot, uses the gonum plot library).

    Keeps a catalog of the dumps of a simulation in a SQLite database (package catalog).

Particle attributes that were not written to a dump are not an error: GetSpecies
returns a Particles value with Recorded set to false. Every other missing key is
reported with an error wrapping ErrKeyNotFound.
*/
package pic
