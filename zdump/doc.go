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

//Package zdump implements the zdump format, a simple compressed container for
//simulation dumps. zdump files hold the same path-keyed data as any other dump
//(see the pic.Store interface), and are meant to be trivial to write from other
//programs, so dumps can be converted or produced by small scripts.

/******************** Format Specification   ***************************************************

A zdump file is compressed with z-standard (zstd), unless its name ends in ".gz", in which
case it is compressed with gzip.

The decompressed content is UTF-8 text, organized in lines terminated by "\n".

The first line is the characters "zdump", a single space, and the format version, an integer.
This package writes, and reads, version 1.

Each following line is one JSON object, describing one key of the dump. The object always has
the member "key", a non-empty string with the path-like key ("Electric Field/Ex"). A key may only
appear once in a file. Exactly one of the following must be present as well:

"shape" and "data": an array. "shape" is a list of non-negative integers, "data" the
	values of the array, flattened in row-major order (the last index changes fastest).
	The length of "data" is the product of the elements of "shape". "data" may be omitted
	if that product is 0.
"num": a floating point number.
"int": an integer.
"str": a string.

Floating point values are JSON numbers. Since JSON has no representation for them,
not-a-number and the infinities are written as the strings "NaN", "+Inf" and "-Inf".

Empty lines are ignored.

***************************************************************************************************/

package zdump
