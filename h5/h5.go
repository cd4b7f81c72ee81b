/*
 * h5.go, part of gopic.
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

//Package h5 reads simulation dumps stored as HDF5 files. Every dataset is
//addressed by its group path and name ("Electric Field/Ex"), and the
//attributes of the root group by their own name.
package h5

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/hdf5"
	"github.com/batchatco/go-thrower"
	pic "github.com/rmera/gopic"
	"golang.org/x/text/unicode/norm"
)

// group is the part of an HDF5 group the Store walks.
type group interface {
	ListVariables() []string
	ListSubgroups() []string
	GetVariable(name string) (*api.Variable, error)
	Close()
}

// location is where a dataset lives in the file.
type location struct {
	group string
	name  string
}

// Store is a pic.Store over an HDF5 file. The layout of the file is read
// when it is opened, the data only on Get.
type Store struct {
	name  string
	root  group
	sub   func(path string) (group, error)
	vars  map[string]location
	attrs map[string]interface{}
}

// Open opens the HDF5 file name. A missing file gives an
// error wrapping pic.ErrFileNotFound.
func Open(name string) (*Store, error) {
	if _, err := os.Stat(name); errors.Is(err, fs.ErrNotExist) {
		return nil, pic.NewError(pic.ErrFileNotFound, name, "h5.Open", "%v", err)
	}
	root, err := hdf5.Open(name)
	if err != nil {
		return nil, pic.NewError(pic.ErrFormat, name, "h5.Open", "not a readable HDF5 file: %v", err)
	}
	sub := func(path string) (group, error) {
		g, err := root.GetGroup("/" + path)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	attrs := make(map[string]interface{})
	if err := rootAttributes(root, attrs); err != nil {
		root.Close()
		return nil, pic.NewError(pic.ErrFormat, name, "h5.Open", "can't read attributes: %v", err)
	}
	S, err := newStore(name, root, sub, attrs)
	if err != nil {
		root.Close()
		return nil, err
	}
	return S, nil
}

func rootAttributes(root api.Group, dst map[string]interface{}) (err error) {
	defer thrower.RecoverError(&err)
	am := root.Attributes()
	if am == nil {
		return nil
	}
	for _, k := range am.Keys() {
		if v, ok := am.Get(k); ok {
			dst[norm.NFC.String(k)] = v
		}
	}
	return nil
}

func newStore(name string, root group, sub func(string) (group, error), attrs map[string]interface{}) (*Store, error) {
	S := &Store{name: name, root: root, sub: sub, vars: make(map[string]location), attrs: attrs}
	if S.attrs == nil {
		S.attrs = make(map[string]interface{})
	}
	if err := S.walk(root, ""); err != nil {
		return nil, pic.NewError(pic.ErrFormat, name, "h5.Open", "can't read the file layout: %v", err)
	}
	return S, nil
}

// walk collects the datasets of g and its subgroups, recursively.
func (S *Store) walk(g group, path string) (err error) {
	defer thrower.RecoverError(&err)
	for _, v := range g.ListVariables() {
		S.vars[joinKey(path, v)] = location{group: path, name: v}
	}
	subgroups := g.ListSubgroups()
	sort.Strings(subgroups)
	for _, sg := range subgroups {
		p := joinKey(path, sg)
		c, err := S.sub(p)
		if err != nil {
			return err
		}
		err = S.walk(c, p)
		c.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// joinKey returns the key of name in the group path. Keys are NFC-normalized,
// so names written by different tools compare equal.
func joinKey(path, name string) string {
	if path == "" {
		return norm.NFC.String(name)
	}
	return norm.NFC.String(path + "/" + name)
}

// Keys returns every dataset and root attribute in the file, sorted.
func (S *Store) Keys() []string {
	if S.root == nil {
		return nil
	}
	ret := make([]string, 0, len(S.vars)+len(S.attrs))
	for k := range S.vars {
		ret = append(ret, k)
	}
	for k := range S.attrs {
		if _, ok := S.vars[k]; !ok {
			ret = append(ret, k)
		}
	}
	sort.Strings(ret)
	return ret
}

// Get reads the dataset or attribute key. Datasets are read from the file
// on every call.
func (S *Store) Get(key string) (interface{}, error) {
	if S.root == nil {
		return nil, pic.NewError(pic.ErrClosed, S.name, "h5.Get", "%q", key)
	}
	key = norm.NFC.String(strings.TrimPrefix(key, "/"))
	loc, ok := S.vars[key]
	if !ok {
		a, ok := S.attrs[key]
		if !ok {
			return nil, pic.NewError(pic.ErrKeyNotFound, S.name, "h5.Get", "%q", key)
		}
		return storeValue(a, S.name, key)
	}
	g := S.root
	if loc.group != "" {
		var err error
		g, err = S.sub(loc.group)
		if err != nil {
			return nil, pic.NewError(pic.ErrKeyNotFound, S.name, "h5.Get", "group %q: %v", loc.group, err)
		}
		defer g.Close()
	}
	v, err := g.GetVariable(loc.name)
	if errors.Is(err, hdf5.ErrNotFound) {
		return nil, pic.NewError(pic.ErrKeyNotFound, S.name, "h5.Get", "%q", key)
	}
	if err != nil {
		return nil, pic.NewError(pic.ErrFormat, S.name, "h5.Get", "%q: %v", key, err)
	}
	return storeValue(v.Values, S.name, key)
}

// Close closes the file. It is safe to call it more than once.
func (S *Store) Close() error {
	if S.root != nil {
		S.root.Close()
	}
	S.root = nil
	return nil
}

// storeValue converts a value decoded from the file to one of the types
// a pic.Store returns: integers become int64, floating point numbers
// float64, text a string, and every other numeric value an *pic.Array.
// Byte datasets are numeric. Unsigned integers too large for an int64
// become float64.
func storeValue(v interface{}, filename, key string) (interface{}, error) {
	switch v.(type) {
	case string, []string:
		s, err := pic.AsString(v)
		if err != nil {
			return nil, pic.NewError(pic.ErrFormat, filename, "h5.Get", "%q: %v", key, err)
		}
		return s, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if u := rv.Uint(); u > math.MaxInt64 {
			return float64(u), nil
		}
		return int64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	}
	a, err := pic.AsArray(v)
	if err != nil {
		return nil, pic.NewError(pic.ErrFormat, filename, "h5.Get", "%q holds an unsupported %T", key, v)
	}
	return a, nil
}

// New opens the HDF5 dump name and returns a reader for it.
func New(name string) (*pic.Reader, error) {
	s, err := Open(name)
	if err != nil {
		return nil, err
	}
	return pic.NewReader(name, s), nil
}
