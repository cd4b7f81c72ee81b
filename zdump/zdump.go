/*
 * zdump.go, part of gopic.
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

package zdump

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	pic "github.com/rmera/gopic"
)

// Version is the format version written by this package.
const Version = 1

const magic = "zdump"

// number is a float64 that survives a JSON round trip even when it is not finite.
type number float64

func (n number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return []byte(`"NaN"`), nil
	case math.IsInf(f, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Inf"`), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

func (n *number) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		var err error
		s, err = strconv.Unquote(s)
		if err != nil {
			return err
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*n = number(f)
	return nil
}

// record is one line of a zdump file.
type record struct {
	Key   string   `json:"key"`
	Shape []int    `json:"shape,omitempty"`
	Data  []number `json:"data,omitempty"`
	Num   *number  `json:"num,omitempty"`
	Int   *int64   `json:"int,omitempty"`
	Str   *string  `json:"str,omitempty"`
}

// value returns the Go value held by the record, as a pic.Store would.
func (r *record) value() (interface{}, error) {
	set := 0
	if r.Shape != nil {
		set++
	}
	if r.Num != nil {
		set++
	}
	if r.Int != nil {
		set++
	}
	if r.Str != nil {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("key %q: %d values given, 1 expected", r.Key, set)
	}
	switch {
	case r.Num != nil:
		return float64(*r.Num), nil
	case r.Int != nil:
		return *r.Int, nil
	case r.Str != nil:
		return *r.Str, nil
	}
	for _, v := range r.Shape {
		if v < 0 {
			return nil, fmt.Errorf("key %q: negative dimension in shape %v", r.Key, r.Shape)
		}
	}
	data := make([]float64, len(r.Data))
	for i, v := range r.Data {
		data[i] = float64(v)
	}
	a, err := pic.NewArray(data, r.Shape...)
	if err != nil {
		return nil, fmt.Errorf("key %q: %w", r.Key, err)
	}
	return a, nil
}

//Write!

// Writer writes a zdump file, one key at a time.
type Writer struct {
	f         *os.File
	h         io.WriteCloser
	buf       *bufio.Writer
	filename  string
	keys      map[string]bool
	writeable bool
}

// NewWriter creates the zdump file name. The compression level, if given, is
// passed to the compressor: a gzip level for names ending in ".gz", a zstd
// level (1 to 22) otherwise.
func NewWriter(name string, compressionLevel ...int) (*Writer, error) {
	W := &Writer{filename: name, keys: make(map[string]bool)}
	var err error
	W.f, err = os.Create(name)
	if err != nil {
		return nil, pic.NewError(pic.ErrFormat, name, "zdump.NewWriter", "can't create file: %v", err)
	}
	if isGzip(name) {
		level := gzip.DefaultCompression
		if len(compressionLevel) > 0 {
			level = compressionLevel[0]
		}
		W.h, err = gzip.NewWriterLevel(W.f, level)
	} else {
		level := zstd.SpeedDefault
		if len(compressionLevel) > 0 {
			level = zstd.EncoderLevelFromZstd(compressionLevel[0])
		}
		W.h, err = zstd.NewWriter(W.f, zstd.WithEncoderLevel(level))
	}
	if err != nil {
		W.f.Close()
		return nil, pic.NewError(pic.ErrFormat, name, "zdump.NewWriter", "can't start the compressor: %v", err)
	}
	W.buf = bufio.NewWriter(W.h)
	W.writeable = true
	if _, err := fmt.Fprintf(W.buf, "%s %d\n", magic, Version); err != nil {
		W.Close()
		return nil, pic.NewError(pic.ErrFormat, name, "zdump.NewWriter", "can't write header: %v", err)
	}
	return W, nil
}

// Len returns the number of keys written so far.
func (W *Writer) Len() int { return len(W.keys) }

func (W *Writer) write(rec *record, caller string) error {
	if !W.writeable {
		return pic.NewError(pic.ErrFormat, W.filename, caller, "writer is closed")
	}
	if rec.Key == "" {
		return pic.NewError(pic.ErrFormat, W.filename, caller, "empty key")
	}
	if W.keys[rec.Key] {
		return pic.NewError(pic.ErrFormat, W.filename, caller, "key %q written twice", rec.Key)
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return pic.NewError(pic.ErrFormat, W.filename, caller, "key %q: %v", rec.Key, err)
	}
	b = append(b, '\n')
	if _, err := W.buf.Write(b); err != nil {
		return pic.NewError(pic.ErrFormat, W.filename, caller, "key %q: %v", rec.Key, err)
	}
	W.keys[rec.Key] = true
	return nil
}

// WriteArray writes data, with the given shape, under key. A nil shape
// means a one-dimensional array.
func (W *Writer) WriteArray(key string, shape []int, data []float64) error {
	if shape == nil {
		shape = []int{len(data)}
	}
	if _, err := pic.NewArray(data, shape...); err != nil {
		return pic.NewError(pic.ErrFormat, W.filename, "WriteArray", "key %q: shape %v for %d values", key, shape, len(data))
	}
	if len(shape) == 0 {
		//zero-dimensional arrays are plain numbers in the file.
		return W.WriteScalar(key, data[0])
	}
	d := make([]number, len(data))
	for i, v := range data {
		d[i] = number(v)
	}
	return W.write(&record{Key: key, Shape: shape, Data: d}, "WriteArray")
}

// WriteScalar writes a floating point number under key.
func (W *Writer) WriteScalar(key string, v float64) error {
	n := number(v)
	return W.write(&record{Key: key, Num: &n}, "WriteScalar")
}

// WriteInt writes an integer under key.
func (W *Writer) WriteInt(key string, v int64) error {
	return W.write(&record{Key: key, Int: &v}, "WriteInt")
}

// WriteString writes a string under key.
func (W *Writer) WriteString(key string, v string) error {
	return W.write(&record{Key: key, Str: &v}, "WriteString")
}

// Write writes any value a pic.Store can return: *pic.Array, float64,
// int64 or string. Other numeric values and slices are converted with pic.AsArray.
func (W *Writer) Write(key string, v interface{}) error {
	var err error
	switch t := v.(type) {
	case *pic.Array:
		err = W.WriteArray(key, t.Shape, t.Data)
	case float64:
		err = W.WriteScalar(key, t)
	case float32:
		err = W.WriteScalar(key, float64(t))
	case int64:
		err = W.WriteInt(key, t)
	case int:
		err = W.WriteInt(key, int64(t))
	case int32:
		err = W.WriteInt(key, int64(t))
	case string:
		err = W.WriteString(key, t)
	default:
		a, aerr := pic.AsArray(v)
		if aerr != nil {
			return pic.NewError(pic.ErrFormat, W.filename, "Write", "key %q: can't store a %T", key, v)
		}
		err = W.WriteArray(key, a.Shape, a.Data)
	}
	if err != nil {
		var e pic.Error
		if errors.As(err, &e) {
			e.Decorate("Write")
		}
	}
	return err
}

// CopyStore writes every key of s. It returns the number of keys written.
func (W *Writer) CopyStore(s pic.Store) (int, error) {
	n := 0
	for _, k := range s.Keys() {
		v, err := s.Get(k)
		if err != nil {
			return n, err
		}
		if err := W.Write(k, v); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Close flushes and closes the file. It is safe to call it more than once.
func (W *Writer) Close() error {
	if W == nil || !W.writeable {
		return nil
	}
	W.writeable = false
	err := W.buf.Flush()
	if err2 := W.h.Close(); err == nil {
		err = err2
	}
	if err2 := W.f.Close(); err == nil {
		err = err2
	}
	if err != nil {
		return pic.NewError(pic.ErrFormat, W.filename, "zdump.Close", "%v", err)
	}
	return nil
}

//Read!

// zstdql lets a *zstd.Decoder be used as an io.ReadCloser.
type zstdql struct {
	*zstd.Decoder
}

func (z zstdql) Close() error {
	z.Decoder.Close()
	return nil
}

// Open reads the whole zdump file name into memory. A missing
// file gives an error wrapping pic.ErrFileNotFound.
func Open(name string) (*pic.MemStore, error) {
	f, err := os.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, pic.NewError(pic.ErrFileNotFound, name, "zdump.Open", "%v", err)
	}
	if err != nil {
		return nil, pic.NewError(pic.ErrFormat, name, "zdump.Open", "%v", err)
	}
	defer f.Close()
	var h io.ReadCloser
	if isGzip(name) {
		h, err = gzip.NewReader(bufio.NewReader(f))
	} else {
		var d *zstd.Decoder
		d, err = zstd.NewReader(bufio.NewReader(f))
		if err == nil {
			h = zstdql{d}
		}
	}
	if err != nil {
		return nil, pic.NewError(pic.ErrFormat, name, "zdump.Open", "can't decompress: %v", err)
	}
	defer h.Close()
	values, err := decode(h)
	if err != nil {
		return nil, pic.NewError(pic.ErrFormat, name, "zdump.Open", "%v", err)
	}
	return pic.NewMemStore(name, values), nil
}

// decode reads the decompressed content of a zdump file.
func decode(in io.Reader) (map[string]interface{}, error) {
	r := bufio.NewReader(in)
	header, err := r.ReadString('\n')
	if err != nil && header == "" {
		return nil, fmt.Errorf("can't read header: %v", err)
	}
	fields := strings.Fields(header)
	if len(fields) != 2 || fields[0] != magic {
		return nil, fmt.Errorf("not a zdump file: header %q", strings.TrimSpace(header))
	}
	version, err := strconv.Atoi(fields[1])
	if err != nil || version < 1 || version > Version {
		return nil, fmt.Errorf("unsupported zdump version %q", fields[1])
	}
	values := make(map[string]interface{})
	for line := 2; ; line++ {
		b, err := r.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("line %d: %v", line, err)
		}
		b = bytes.TrimSpace(b)
		if len(b) > 0 {
			rec := new(record)
			if jerr := json.Unmarshal(b, rec); jerr != nil {
				return nil, fmt.Errorf("line %d: %v", line, jerr)
			}
			if rec.Key == "" {
				return nil, fmt.Errorf("line %d: empty key", line)
			}
			if _, ok := values[rec.Key]; ok {
				return nil, fmt.Errorf("line %d: key %q repeated", line, rec.Key)
			}
			v, verr := rec.value()
			if verr != nil {
				return nil, fmt.Errorf("line %d: %v", line, verr)
			}
			values[rec.Key] = v
		}
		if err == io.EOF {
			break
		}
	}
	return values, nil
}

// New opens the zdump file name and returns a reader for it.
func New(name string) (*pic.Reader, error) {
	s, err := Open(name)
	if err != nil {
		return nil, err
	}
	return pic.NewReader(name, s), nil
}

func isGzip(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".gz")
}
