// Package loader reads model parameter files and fills the parameterizable
// inputs of a built graph. Files are memory-mapped; only the records a
// graph actually references are decoded.
package loader

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/mmap"
	"k8s.io/klog/v2"

	"github.com/forge-ml/forge/internal/graph"
	"github.com/forge-ml/forge/internal/tensor"
)

// Weight-file format, little-endian:
//
//	magic "FRGW", version uint32, record count uint32,
//	SHA-256 digest of the record section (32 bytes)
//	per record: name length uint32, name bytes,
//	            dtype uint32, ndims uint32, dims []uint32,
//	            logical element data (unpadded, row-major)
const (
	magic      = "FRGW"
	version    = 1
	headerSize = 12 + sha256.Size
)

type record struct {
	dtype  tensor.DataType
	dims   []int
	offset int64 // file offset of the element data
}

// File is a memory-mapped weight file.
type File struct {
	path    string
	r       *mmap.ReaderAt
	records map[string]record
}

// Open memory-maps a weight file and indexes its records.
func Open(path string) (*File, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mmap weight file: %w", err)
	}
	f := &File{path: path, r: r, records: make(map[string]record)}
	if err := f.index(); err != nil {
		r.Close()
		return nil, err
	}
	klog.V(1).Infof("loader: opened %s, %d records", path, len(f.records))
	return f, nil
}

// Close unmaps the file.
func (f *File) Close() error {
	return f.r.Close()
}

func (f *File) read(off int64, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := f.r.ReadAt(buf, off); err != nil {
		return nil, fmt.Errorf("read weight file at offset %d: %w", off, err)
	}
	return buf, nil
}

func (f *File) readU32(off int64) (uint32, error) {
	buf, err := f.read(off, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

func (f *File) index() error {
	header, err := f.read(0, headerSize)
	if err != nil {
		return err
	}
	if string(header[:4]) != magic {
		return fmt.Errorf("%s is not a weight file", f.path)
	}
	if v := binary.LittleEndian.Uint32(header[4:8]); v != version {
		return fmt.Errorf("%s: unsupported weight file version %d", f.path, v)
	}
	count := binary.LittleEndian.Uint32(header[8:12])

	var stored [sha256.Size]byte
	copy(stored[:], header[12:headerSize])
	section := io.NewSectionReader(f.r, headerSize, int64(f.r.Len())-headerSize)
	computed, err := checksumReader(section)
	if err != nil {
		return fmt.Errorf("%s: %w", f.path, err)
	}
	if err := verifyChecksum(computed, stored); err != nil {
		return fmt.Errorf("%s: %w", f.path, err)
	}

	off := int64(headerSize)
	for i := uint32(0); i < count; i++ {
		nameLen, err := f.readU32(off)
		if err != nil {
			return err
		}
		nameBytes, err := f.read(off+4, int(nameLen))
		if err != nil {
			return err
		}
		off += 4 + int64(nameLen)

		meta, err := f.read(off, 8)
		if err != nil {
			return err
		}
		dtype := tensor.DataType(binary.LittleEndian.Uint32(meta[:4]))
		ndims := binary.LittleEndian.Uint32(meta[4:8])
		off += 8

		dims := make([]int, ndims)
		numElements := 1
		for d := range dims {
			v, err := f.readU32(off)
			if err != nil {
				return err
			}
			dims[d] = int(v)
			numElements *= dims[d]
			off += 4
		}

		f.records[string(nameBytes)] = record{dtype: dtype, dims: dims, offset: off}
		off += int64(numElements * dtype.Size())
	}
	return nil
}

// Fill copies a record's data into t. The record must exist and agree with
// t's element type and logical extents.
func (f *File) Fill(t *tensor.Tensor) error {
	rec, ok := f.records[t.Name()]
	if !ok {
		return fmt.Errorf("weight file has no record for tensor %q", t.Name())
	}
	if rec.dtype != t.DataType() {
		return fmt.Errorf("tensor %q: weight file has %s data, tensor is %s",
			t.Name(), rec.dtype, t.DataType())
	}
	if len(rec.dims) != t.NDims() {
		return fmt.Errorf("tensor %q: weight file rank %d, tensor rank %d",
			t.Name(), len(rec.dims), t.NDims())
	}
	for i, d := range rec.dims {
		if d != t.Dim(i) {
			return fmt.Errorf("tensor %q: weight file dims %v do not match shape %s",
				t.Name(), rec.dims, t.Shape())
		}
	}

	n := t.Shape().NumElements()
	raw, err := f.read(rec.offset, n*rec.dtype.Size())
	if err != nil {
		return err
	}
	switch t.DataType() {
	case tensor.Float32:
		return fillRecord[float32](t, raw, n)
	case tensor.Float64:
		return fillRecord[float64](t, raw, n)
	case tensor.Int32:
		return fillRecord[int32](t, raw, n)
	case tensor.Int64:
		return fillRecord[int64](t, raw, n)
	default:
		return fmt.Errorf("tensor %q: unsupported weight data type %s", t.Name(), t.DataType())
	}
}

func fillRecord[T tensor.DType](t *tensor.Tensor, raw []byte, n int) error {
	values := make([]T, n)
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, values); err != nil {
		return fmt.Errorf("tensor %q: decode weight data: %w", t.Name(), err)
	}
	return tensor.FillData(t, values)
}

// PopulateWorkspace fills every parameterizable input of every operator in
// the workspace. Weight tensors must already have storage allocated.
func (f *File) PopulateWorkspace(ws *graph.Workspace) error {
	for _, op := range ws.Operators() {
		for _, t := range op.ParameterizableInputs() {
			if t == nil {
				continue
			}
			if err := f.Fill(t); err != nil {
				return fmt.Errorf("operator %q: %w", op.Name(), err)
			}
			klog.V(2).Infof("loader: filled %s", t)
		}
	}
	return nil
}

// Save writes tensors to a weight file. Used to produce fixtures and to
// snapshot a populated graph.
func Save(path string, tensors []*tensor.Tensor) error {
	var records bytes.Buffer
	for _, t := range tensors {
		writeU32(&records, uint32(len(t.Name())))
		records.WriteString(t.Name())
		writeU32(&records, uint32(t.DataType()))
		writeU32(&records, uint32(t.NDims()))
		for i := 0; i < t.NDims(); i++ {
			writeU32(&records, uint32(t.Dim(i)))
		}
		if err := writeLogicalData(&records, t); err != nil {
			return err
		}
	}
	sum := sha256.Sum256(records.Bytes())

	var buf bytes.Buffer
	buf.WriteString(magic)
	writeU32(&buf, version)
	writeU32(&buf, uint32(len(tensors)))
	buf.Write(sum[:])
	buf.Write(records.Bytes())
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

// writeLogicalData emits a tensor's elements without alignment padding.
func writeLogicalData(buf *bytes.Buffer, t *tensor.Tensor) error {
	switch t.DataType() {
	case tensor.Float32:
		return writeRows[float32](buf, t)
	case tensor.Float64:
		return writeRows[float64](buf, t)
	case tensor.Int32:
		return writeRows[int32](buf, t)
	case tensor.Int64:
		return writeRows[int64](buf, t)
	default:
		return fmt.Errorf("tensor %q: unsupported weight data type %s", t.Name(), t.DataType())
	}
}

func writeRows[T tensor.DType](buf *bytes.Buffer, t *tensor.Tensor) error {
	data := tensor.Data[T](t)
	rowLen := t.Dim(t.NDims() - 1)
	stride := rowLen + t.Shape().Padding()
	rows := t.Shape().NumElements() / rowLen
	for r := 0; r < rows; r++ {
		row := data[r*stride : r*stride+rowLen]
		if err := binary.Write(buf, binary.LittleEndian, row); err != nil {
			return err
		}
	}
	return nil
}
