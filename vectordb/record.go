package vectordb

import (
	"fmt"
	"time"

	"github.com/viant/bintly"
)

// Record is a cached embedding.
type Record struct {
	Model     string
	Text      string
	Vector    []float32
	CreatedAt time.Time
}

// EncodeBinary encodes the record to a binary stream
func (r *Record) EncodeBinary(stream *bintly.Writer) error {
	stream.String(r.Model)
	stream.String(r.Text)
	stream.Int(len(r.Vector))
	for _, v := range r.Vector {
		stream.Float32(v)
	}
	stream.Time(r.CreatedAt)
	return nil
}

// DecodeBinary decodes the record from a binary stream
func (r *Record) DecodeBinary(stream *bintly.Reader) error {
	stream.String(&r.Model)
	stream.String(&r.Text)
	var size int
	stream.Int(&size)
	if size < 0 {
		return fmt.Errorf("vectordb: invalid vector size %d", size)
	}
	r.Vector = make([]float32, size)
	for i := 0; i < size; i++ {
		stream.Float32(&r.Vector[i])
	}
	stream.Time(&r.CreatedAt)
	return nil
}

var (
	writers = bintly.NewWriters()
	readers = bintly.NewReaders()
)

// Marshal encodes r with bintly.
func (r *Record) Marshal() ([]byte, error) {
	w := writers.Get()
	defer writers.Put(w)
	if err := r.EncodeBinary(w); err != nil {
		return nil, err
	}
	bs := w.Bytes()
	out := make([]byte, len(bs))
	copy(out, bs)
	return out, nil
}

// Unmarshal decodes data produced by Marshal.
func Unmarshal(data []byte) (*Record, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("vectordb: empty record")
	}
	reader := readers.Get()
	defer readers.Put(reader)
	if err := reader.FromBytes(data); err != nil {
		return nil, err
	}
	record := &Record{}
	if err := record.DecodeBinary(reader); err != nil {
		return nil, err
	}
	return record, nil
}
