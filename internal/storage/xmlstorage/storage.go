package xmlstorage

import (
	"encoding/xml"
	"io"
	"os"

	"github.com/denismitr/xmlshape/internal/storage"
	"github.com/pkg/errors"
)

var ErrNotOpen = errors.New("xml storage file is not open")

// XMLStorage keeps one XML document in one file.
type XMLStorage struct {
	f      *os.File
	indent string
}

// Create truncates or creates the file at path for writing and reading.
func Create(path string, indent string) (*XMLStorage, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0666)
	if err != nil {
		return nil, errors.Wrapf(err, "could not create file %s", path)
	}

	return &XMLStorage{f: f, indent: indent}, nil
}

// Open opens an existing file at path for reading.
func Open(path string) (*XMLStorage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open file %s", path)
	}

	return &XMLStorage{f: f}, nil
}

// Opener adapts Create to storage.Opener.
func Opener(path string, indent string) (storage.Document, error) {
	s, err := Create(path, indent)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *XMLStorage) Name() string {
	if s.f == nil {
		return ""
	}
	return s.f.Name()
}

func (s *XMLStorage) Size() (int, error) {
	if s.f == nil {
		return 0, ErrNotOpen
	}

	var size int
	info, err := s.f.Stat()
	if err != nil {
		return 0, errors.Wrap(err, "could not measure file size")
	}

	size64 := info.Size()
	if int64(int(size64)) == size64 {
		size = int(size64)
	}

	return size, nil
}

// Write encodes data as an indented XML document preceded by the XML header.
func (s *XMLStorage) Write(data interface{}) error {
	b, err := xml.MarshalIndent(data, "", s.indent)
	if err != nil {
		return errors.Wrapf(err, "could not marshal data %+v", data)
	}

	buf := make([]byte, 0, len(xml.Header)+len(b))
	buf = append(buf, xml.Header...)
	buf = append(buf, b...)

	return s.WriteRaw(buf)
}

// WriteRaw replaces the file contents with b as is.
func (s *XMLStorage) WriteRaw(b []byte) error {
	if s.f == nil {
		return ErrNotOpen
	}

	if _, err := s.f.Seek(0, 0); err != nil {
		return errors.Wrapf(err, "could not seek the beginning of the file %s", s.f.Name())
	}

	if err := s.f.Truncate(0); err != nil {
		return errors.Wrapf(err, "could not truncate file %s", s.f.Name())
	}

	if _, err := s.f.Write(b); err != nil {
		return errors.Wrapf(err, "could not write to file %s", s.f.Name())
	}

	if err := s.f.Sync(); err != nil {
		return errors.Wrapf(err, "could not sync file %s", s.f.Name())
	}

	return nil
}

func (s *XMLStorage) ReadRaw() ([]byte, error) {
	if s.f == nil {
		return nil, ErrNotOpen
	}

	if _, err := s.f.Seek(0, 0); err != nil {
		return nil, errors.Wrapf(err, "could not seek the beginning of the file %s", s.f.Name())
	}

	size, err := s.Size()
	if err != nil {
		return nil, err
	}

	size++ // one byte for final read at EOF

	// If a file claims a small size, read at least 512 bytes.
	if size < 512 {
		size = 512
	}

	data := make([]byte, 0, size)
	for {
		if len(data) >= cap(data) {
			d := append(data[:cap(data)], 0)
			data = d[:len(data)]
		}
		n, err := s.f.Read(data[len(data):cap(data)])
		data = data[:len(data)+n]
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrapf(err, "could not read file %s", s.f.Name())
		}
	}

	return data, nil
}

// Read decodes the file contents into dest. The root element of the
// document must match the XMLName of dest.
func (s *XMLStorage) Read(dest interface{}) error {
	data, err := s.ReadRaw()
	if err != nil {
		return err
	}

	if err := xml.Unmarshal(data, dest); err != nil {
		return errors.Wrapf(err, "could not unmarshal %s", s.f.Name())
	}

	return nil
}

func (s *XMLStorage) Close() error {
	if s.f == nil {
		return nil
	}

	err := s.f.Close()
	s.f = nil
	if err != nil {
		return errors.Wrap(err, "could not close file")
	}

	return nil
}
