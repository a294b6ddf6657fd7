package storage

// Document is a single file-backed XML document.
type Document interface {
	Name() string
	Size() (int, error)
	Write(data interface{}) error
	WriteRaw(b []byte) error
	ReadRaw() ([]byte, error)
	Read(dest interface{}) error
	Close() error
}

// Opener opens a document at the given path.
type Opener func(path string, indent string) (Document, error)
