package xmlshape

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/denismitr/xmlshape/internal/storage"
	"github.com/denismitr/xmlshape/internal/storage/xmlstorage"
	"github.com/pkg/errors"
)

var ErrMetadataValidationFailed = errors.New("metadata validation failed")
var ErrXMLCouldNotBeUnmarshalled = errors.New("xml contents could not be unmarshalled")
var ErrFileWriteFailed = errors.New("file write failed")
var ErrFileReadFailed = errors.New("file read failed")

const invalidDocument = "<InvalidRootElement>...</InvalidRootElement>"

type Processor struct {
	reg    *Registry
	out    io.Writer
	cfg    *Config
	log    *slog.Logger
	create storage.Opener
}

// New builds a processor printing to out. Only the first config is used.
func New(reg *Registry, out io.Writer, cfgs ...*Config) (*Processor, error) {
	p := &Processor{reg: reg, out: out, create: xmlstorage.Opener}

	cfg := &Config{}
	if len(cfgs) > 0 && cfgs[0] != nil {
		cfg = cfgs[0]
	}

	if err := cfg.applyTo(p); err != nil {
		return nil, err
	}

	return p, nil
}

// SerializedFile is where Serialize writes the document of s.
func (p *Processor) SerializedFile(s *Shape) string {
	return filepath.Join(p.cfg.Dir, p.cfg.FilePrefix+s.Name+".xml")
}

// InvalidFile is where DeserializeInvalidVersion writes its broken document.
func (p *Processor) InvalidFile(s *Shape) string {
	return filepath.Join(p.cfg.Dir, p.cfg.FilePrefix+s.Name+"_invalid.xml")
}

// Run processes every serializable shape in the registry.
func (p *Processor) Run() error {
	shapes := p.reg.Discover()
	p.log.Debug("discovered shapes", slog.Int("count", len(shapes)))

	for _, s := range shapes {
		if err := p.ProcessShape(s); err != nil {
			return err
		}
		p.println()
	}

	return nil
}

func (p *Processor) ProcessShape(s *Shape) error {
	if _, _, err := p.Serialize(s); err != nil {
		return err
	}

	p.Deserialize(s)
	p.DeserializeInvalidVersion(s)
	p.println()

	return nil
}

// Serialize writes the sample of s and returns the file path together
// with a checksum of the written bytes.
func (p *Processor) Serialize(s *Shape) (string, uint64, error) {
	instance, ok := p.sendValues(s)
	if !ok {
		return "", 0, errors.Wrapf(ErrShapeUnknown, "no sample values for %s", s.Name)
	}

	path := p.SerializedFile(s)
	doc, err := p.create(path, p.cfg.Indent)
	if err != nil {
		return "", 0, errors.Wrap(ErrFileWriteFailed, err.Error())
	}

	defer func() {
		if err := doc.Close(); err != nil {
			p.log.Warn("could not close document", slog.String("file", path), slog.Any("err", err))
		}
	}()

	if err := doc.Write(instance); err != nil {
		return "", 0, errors.Wrap(ErrFileWriteFailed, err.Error())
	}

	raw, err := doc.ReadRaw()
	if err != nil {
		return "", 0, errors.Wrap(ErrFileReadFailed, err.Error())
	}

	sum := xxhash.Sum64(raw)
	p.log.Debug("serialized",
		slog.String("shape", s.Name),
		slog.String("file", path),
		slog.Uint64("checksum", sum),
	)

	p.printf("Serialized %s to %s\n", s.Name, filepath.Base(path))
	return path, sum, nil
}

func (p *Processor) sendValues(s *Shape) (interface{}, bool) {
	instance, ok := s.sample()
	if !ok {
		return nil, false
	}

	p.printf("Sending values for %s\n", s.Name)
	return instance, true
}

// Deserialize reads back the document written by Serialize and prints its
// fields. A document failing ValidateMetadata is not parsed.
func (p *Processor) Deserialize(s *Shape) *Result {
	path := p.SerializedFile(s)

	raw, err := readRaw(path)
	if err != nil {
		p.log.Error("could not read document", slog.String("file", path), slog.Any("err", err))
		p.printf("Could not read %s: %v\n", filepath.Base(path), err)
		return newErrorResult(s, errors.Wrap(ErrFileReadFailed, err.Error()))
	}

	if !ValidateMetadata(s, string(raw)) {
		p.printf("Metadata validation failed for %s. Skipping deserialization.\n", s.Name)
		return newErrorResult(s, errors.Wrapf(ErrMetadataValidationFailed, "element %s not found", ElementName(s)))
	}

	res := decode(s, path)
	if !res.OK() {
		p.log.Error("could not deserialize", slog.String("shape", s.Name), slog.Any("err", res.Err()))
		p.printf("Error while deserializing %s: %v\n", s.Name, res.Err())
		return res
	}

	p.printf("Deserialized values for %s:\n", s.Name)
	for _, f := range res.Fields() {
		p.printf("%s: %s\n", f.Name, f.Value)
	}

	return res
}

// DeserializeInvalidVersion writes a document with the wrong root element
// and reports the error raised while decoding it as s.
func (p *Processor) DeserializeInvalidVersion(s *Shape) *Result {
	path := p.InvalidFile(s)

	if err := p.writeRaw(path, []byte(invalidDocument)); err != nil {
		p.log.Error("could not write invalid document", slog.String("file", path), slog.Any("err", err))
		return newErrorResult(s, err)
	}

	p.printf("Attempt to deserialize an invalid version of %s...\n", s.Name)

	res := decode(s, path)
	if !res.OK() {
		p.printf("Error while deserializing invalid version: %v\n", res.Err())
	}

	return res
}

// ValidateMetadata reports whether the element name expected for s occurs
// anywhere in content. It does not parse the document.
func ValidateMetadata(s *Shape, content string) bool {
	return strings.Contains(content, ElementName(s))
}

func (p *Processor) writeRaw(path string, b []byte) error {
	doc, err := p.create(path, p.cfg.Indent)
	if err != nil {
		return errors.Wrap(ErrFileWriteFailed, err.Error())
	}

	defer doc.Close()

	if err := doc.WriteRaw(b); err != nil {
		return errors.Wrap(ErrFileWriteFailed, err.Error())
	}

	return nil
}

func readRaw(path string) ([]byte, error) {
	doc, err := xmlstorage.Open(path)
	if err != nil {
		return nil, err
	}

	defer doc.Close()

	return doc.ReadRaw()
}

func decode(s *Shape, path string) *Result {
	if s.New == nil {
		return newErrorResult(s, errors.Wrapf(ErrShapeUnknown, "shape %s cannot be instantiated", s.Name))
	}

	doc, err := xmlstorage.Open(path)
	if err != nil {
		return newErrorResult(s, errors.Wrap(ErrFileReadFailed, err.Error()))
	}

	defer doc.Close()

	dst := s.New()
	if err := doc.Read(dst); err != nil {
		return newErrorResult(s, errors.Wrap(ErrXMLCouldNotBeUnmarshalled, err.Error()))
	}

	return newSuccessResult(s, dst)
}

func (p *Processor) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

func (p *Processor) println() {
	_, _ = fmt.Fprintln(p.out)
}
