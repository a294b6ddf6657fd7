package xmlshape

import (
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/tidwall/btree"
)

var ErrShapeUnknown = errors.New("shape unknown")
var ErrShapeAlreadyRegistered = errors.New("shape already registered")

const castPanic = "how could registry item not be of type *Shape"

type FieldKind string

const (
	Text    FieldKind = "text"
	Integer FieldKind = "integer"
)

type Field struct {
	Name string
	Kind FieldKind
}

// Shape describes one record shape. Name is also the XML root element.
type Shape struct {
	Name         string
	Fields       []Field
	Serializable bool

	// New returns an empty instance to decode into.
	New func() interface{}

	// Prototype holds the fixed sample values.
	Prototype interface{}
}

func byName(a, b interface{}) bool {
	s1, s2 := a.(*Shape), b.(*Shape)
	return s1.Name < s2.Name
}

// Registry maps shape names to shapes.
type Registry struct {
	shapes *btree.BTree
}

func NewRegistry() *Registry {
	return &Registry{shapes: btree.NewNonConcurrent(byName)}
}

func (r *Registry) Register(s *Shape) error {
	if s == nil || s.Name == "" {
		return errors.Wrap(ErrShapeUnknown, "shape must have a name")
	}

	if r.shapes.Get(&Shape{Name: s.Name}) != nil {
		return errors.Wrapf(ErrShapeAlreadyRegistered, "shape %s", s.Name)
	}

	r.shapes.Set(s)
	return nil
}

func (r *Registry) MustRegister(shapes ...*Shape) {
	for _, s := range shapes {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
}

func (r *Registry) Lookup(name string) (*Shape, error) {
	found := r.shapes.Get(&Shape{Name: name})
	if found == nil {
		return nil, errors.Wrapf(ErrShapeUnknown, "shape %s", name)
	}

	s, ok := found.(*Shape)
	if !ok {
		panic(castPanic)
	}

	return s, nil
}

func (r *Registry) Len() int {
	return r.shapes.Len()
}

// Discover returns every shape marked serializable, ordered by name.
func (r *Registry) Discover() []*Shape {
	var result []*Shape
	r.shapes.Ascend(nil, func(i interface{}) bool {
		s, ok := i.(*Shape)
		if !ok {
			panic(castPanic)
		}

		if s.Serializable {
			result = append(result, s)
		}

		return true
	})

	return result
}

// Sample returns a fresh copy of the named shape's sample values, or
// false when the name is unknown.
func (r *Registry) Sample(name string) (interface{}, bool) {
	s, err := r.Lookup(name)
	if err != nil {
		return nil, false
	}

	return s.sample()
}

func (s *Shape) sample() (interface{}, bool) {
	if s.New == nil || s.Prototype == nil {
		return nil, false
	}

	dst := s.New()
	if err := copier.Copy(dst, s.Prototype); err != nil {
		panic("could not copy sample of " + s.Name + ": " + err.Error())
	}

	return dst, true
}

// ElementName is the root element expected in a document of this shape.
// Shapes not marked serializable have no element name.
func ElementName(s *Shape) string {
	if s == nil || !s.Serializable {
		return ""
	}

	return s.Name
}
