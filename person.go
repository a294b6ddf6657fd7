package xmlshape

import "encoding/xml"

// PersonV1 is the first version of a person record.
type PersonV1 struct {
	XMLName   xml.Name `xml:"PersonV1" json:"-"`
	FirstName string   `json:"FirstName"`
	LastName  string   `json:"LastName"`
}

// PersonV2 adds Age to PersonV1.
type PersonV2 struct {
	XMLName   xml.Name `xml:"PersonV2" json:"-"`
	FirstName string   `json:"FirstName"`
	LastName  string   `json:"LastName"`
	Age       int      `json:"Age"`
}

var nameFields = []Field{
	{Name: "FirstName", Kind: Text},
	{Name: "LastName", Kind: Text},
}

func PersonV1Shape() *Shape {
	return &Shape{
		Name:         "PersonV1",
		Fields:       nameFields,
		Serializable: true,
		New:          func() interface{} { return &PersonV1{} },
		Prototype:    &PersonV1{FirstName: "John", LastName: "Doe"},
	}
}

func PersonV2Shape() *Shape {
	return &Shape{
		Name:         "PersonV2",
		Fields:       append(append([]Field{}, nameFields...), Field{Name: "Age", Kind: Integer}),
		Serializable: true,
		New:          func() interface{} { return &PersonV2{} },
		Prototype:    &PersonV2{FirstName: "Jane", LastName: "Smith", Age: 30},
	}
}

// DefaultRegistry holds both person shapes.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(PersonV1Shape(), PersonV2Shape())
	return r
}
