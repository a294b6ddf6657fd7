package xmlshape

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

var ErrFieldInvalid = errors.New("field is invalid")

// FieldValue is one decoded field, rendered as text.
type FieldValue struct {
	Name  string
	Value string
}

// Result is the outcome of decoding one document: either the decoded
// field values or the error that prevented decoding.
type Result struct {
	shape  *Shape
	values []byte
	err    error
}

func newErrorResult(s *Shape, err error) *Result {
	return &Result{shape: s, err: err}
}

func newSuccessResult(s *Shape, decoded interface{}) *Result {
	b, err := json.Marshal(decoded)
	if err != nil {
		return newErrorResult(s, errors.Wrapf(err, "could not build field view of %s", s.Name))
	}

	return &Result{shape: s, values: b}
}

func (r *Result) Shape() string {
	if r.shape == nil {
		return ""
	}
	return r.shape.Name
}

func (r *Result) Err() error {
	return r.err
}

func (r *Result) OK() bool {
	return r.err == nil
}

func (r *Result) String(field string) (string, error) {
	if r.err != nil {
		return "", r.err
	}

	get := gjson.GetBytes(r.values, field)
	if !get.Exists() {
		return "", errors.Wrapf(ErrFieldInvalid, "field %s", field)
	}
	return get.String(), nil
}

func (r *Result) StringOrDefault(field, def string) string {
	if v, err := r.String(field); err != nil {
		return def
	} else {
		return v
	}
}

func (r *Result) Int(field string) (int, error) {
	if r.err != nil {
		return 0, r.err
	}

	get := gjson.GetBytes(r.values, field)
	if !get.Exists() {
		return 0, errors.Wrapf(ErrFieldInvalid, "field %s", field)
	}
	return int(get.Int()), nil
}

func (r *Result) IntOrDefault(field string, def int) int {
	if v, err := r.Int(field); err != nil {
		return def
	} else {
		return v
	}
}

// Fields lists the decoded values in the shape's field order.
func (r *Result) Fields() []FieldValue {
	if r.err != nil || r.shape == nil {
		return nil
	}

	result := make([]FieldValue, 0, len(r.shape.Fields))
	for _, f := range r.shape.Fields {
		result = append(result, FieldValue{Name: f.Name, Value: r.StringOrDefault(f.Name, "")})
	}

	return result
}
