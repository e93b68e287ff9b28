// Package serializer converts tagged Go values to and from document trees.
//
// Struct members are persisted under the name given by their `fs` tag.
// Reading is lenient: members absent from the document keep their current
// value and are reported as warnings, unknown document keys are ignored.
package serializer

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/penwyp/go-funscripter/internal/core/document"
	"github.com/penwyp/go-funscripter/internal/util"
)

var nodeType = reflect.TypeOf((*document.Node)(nil))

// ErrUnsupported is wrapped by errors for Go kinds that have no document form.
var ErrUnsupported = errors.New("unsupported type")

// FieldError locates a failure inside a value.
type FieldError struct {
	Path string
	Err  error
}

func (e *FieldError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return e.Path + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error { return e.Err }

// RangeError reports a number that does not fit its destination.
type RangeError struct {
	Value string
	Type  reflect.Type
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("value %s out of range for %s", e.Value, e.Type)
}

// EnumError reports an enumeration value the destination type rejects.
type EnumError struct {
	Value int64
	Type  reflect.Type
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("%d is not a valid %s", e.Value, e.Type)
}

// Validator is implemented by enumeration types that know their legal values.
type Validator interface {
	Valid() bool
}

var validatorType = reflect.TypeOf((*Validator)(nil)).Elem()

// Serializer converts values using a shared schema cache.
type Serializer struct {
	logger util.LoggerInterface
}

// Option configures a Serializer.
type Option func(*Serializer)

// WithLogger routes missing-field warnings to l.
func WithLogger(l util.LoggerInterface) Option {
	return func(s *Serializer) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Serializer. Without a logger, warnings go to the global one.
func New(opts ...Option) *Serializer {
	s := &Serializer{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Serializer) log() util.LoggerInterface {
	return util.OrGlobal(s.logger)
}

var defaultSerializer = New()

// Serialize converts v with the default serializer.
func Serialize(v interface{}) (*document.Node, error) {
	return defaultSerializer.Serialize(v)
}

// Deserialize fills dst with the default serializer.
func Deserialize(dst interface{}, n *document.Node) error {
	return defaultSerializer.Deserialize(dst, n)
}

// DeserializeReport fills dst with the default serializer and returns the
// warnings raised on the way.
func DeserializeReport(dst interface{}, n *document.Node) (Report, error) {
	return defaultSerializer.DeserializeReport(dst, n)
}

// Serialize converts v into a document tree. On failure the returned tree
// still holds every member that could be written; the error joins all
// member failures.
func (s *Serializer) Serialize(v interface{}) (node *document.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("serialize %T: %v", v, r)
		}
	}()
	if v == nil {
		return document.Null(), nil
	}
	return s.encode(reflect.ValueOf(v), "")
}

func (s *Serializer) encode(v reflect.Value, path string) (*document.Node, error) {
	if v.Type() == nodeType {
		if v.IsNil() {
			return document.Null(), nil
		}
		return v.Interface().(*document.Node).Clone(), nil
	}

	switch k := v.Kind(); {
	case k == reflect.Bool:
		return document.Bool(v.Bool()), nil
	case isSigned(k):
		return document.Int(v.Int()), nil
	case isUnsigned(k):
		return document.Uint(v.Uint()), nil
	case k == reflect.Float32:
		f := v.Float()
		if n, err := document.Number(strconv.FormatFloat(f, 'g', -1, 32)); err == nil {
			return n, nil
		}
		return document.Float(f), nil
	case k == reflect.Float64:
		return document.Float(v.Float()), nil
	case k == reflect.String:
		return document.String(v.String()), nil
	case k == reflect.Ptr || k == reflect.Interface:
		if v.IsNil() {
			return document.Null(), nil
		}
		return s.encode(v.Elem(), path)
	case k == reflect.Struct:
		return s.encodeStruct(v, path)
	case k == reflect.Slice || k == reflect.Array:
		arr := document.Array()
		for i := 0; i < v.Len(); i++ {
			item, err := s.encode(v.Index(i), indexPath(path, i))
			if err != nil {
				return arr, err
			}
			arr.Append(item)
		}
		return arr, nil
	case k == reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, &FieldError{Path: path, Err: fmt.Errorf("%w: map key %s", ErrUnsupported, v.Type().Key())}
		}
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		obj := document.Object()
		var errs []error
		for _, key := range keys {
			child, err := s.encode(v.MapIndex(key), memberPath(path, key.String()))
			if err != nil {
				errs = append(errs, err)
			}
			obj.Set(key.String(), child)
		}
		return obj, errors.Join(errs...)
	}
	return nil, &FieldError{Path: path, Err: fmt.Errorf("%w: %s", ErrUnsupported, v.Type())}
}

func (s *Serializer) encodeStruct(v reflect.Value, path string) (*document.Node, error) {
	sc, err := schemaFor(v.Type())
	if err != nil {
		return nil, &FieldError{Path: path, Err: err}
	}
	obj := document.Object()
	var errs []error
	for _, f := range sc.fields {
		fv := v.FieldByIndex(f.index)
		fp := memberPath(path, f.name)
		if f.enum {
			// Enumerations are written as their underlying integer.
			if isSigned(fv.Kind()) {
				obj.Set(f.name, document.Int(fv.Int()))
			} else {
				obj.Set(f.name, document.Uint(fv.Uint()))
			}
			continue
		}
		child, err := s.encode(fv, fp)
		if err != nil {
			errs = append(errs, err)
		}
		obj.Set(f.name, child)
	}
	return obj, errors.Join(errs...)
}

func memberPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func indexPath(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}
