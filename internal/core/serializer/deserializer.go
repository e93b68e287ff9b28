package serializer

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/penwyp/go-funscripter/internal/core/document"
)

// Report collects the non-fatal findings of a read.
type Report struct {
	// Missing lists the paths of members absent from the document.
	Missing []string
	// Unknown lists document keys that matched no member.
	Unknown []string
}

// HasWarnings reports whether anything was missing.
func (r Report) HasWarnings() bool {
	return len(r.Missing) > 0
}

// Deserialize fills the value dst points to from n.
func (s *Serializer) Deserialize(dst interface{}, n *document.Node) error {
	_, err := s.DeserializeReport(dst, n)
	return err
}

// DeserializeReport fills the value dst points to from n. Members that fail
// are left as they were and their errors are joined; sibling members are
// still read. Sequences stop at their first failing element.
func (s *Serializer) DeserializeReport(dst interface{}, n *document.Node) (rep Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("deserialize into %T: %v", dst, r)
		}
	}()
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return rep, fmt.Errorf("deserialize: destination must be a non-nil pointer, got %T", dst)
	}
	err = s.decode(rv.Elem(), n, "", &rep)
	return rep, err
}

func (s *Serializer) decode(v reflect.Value, n *document.Node, path string, rep *Report) error {
	if v.Type() == nodeType {
		v.Set(reflect.ValueOf(n.Clone()))
		return nil
	}

	wrap := func(err error) error {
		if err == nil {
			return nil
		}
		var fe *FieldError
		if errors.As(err, &fe) {
			return err
		}
		return &FieldError{Path: path, Err: err}
	}

	switch k := v.Kind(); {
	case k == reflect.Ptr:
		if n.IsNull() {
			v.Set(reflect.Zero(v.Type()))
			return nil
		}
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return s.decode(v.Elem(), n, path, rep)
	case k == reflect.Interface:
		if v.NumMethod() != 0 {
			return wrap(fmt.Errorf("%w: %s", ErrUnsupported, v.Type()))
		}
		plain, err := toInterface(n)
		if err != nil {
			return wrap(err)
		}
		if plain == nil {
			v.Set(reflect.Zero(v.Type()))
		} else {
			v.Set(reflect.ValueOf(plain))
		}
		return nil
	case k == reflect.Bool:
		b, err := n.AsBool()
		if err != nil {
			return wrap(err)
		}
		v.SetBool(b)
		return nil
	case isSigned(k):
		i, err := n.AsInt64()
		if err != nil {
			return wrap(err)
		}
		if v.OverflowInt(i) {
			return wrap(&RangeError{Value: n.String(), Type: v.Type()})
		}
		v.SetInt(i)
		return nil
	case isUnsigned(k):
		u, err := n.AsUint64()
		if err != nil {
			return wrap(err)
		}
		if v.OverflowUint(u) {
			return wrap(&RangeError{Value: n.String(), Type: v.Type()})
		}
		v.SetUint(u)
		return nil
	case k == reflect.Float32 || k == reflect.Float64:
		// Null is how non-finite floats are written.
		if n.IsNull() {
			v.SetFloat(math.NaN())
			return nil
		}
		f, err := n.AsFloat64()
		if err != nil {
			return wrap(err)
		}
		if v.OverflowFloat(f) {
			return wrap(&RangeError{Value: n.String(), Type: v.Type()})
		}
		v.SetFloat(f)
		return nil
	case k == reflect.String:
		str, err := n.AsString()
		if err != nil {
			return wrap(err)
		}
		v.SetString(str)
		return nil
	case k == reflect.Struct:
		return s.decodeStruct(v, n, path, rep)
	case k == reflect.Slice:
		if n.IsNull() {
			v.Set(reflect.Zero(v.Type()))
			return nil
		}
		if n.Kind() != document.KindArray {
			return wrap(&document.ShapeError{Want: document.KindArray, Got: n.Kind()})
		}
		v.Set(reflect.MakeSlice(v.Type(), 0, n.Len()))
		for i, item := range n.Items() {
			v.Set(reflect.Append(v, reflect.Zero(v.Type().Elem())))
			if err := s.decode(v.Index(i), item, indexPath(path, i), rep); err != nil {
				return err
			}
		}
		return nil
	case k == reflect.Array:
		if n.Kind() != document.KindArray {
			return wrap(&document.ShapeError{Want: document.KindArray, Got: n.Kind()})
		}
		for i, item := range n.Items() {
			if i >= v.Len() {
				return wrap(fmt.Errorf("%d elements do not fit %s", n.Len(), v.Type()))
			}
			if err := s.decode(v.Index(i), item, indexPath(path, i), rep); err != nil {
				return err
			}
		}
		return nil
	case k == reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return wrap(fmt.Errorf("%w: map key %s", ErrUnsupported, v.Type().Key()))
		}
		if n.IsNull() {
			v.Set(reflect.Zero(v.Type()))
			return nil
		}
		if n.Kind() != document.KindObject {
			return wrap(&document.ShapeError{Want: document.KindObject, Got: n.Kind()})
		}
		m := reflect.MakeMapWithSize(v.Type(), n.Len())
		var errs []error
		for _, member := range n.Members() {
			elem := reflect.New(v.Type().Elem()).Elem()
			if err := s.decode(elem, member.Value, memberPath(path, member.Key), rep); err != nil {
				errs = append(errs, err)
				continue
			}
			m.SetMapIndex(reflect.ValueOf(member.Key).Convert(v.Type().Key()), elem)
		}
		v.Set(m)
		return errors.Join(errs...)
	}
	return wrap(fmt.Errorf("%w: %s", ErrUnsupported, v.Type()))
}

func (s *Serializer) decodeStruct(v reflect.Value, n *document.Node, path string, rep *Report) error {
	sc, err := schemaFor(v.Type())
	if err != nil {
		return &FieldError{Path: path, Err: err}
	}
	if n.Kind() != document.KindObject {
		return &FieldError{Path: path, Err: &document.ShapeError{Want: document.KindObject, Got: n.Kind()}}
	}

	known := make(map[string]struct{}, len(sc.fields))
	var errs []error
	for _, f := range sc.fields {
		known[f.name] = struct{}{}
		fp := memberPath(path, f.name)
		child, ok := n.Get(f.name)
		if !ok {
			rep.Missing = append(rep.Missing, fp)
			s.log().Warnf("The field %q was not found.", fp)
			continue
		}
		fv := v.FieldByIndex(f.index)
		if f.enum {
			if err := decodeEnum(fv, child); err != nil {
				errs = append(errs, &FieldError{Path: fp, Err: err})
			}
			continue
		}
		if err := s.decode(fv, child, fp, rep); err != nil {
			errs = append(errs, err)
		}
	}

	for _, key := range n.Keys() {
		if _, ok := known[key]; !ok {
			fp := memberPath(path, key)
			rep.Unknown = append(rep.Unknown, fp)
			s.log().Debugf("Ignoring unknown field %q.", fp)
		}
	}
	return errors.Join(errs...)
}

// decodeEnum reads the underlying integer of an enumeration and, when the
// type can validate itself, rejects values outside its range. The
// destination only changes on success.
func decodeEnum(fv reflect.Value, n *document.Node) error {
	tmp := reflect.New(fv.Type()).Elem()
	if isSigned(fv.Kind()) {
		i, err := n.AsInt64()
		if err != nil {
			return err
		}
		if tmp.OverflowInt(i) {
			return &RangeError{Value: n.String(), Type: fv.Type()}
		}
		tmp.SetInt(i)
	} else {
		u, err := n.AsUint64()
		if err != nil {
			return err
		}
		if tmp.OverflowUint(u) {
			return &RangeError{Value: n.String(), Type: fv.Type()}
		}
		tmp.SetUint(u)
	}

	if fv.Type().Implements(validatorType) {
		if !tmp.Interface().(Validator).Valid() {
			raw, _ := n.AsInt64()
			return &EnumError{Value: raw, Type: fv.Type()}
		}
	}
	fv.Set(tmp)
	return nil
}

// toInterface converts n into plain Go values: map[string]interface{},
// []interface{}, int64 or float64, string, bool and nil.
func toInterface(n *document.Node) (interface{}, error) {
	switch n.Kind() {
	case document.KindNull:
		return nil, nil
	case document.KindBool:
		return n.AsBool()
	case document.KindNumber:
		if i, err := n.AsInt64(); err == nil {
			return i, nil
		}
		return n.AsFloat64()
	case document.KindString:
		return n.AsString()
	case document.KindArray:
		out := make([]interface{}, 0, n.Len())
		for _, item := range n.Items() {
			v, err := toInterface(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case document.KindObject:
		out := make(map[string]interface{}, n.Len())
		for _, m := range n.Members() {
			v, err := toInterface(m.Value)
			if err != nil {
				return nil, err
			}
			out[m.Key] = v
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown node kind %s", n.Kind())
}
