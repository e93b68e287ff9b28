package serializer

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// TagName is the struct tag read by the serializer:
//
//	Pos   int32     `fs:"pos"`
//	Mode  VideoMode `fs:"video_mode,enum"`
//	Cache []byte    `fs:"-"`
const TagName = "fs"

// field is one persisted member of a struct type.
type field struct {
	name   string // display name, used as the document key
	goName string
	index  []int
	typ    reflect.Type
	enum   bool
}

// schema is the member manifest of a struct type, built once per type.
type schema struct {
	typ    reflect.Type
	fields []field
}

var schemas sync.Map // reflect.Type -> *schema

// Register builds and caches the manifests of the given values' struct types
// (and every struct type reachable from them), so tag mistakes surface at
// startup instead of on the first save.
func Register(values ...interface{}) error {
	for _, v := range values {
		t := reflect.TypeOf(v)
		if t == nil {
			return fmt.Errorf("register: nil value")
		}
		if err := registerType(t, map[reflect.Type]bool{}); err != nil {
			return fmt.Errorf("register %s: %w", t, err)
		}
	}
	return nil
}

func registerType(t reflect.Type, seen map[reflect.Type]bool) error {
	for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice || t.Kind() == reflect.Array || t.Kind() == reflect.Map {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t == nodeType.Elem() || seen[t] {
		return nil
	}
	seen[t] = true
	s, err := schemaFor(t)
	if err != nil {
		return err
	}
	for _, f := range s.fields {
		if err := registerType(f.typ, seen); err != nil {
			return err
		}
	}
	return nil
}

func schemaFor(t reflect.Type) (*schema, error) {
	if cached, ok := schemas.Load(t); ok {
		return cached.(*schema), nil
	}
	s := &schema{typ: t}
	if err := collectFields(t, nil, s); err != nil {
		return nil, err
	}
	seen := make(map[string]string, len(s.fields))
	for _, f := range s.fields {
		if prev, dup := seen[f.name]; dup {
			return nil, fmt.Errorf("%s: fields %s and %s share the name %q", t, prev, f.goName, f.name)
		}
		seen[f.name] = f.goName
	}
	actual, _ := schemas.LoadOrStore(t, s)
	return actual.(*schema), nil
}

func collectFields(t reflect.Type, prefix []int, s *schema) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, hasTag := sf.Tag.Lookup(TagName)
		name, opts := parseTag(tag)
		if name == "-" && opts == "" {
			continue
		}

		index := make([]int, len(prefix)+1)
		copy(index, prefix)
		index[len(prefix)] = i

		// Untagged embedded structs are flattened into the parent.
		if sf.Anonymous && !hasTag && sf.Type.Kind() == reflect.Struct {
			if err := collectFields(sf.Type, index, s); err != nil {
				return err
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}

		f := field{
			name:   name,
			goName: sf.Name,
			index:  index,
			typ:    sf.Type,
		}
		if f.name == "" {
			f.name = sf.Name
		}
		for _, opt := range strings.Split(opts, ",") {
			switch strings.TrimSpace(opt) {
			case "":
			case "enum":
				if !isInteger(sf.Type.Kind()) {
					return fmt.Errorf("%s.%s: enum option requires an integer type, got %s", t, sf.Name, sf.Type)
				}
				f.enum = true
			default:
				return fmt.Errorf("%s.%s: unknown %s tag option %q", t, sf.Name, TagName, opt)
			}
		}
		s.fields = append(s.fields, f)
	}
	return nil
}

func parseTag(tag string) (name, opts string) {
	if idx := strings.Index(tag, ","); idx >= 0 {
		return tag[:idx], tag[idx+1:]
	}
	return tag, ""
}

func isInteger(k reflect.Kind) bool {
	return isSigned(k) || isUnsigned(k)
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}
