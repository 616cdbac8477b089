// Package bridge maps Go struct values to and from avrow's Value model.
// It is a peripheral convenience layer: the core value/schema/codec/OCF
// machinery works entirely in terms of avrow.Value and never imports
// this package.
//
// Field matching generalizes a reflect-based strings.Title(fieldName)
// struct-field lookup into an explicit `avrow:"fieldname"` struct tag
// instead of titlecase guessing, with github.com/ettle/strcase supplying
// the field-name fallback when no tag is present (Go's exported
// PascalCase field names are converted to snake_case).
package bridge

import (
	"fmt"
	"reflect"

	"github.com/ettle/strcase"

	"github.com/creativcoder/avrow"
)

// Bridge converts between a host-language native value and avrow's Value
// model (`to_value(native) -> Value` and `from_value(Value) -> native`).
type Bridge interface {
	ToValue(native any) (avrow.Value, error)
	FromValue(v avrow.Value, target any) error
}

// StructBridge is the default Bridge implementation: it maps a Go struct's
// exported fields to a RecordVariant's fields by `avrow` tag, falling back
// to a snake_case conversion of the field name via strcase when no tag is
// present. A byte slice becomes Bytes or Fixed according to the field's
// resolved schema type (both surface in Go as a sequence of 8-bit
// integers). FixedFields adds a check on top of that: a field listed there
// whose schema type is bytes is rejected instead of converted.
type StructBridge struct {
	Record      *avrow.RecordVariant
	Registry    *avrow.Registry
	FixedFields map[string]bool
}

// NewStructBridge builds a StructBridge for record, resolved through reg.
func NewStructBridge(record *avrow.RecordVariant, reg *avrow.Registry) *StructBridge {
	return &StructBridge{Record: record, Registry: reg, FixedFields: map[string]bool{}}
}

// fieldName returns the Avro field name a struct field maps to: its
// `avrow` tag value if present, else strcase.ToSnake of the Go field name.
func fieldName(f reflect.StructField) string {
	if tag, ok := f.Tag.Lookup("avrow"); ok && tag != "" && tag != "-" {
		return tag
	}
	return strcase.ToSnake(f.Name)
}

// ToValue converts a struct (or pointer to struct) into a Record Value
// shaped by b.Record.
func (b *StructBridge) ToValue(native any) (avrow.Value, error) {
	rv := reflect.ValueOf(native)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return avrow.Value{}, fmt.Errorf("avrow/bridge: cannot convert nil pointer")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return avrow.Value{}, fmt.Errorf("avrow/bridge: ToValue requires a struct, got %s", rv.Kind())
	}

	byAvroName := make(map[string]reflect.Value, rv.NumField())
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.PkgPath != "" {
			continue // unexported
		}
		if tag := sf.Tag.Get("avrow"); tag == "-" {
			continue
		}
		byAvroName[fieldName(sf)] = rv.Field(i)
	}

	rec := avrow.NewRecordValue(b.Record.Name.FullName())
	for _, f := range b.Record.Fields {
		sv, ok := byAvroName[f.Name]
		if !ok {
			if !f.HasDefault {
				return avrow.Value{}, fmt.Errorf("avrow/bridge: no struct field maps to avro field %q", f.Name)
			}
			if err := rec.Insert(f.Name, f.Default); err != nil {
				return avrow.Value{}, err
			}
			continue
		}
		v, err := b.toFieldValue(f.Name, f.Type, sv)
		if err != nil {
			return avrow.Value{}, fmt.Errorf("avrow/bridge: field %q: %w", f.Name, err)
		}
		if err := rec.Insert(f.Name, v); err != nil {
			return avrow.Value{}, err
		}
	}
	return avrow.NewRecord(rec), nil
}

func (b *StructBridge) toFieldValue(name string, variant avrow.Variant, sv reflect.Value) (avrow.Value, error) {
	resolved, err := avrow.Resolve(variant, b.Registry)
	if err != nil {
		return avrow.Value{}, err
	}

	switch resolved.Type() {
	case avrow.Null:
		return avrow.NewNull(), nil
	case avrow.Boolean:
		return avrow.NewBoolean(sv.Bool()), nil
	case avrow.Int:
		return avrow.NewInt(int32(sv.Int())), nil
	case avrow.Long:
		return avrow.NewLong(sv.Int()), nil
	case avrow.Float:
		return avrow.NewFloat(float32(sv.Float())), nil
	case avrow.Double:
		return avrow.NewDouble(sv.Float()), nil
	case avrow.String:
		return avrow.NewString(sv.String()), nil
	case avrow.Bytes:
		if b.FixedFields[name] {
			fv, ok := resolved.(*avrow.FixedVariant)
			if !ok {
				return avrow.Value{}, fmt.Errorf("field marked fixed but schema is %s", resolved)
			}
			return avrow.NewFixed(fv.Name.FullName(), sv.Bytes()), nil
		}
		return avrow.NewBytes(sv.Bytes()), nil
	case avrow.Fixed:
		fv := resolved.(*avrow.FixedVariant)
		return avrow.NewFixed(fv.Name.FullName(), sv.Bytes()), nil
	case avrow.Enum:
		ev := resolved.(*avrow.EnumVariant)
		return avrow.NewEnum(ev.Name.FullName(), sv.String()), nil
	case avrow.Array:
		av := resolved.(*avrow.ArrayVariant)
		items := make([]avrow.Value, sv.Len())
		for i := 0; i < sv.Len(); i++ {
			iv, err := b.toFieldValue(name, av.Items, sv.Index(i))
			if err != nil {
				return avrow.Value{}, err
			}
			items[i] = iv
		}
		return avrow.NewArray(items), nil
	case avrow.Map:
		mv := resolved.(*avrow.MapVariant)
		out := make(map[string]avrow.Value, sv.Len())
		iter := sv.MapRange()
		for iter.Next() {
			ev, err := b.toFieldValue(name, mv.Values, iter.Value())
			if err != nil {
				return avrow.Value{}, err
			}
			out[iter.Key().String()] = ev
		}
		return avrow.NewMap(out), nil
	case avrow.Record:
		nested := NewStructBridge(resolved.(*avrow.RecordVariant), b.Registry)
		return nested.ToValue(sv.Interface())
	default:
		return avrow.Value{}, fmt.Errorf("avrow/bridge: unsupported field shape %s", resolved)
	}
}

// FromValue decodes a Record Value into target, which must be a non-nil
// pointer to a struct matching b.Record's shape.
func (b *StructBridge) FromValue(v avrow.Value, target any) error {
	rec, err := v.AsRecord()
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("avrow/bridge: FromValue requires a non-nil pointer, got %T", target)
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("avrow/bridge: FromValue target must point to a struct, got %s", rv.Kind())
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		if tag := sf.Tag.Get("avrow"); tag == "-" {
			continue
		}
		name := fieldName(sf)
		fv, ok := rec.Get(name)
		if !ok {
			continue
		}
		if err := setFieldValue(rv.Field(i), fv); err != nil {
			return fmt.Errorf("avrow/bridge: field %q: %w", name, err)
		}
	}
	return nil
}

func setFieldValue(dst reflect.Value, v avrow.Value) error {
	switch v.Tag() {
	case avrow.Null:
		return nil
	case avrow.Boolean:
		b, _ := v.AsBool()
		dst.SetBool(b)
	case avrow.Int:
		i, _ := v.AsInt()
		dst.SetInt(int64(i))
	case avrow.Long:
		i, _ := v.AsLong()
		dst.SetInt(i)
	case avrow.Float:
		f, _ := v.AsFloat()
		dst.SetFloat(float64(f))
	case avrow.Double:
		f, _ := v.AsDouble()
		dst.SetFloat(f)
	case avrow.String:
		s, _ := v.AsString()
		dst.SetString(s)
	case avrow.Bytes:
		b, _ := v.AsBytes()
		dst.SetBytes(b)
	case avrow.Fixed:
		_, b, _ := v.AsFixed()
		dst.SetBytes(b)
	case avrow.Enum:
		_, sym, _ := v.AsEnum()
		dst.SetString(sym)
	case avrow.Array:
		items, _ := v.AsArray()
		slice := reflect.MakeSlice(dst.Type(), len(items), len(items))
		for i, item := range items {
			if err := setFieldValue(slice.Index(i), item); err != nil {
				return err
			}
		}
		dst.Set(slice)
	case avrow.Map:
		m, _ := v.AsMap()
		out := reflect.MakeMapWithSize(dst.Type(), len(m))
		for k, mv := range m {
			elem := reflect.New(dst.Type().Elem()).Elem()
			if err := setFieldValue(elem, mv); err != nil {
				return err
			}
			out.SetMapIndex(reflect.ValueOf(k), elem)
		}
		dst.Set(out)
	case avrow.Union:
		_, inner, _ := v.AsUnion()
		return setFieldValue(dst, inner)
	case avrow.Record:
		if dst.Kind() == reflect.Ptr {
			dst.Set(reflect.New(dst.Type().Elem()))
			dst = dst.Elem()
		}
		rec, _ := v.AsRecord()
		for _, name := range rec.Fields() {
			fv, _ := rec.Get(name)
			target := dst.FieldByNameFunc(func(n string) bool { return strcase.ToSnake(n) == name })
			if target.IsValid() {
				if err := setFieldValue(target, fv); err != nil {
					return err
				}
			}
		}
	default:
		return fmt.Errorf("unsupported value tag %s", v.Tag())
	}
	return nil
}
