// Package fieldpath resolves dot-separated paths such as
// "deepPhenotype.functionalStatus.physicalFunction" against a participant.
//
// Path segments match JSON field names. A first segment that names no participant
// field addresses the participant's derived values, so "score" and
// "derivedValues.score" are the same location.
package fieldpath

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"qisim/domain/cohort"
	"qisim/domain/core"
)

const derivedKey = "derivedValues"

var fieldIndexCache sync.Map // reflect.Type -> map[string]int

func jsonFieldIndex(t reflect.Type) map[string]int {
	if cached, ok := fieldIndexCache.Load(t); ok {
		return cached.(map[string]int)
	}
	idx := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := strings.Split(f.Tag.Get("json"), ",")[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		idx[name] = i
	}
	fieldIndexCache.Store(t, idx)
	return idx
}

func split(path string) ([]string, error) {
	key, err := core.ParseFieldKey(path)
	if err != nil {
		return nil, err
	}
	return key.Segments(), nil
}

// Resolve returns the numeric value at path. Missing, nil, NaN and non-numeric values
// report ok == false.
func Resolve(p *cohort.Participant, path string) (float64, bool) {
	if p == nil {
		return 0, false
	}
	segs, err := split(path)
	if err != nil {
		return 0, false
	}

	root := reflect.ValueOf(p).Elem()
	if _, known := jsonFieldIndex(root.Type())[segs[0]]; !known {
		return resolveMap(p.Derived, segs)
	}

	v := root
	for _, seg := range segs {
		next, ok := step(v, seg)
		if !ok {
			return 0, false
		}
		v = next
	}
	return numeric(v)
}

// step moves one segment deeper, dereferencing pointers and interfaces on the way
func step(v reflect.Value, seg string) (reflect.Value, bool) {
	v, ok := deref(v)
	if !ok {
		return reflect.Value{}, false
	}
	switch v.Kind() {
	case reflect.Struct:
		i, found := jsonFieldIndex(v.Type())[seg]
		if !found {
			return reflect.Value{}, false
		}
		return v.Field(i), true
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		elem := v.MapIndex(reflect.ValueOf(seg).Convert(v.Type().Key()))
		return elem, elem.IsValid()
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= v.Len() {
			return reflect.Value{}, false
		}
		return v.Index(i), true
	default:
		return reflect.Value{}, false
	}
}

func deref(v reflect.Value) (reflect.Value, bool) {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, v.IsValid()
}

func numeric(v reflect.Value) (float64, bool) {
	v, ok := deref(v)
	if !ok {
		return 0, false
	}
	var f float64
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		f = v.Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f = float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		f = float64(v.Uint())
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func resolveMap(m map[string]interface{}, segs []string) (float64, bool) {
	var cur interface{} = m
	for _, seg := range segs {
		node, ok := cur.(map[string]interface{})
		if !ok {
			return 0, false
		}
		cur, ok = node[seg]
		if !ok {
			return 0, false
		}
	}
	return numeric(reflect.ValueOf(cur))
}

// CheckAssignable reports whether Assign can write to path. Paths into derived values are
// always assignable; paths into participant fields must end on a numeric field.
func CheckAssignable(path string) error {
	segs, err := split(path)
	if err != nil {
		return err
	}
	if len(segs) == 1 && segs[0] == derivedKey {
		return fmt.Errorf("%w: %s names the derived container, not a value", core.ErrUnknownField, path)
	}
	t := reflect.TypeOf(cohort.Participant{})
	if _, known := jsonFieldIndex(t)[segs[0]]; !known || segs[0] == derivedKey {
		return nil
	}
	for _, seg := range segs {
		for t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct {
			return fmt.Errorf("%w: %s does not address a numeric field", core.ErrUnknownField, path)
		}
		i, found := jsonFieldIndex(t)[seg]
		if !found {
			return fmt.Errorf("%w: %s has no segment %q", core.ErrUnknownField, path, seg)
		}
		t = t.Field(i).Type
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return nil
	}
	return fmt.Errorf("%w: %s is not numeric", core.ErrUnknownField, path)
}

// Assign writes value at path on p, allocating nil structs and nested derived maps as
// needed. Integer fields receive the rounded value.
func Assign(p *cohort.Participant, path string, value float64) error {
	if err := CheckAssignable(path); err != nil {
		return err
	}
	segs, _ := split(path)

	root := reflect.ValueOf(p).Elem()
	if _, known := jsonFieldIndex(root.Type())[segs[0]]; !known || segs[0] == derivedKey {
		if segs[0] == derivedKey {
			segs = segs[1:]
		}
		if p.Derived == nil {
			p.Derived = make(map[string]interface{})
		}
		assignMap(p.Derived, segs, value)
		return nil
	}

	v := root
	for _, seg := range segs {
		for v.Kind() == reflect.Ptr {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(jsonFieldIndex(v.Type())[seg])
	}
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		v.SetFloat(value)
	default:
		v.SetInt(int64(math.Round(value)))
	}
	return nil
}

func assignMap(m map[string]interface{}, segs []string, value float64) {
	node := m
	for _, seg := range segs[:len(segs)-1] {
		child, ok := node[seg].(map[string]interface{})
		if !ok {
			child = make(map[string]interface{})
			node[seg] = child
		}
		node = child
	}
	node[segs[len(segs)-1]] = value
}

// NumericFields lists every numeric scalar path on a participant, for pickers and exports.
// Derived values present on p are included.
func NumericFields(p *cohort.Participant) []string {
	var out []string
	collect(reflect.TypeOf(cohort.Participant{}), "", &out)
	if p != nil {
		collectDerived(p.Derived, "", &out)
	}
	return out
}

func collect(t reflect.Type, prefix string, out *[]string) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	idx := jsonFieldIndex(t)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := ""
		for n, j := range idx {
			if j == i {
				name = n
				break
			}
		}
		if name == "" || name == derivedKey {
			continue
		}
		ft := f.Type
		for ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		switch ft.Kind() {
		case reflect.Struct:
			if ft == reflect.TypeOf(core.Date{}) {
				continue
			}
			collect(ft, prefix+name+".", out)
		case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			*out = append(*out, prefix+name)
		}
	}
}

func collectDerived(m map[string]interface{}, prefix string, out *[]string) {
	for k, v := range m {
		switch val := v.(type) {
		case map[string]interface{}:
			collectDerived(val, prefix+k+".", out)
		case float64:
			*out = append(*out, prefix+k)
		}
	}
}
