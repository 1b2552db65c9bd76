package descriptor

import (
	"reflect"

	"github.com/wippyai/duckwings/errors"
)

// Shapeable reports whether a value of type from can stand in for a result
// of type to: assignable, or a numeric conversion.
func Shapeable(from, to reflect.Type) bool {
	if from.AssignableTo(to) {
		return true
	}
	return isNumeric(from.Kind()) && isNumeric(to.Kind()) && from.ConvertibleTo(to)
}

// ShapeResults fits out to d's result list. Assignable values are kept,
// numeric values converted, missing results zero-filled and surplus ones
// dropped. A value that cannot be shaped is a type mismatch.
func (d Descriptor) ShapeResults(out []reflect.Value) ([]reflect.Value, error) {
	shaped := make([]reflect.Value, d.NumOut())
	for i := range shaped {
		want := d.Out(i)
		if i >= len(out) {
			shaped[i] = reflect.Zero(want)
			continue
		}
		v := out[i]
		switch {
		case !v.IsValid():
			shaped[i] = reflect.Zero(want)
		case v.Type().AssignableTo(want):
			if v.Type() != want {
				nv := reflect.New(want).Elem()
				nv.Set(v)
				v = nv
			}
			shaped[i] = v
		case Shapeable(v.Type(), want):
			shaped[i] = v.Convert(want)
		default:
			return nil, errors.TypeMismatch(errors.PhaseDispatch, v.Type().String(), d.String(),
				"result %d cannot be used as %s", i, want)
		}
	}
	return shaped, nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
