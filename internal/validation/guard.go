package validation

import "reflect"

// Argument pairs a parameter name with its value for Require.
type Argument struct {
	Name  string
	Value any
}

// Arg builds an Argument.
func Arg(name string, value any) Argument {
	return Argument{Name: name, Value: value}
}

// Require returns a MissingArgumentError for the first argument whose value is nil,
// including typed nil pointers, maps, slices, funcs, channels and interfaces.
// Arguments are checked in order so the reported name is deterministic.
func Require(args ...Argument) error {
	for _, a := range args {
		if isNil(a.Value) {
			return &MissingArgumentError{Name: a.Name}
		}
	}
	return nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
