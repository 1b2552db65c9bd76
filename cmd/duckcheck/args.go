package main

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/wippyai/duckwings/descriptor"
)

// convertArg parses a command line value into a parameter of type t.
func convertArg(value string, t reflect.Type) (any, error) {
	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		v.SetString(value)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, t.Bits())
		if err != nil {
			return nil, err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := strconv.ParseUint(value, 10, t.Bits())
		if err != nil {
			return nil, err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, t.Bits())
		if err != nil {
			return nil, err
		}
		v.SetFloat(f)
	case reflect.Slice:
		if t.Elem().Kind() != reflect.Uint8 {
			return nil, fmt.Errorf("unsupported parameter type %s", t)
		}
		v.SetBytes([]byte(value))
	default:
		return nil, fmt.Errorf("unsupported parameter type %s", t)
	}
	return v.Interface(), nil
}

// convertArgs parses a comma separated argument list for d.
func convertArgs(d descriptor.Descriptor, raw string) ([]any, error) {
	var values []string
	if raw != "" {
		values = strings.Split(raw, ",")
	}
	if len(values) != d.NumIn() {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", d, d.NumIn(), len(values))
	}
	out := make([]any, len(values))
	for i, s := range values {
		a, err := convertArg(s, d.In(i))
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = a
	}
	return out, nil
}
