package loaders

import (
	"encoding"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

type EnvLoader struct{}

func NewEnvloader() *EnvLoader {
	return &EnvLoader{}
}

func (e *EnvLoader) Load(dest any) error {
	return eachTaggedField(dest, "env", func(field reflect.Value, tag string) error {
		envValue, ok := os.LookupEnv(tag)
		if !ok {
			return nil
		}
		return setEnvironmentVariable(field, envValue)
	})
}

// eachTaggedField calls fn for every settable field of the struct pointed to by dest carrying tag.
func eachTaggedField(dest any, tagName string, fn func(field reflect.Value, tag string) error) error {
	ptr := reflect.ValueOf(dest)
	if ptr.Kind() != reflect.Pointer || ptr.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("unable to load config into destination: destination must be a struct pointer")
	}

	val := ptr.Elem()
	typ := val.Type()
	for i := range val.NumField() {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !field.CanSet() { // skip all fields that cannot be set
			continue
		}

		tag, ok := fieldType.Tag.Lookup(tagName)
		if !ok || tag == "" {
			continue
		}

		if err := fn(field, tag); err != nil {
			return fmt.Errorf("unable to load config: %s: %w", tag, err)
		}
	}

	return nil
}

func setEnvironmentVariable(field reflect.Value, value string) error {
	if field.CanAddr() {
		if u, ok := field.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return u.UnmarshalText([]byte(value))
		}
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		num, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(num)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		num, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetUint(num)
	case reflect.Bool:
		boolean, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(boolean)
	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			values := strings.Split(value, ",")
			field.Set(reflect.ValueOf(values))
		}
	default:
		return fmt.Errorf("unsupported field kind: %s", field.Kind())
	}
	return nil
}
