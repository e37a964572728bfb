package env

import (
	"encoding"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strconv"
)

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

// OverrideStruct sets the fields of the struct pointed to by v from the
// environment variables named in their `env` tags. Nested structs and
// pointers to structs are walked recursively; nil struct pointers are
// allocated. Fields whose variable is unset keep their current value.
func OverrideStruct(v any) error {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Pointer || val.IsNil() {
		return fmt.Errorf("override struct: expected a non-nil pointer to a struct, got %T", v)
	}

	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("override struct: expected a pointer to a struct, got %T", v)
	}

	return overrideFields(val)
}

func overrideFields(val reflect.Value) error {
	typ := val.Type()

	for i := range typ.NumField() {
		field := typ.Field(i)
		fieldVal := val.Field(i)

		if !field.IsExported() {
			continue
		}

		envVar := field.Tag.Get("env")

		// Tagged fields that parse themselves (e.g. timex.Duration) are leaves.
		if envVar != "" && reflect.PointerTo(field.Type).Implements(textUnmarshalerType) {
			if err := setFromText(fieldVal, envVar); err != nil {
				return fmt.Errorf("field %s: %w", field.Name, err)
			}
			continue
		}

		switch {
		case fieldVal.Kind() == reflect.Struct:
			if err := overrideFields(fieldVal); err != nil {
				return fmt.Errorf("nested struct %s: %w", field.Name, err)
			}
			continue
		case fieldVal.Kind() == reflect.Pointer && field.Type.Elem().Kind() == reflect.Struct:
			if fieldVal.IsNil() {
				fieldVal.Set(reflect.New(field.Type.Elem()))
			}
			if err := overrideFields(fieldVal.Elem()); err != nil {
				return fmt.Errorf("nested struct pointer %s: %w", field.Name, err)
			}
			continue
		}

		if envVar == "" {
			continue
		}

		if err := setField(fieldVal, envVar); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}

	return nil
}

func setFromText(fieldVal reflect.Value, envVar string) error {
	raw, ok := os.LookupEnv(envVar)
	if !ok {
		return nil
	}

	u, _ := fieldVal.Addr().Interface().(encoding.TextUnmarshaler)
	if err := u.UnmarshalText([]byte(raw)); err != nil {
		return fmt.Errorf("parse env var %s: %w", envVar, err)
	}
	return nil
}

func setField(fieldVal reflect.Value, envVar string) error {
	raw, ok := os.LookupEnv(envVar)
	if !ok {
		slog.Debug("Environment variable not set, keeping config value.", "env", envVar)
		return nil
	}

	switch fieldVal.Kind() {
	case reflect.String:
		fieldVal.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, fieldVal.Type().Bits())
		if err != nil {
			return fmt.Errorf("parse int from env var %s: %w", envVar, err)
		}
		fieldVal.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, fieldVal.Type().Bits())
		if err != nil {
			return fmt.Errorf("parse uint from env var %s: %w", envVar, err)
		}
		fieldVal.SetUint(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("parse bool from env var %s: %w", envVar, err)
		}
		fieldVal.SetBool(b)
	default:
		return fmt.Errorf("unsupported kind %s for env var %s", fieldVal.Kind(), envVar)
	}

	return nil
}

// Env returns the value of the environment variable named by the key.
// If the variable is not present in the environment, it returns the provided fallback value.
func Env(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
