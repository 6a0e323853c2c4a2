package config

import (
	"reflect"
)

// IConfigValidator - interface to be implemented by config structs that validate themselves
type IConfigValidator interface {
	ValidateCfg() error
}

// ValidateConfig - validates cfg and every field of cfg that implements IConfigValidator
func ValidateConfig(cfg interface{}) error {
	if cfg == nil {
		return nil
	}

	if objInterface, ok := cfg.(IConfigValidator); ok {
		if err := objInterface.ValidateCfg(); err != nil {
			return err
		}
	}

	v := reflect.ValueOf(cfg)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = reflect.Indirect(v)
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	return validateFields(v)
}

func validateFields(v reflect.Value) error {
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanInterface() || isNilField(field) {
			continue
		}
		if objInterface, ok := field.Interface().(IConfigValidator); ok {
			if err := ValidateConfig(objInterface); err != nil {
				return err
			}
		}
	}
	return nil
}

func isNilField(field reflect.Value) bool {
	switch field.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return field.IsNil()
	}
	return false
}
