package config

import (
	"flag"
	"fmt"
	"reflect"
	"strconv"
)

func setupFlags(flags *flag.FlagSet, value reflect.Value) {
	reflectConfiguration(
		value,
		func(flagName, defaultValue string) bool {
			return flagName != ""
		},
		func(fieldValue reflect.Value, flagName, flagValue string) error {
			usage := usageStrings[flagName]
			switch fieldValue.Kind() {
			case reflect.Int64:
				intValue, err := strconv.ParseInt(flagValue, 10, 64)
				if err != nil {
					panic(fmt.Sprintf("bad default for %s: %v", flagName, err))
				}
				flags.Int64(flagName, intValue, usage)
			case reflect.Bool:
				flags.Bool(flagName, flagValue == "true", usage)
			case reflect.String:
				flags.String(flagName, flagValue, usage)
			}
			return nil
		},
	)
}

func setDefaults(value reflect.Value) {
	reflectConfiguration(
		value,
		func(flagName, defaultValue string) bool {
			return defaultValue != ""
		},
		func(fieldValue reflect.Value, flagName, defaultValue string) error {
			if err := setField(fieldValue, defaultValue); err != nil {
				panic(fmt.Sprintf("bad default for %s: %v", flagName, err))
			}
			return nil
		},
	)
}

func setFromFlags(flags *flag.FlagSet, value reflect.Value) error {
	setFlags := make(map[string]flag.Value)
	flags.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = f.Value
	})

	return reflectConfiguration(
		value,
		func(flagName, flagValue string) bool {
			_, ok := setFlags[flagName]
			return ok
		},
		func(fieldValue reflect.Value, flagName, flagValue string) error {
			if err := setField(fieldValue, setFlags[flagName].String()); err != nil {
				return fmt.Errorf("invalid value for %s: %v", flagName, err)
			}
			return nil
		},
	)
}

func setField(fieldValue reflect.Value, value string) error {
	switch fieldValue.Kind() {
	case reflect.Int64:
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		fieldValue.SetInt(i)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		fieldValue.SetBool(b)
	case reflect.String:
		fieldValue.SetString(value)
	}
	return nil
}

func reflectConfiguration(
	value reflect.Value,
	shouldHandle func(flagName, flagValue string) bool,
	handle func(fieldValue reflect.Value, flagName, flagValue string) error,
) error {
	if value.Kind() != reflect.Struct {
		return nil
	}
	t := value.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		flagName := field.Tag.Get("flag")
		flagValue := field.Tag.Get("default")

		fieldValue := value.Field(i)

		if flagName != "" && shouldHandle(flagName, flagValue) {
			if err := handle(fieldValue, flagName, flagValue); err != nil {
				return err
			}
		} else if fieldValue.Kind() == reflect.Struct {
			if err := reflectConfiguration(fieldValue, shouldHandle, handle); err != nil {
				return err
			}
		}
	}
	return nil
}
