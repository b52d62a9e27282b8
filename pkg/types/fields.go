package types

import "fmt"

type field struct {
	name  string
	value string
}

// requireFields returns ErrMissingField naming the first empty field.
func requireFields(fields ...field) error {
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%s: %w", f.name, ErrMissingField)
		}
	}
	return nil
}
