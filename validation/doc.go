// Package validation validates configuration structs.
//
// Struct tags are checked with go-playground/validator; field names in
// errors follow the mapstructure tag so they match the configuration keys.
//
//	type Settings struct {
//	    BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
//	}
//	err := validation.Struct(s)
//
// Cross-field rules are collected with a Validator:
//
//	v := validation.New()
//	v.Custom(s.Min <= s.Max, "min", "must not exceed max")
//	err := v.Err()
package validation
