/*
Package config provides validation for the resolved configuration.

Field rules live in `validate` struct tags and are checked with
go-playground/validator.
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validate checks cfg against its struct tags and reports every failing field.
func Validate(cfg *Config) error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "\n"))
}

// describe turns a field error into "Insight.BaseURL: must be a valid URL (got "x")".
func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	var rule string
	switch fe.Tag() {
	case "required":
		rule = "is required"
	case "url":
		rule = "must be a valid URL"
	case "oneof":
		rule = "must be one of: " + fe.Param()
	case "gt":
		rule = "must be greater than " + fe.Param()
	case "gte":
		rule = "must be at least " + fe.Param()
	case "lte":
		rule = "must be at most " + fe.Param()
	default:
		rule = "failed '" + fe.Tag() + "'"
	}
	return fmt.Sprintf("%s: %s (got %v)", field, rule, fe.Value())
}
