package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks struct tags and reports every violation under one subject,
// e.g. "invalid configuration" or "invalid catalog document".
type Validator struct {
	validate *validator.Validate
	subject  string
}

// New creates a validator whose errors start with "invalid <subject>"
func New(subject string) *Validator {
	return &Validator{
		validate: validator.New(),
		subject:  subject,
	}
}

// Struct validates s using its validate tags
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf("%s failed '%s' (value: '%v')", e.Namespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("invalid %s:\n  %s", v.subject, strings.Join(messages, "\n  "))
}

// Unique rejects the first key that appears twice; kind names the key in the message
func (v *Validator) Unique(kind string, keys []string) error {
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if seen[key] {
			return fmt.Errorf("invalid %s: duplicate %s %q", v.subject, kind, key)
		}
		seen[key] = true
	}
	return nil
}
