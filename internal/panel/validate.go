package panel

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError lists per-field problems found before any store call.
type ValidationError struct {
	Fields map[string]string
	Err    error
	order  []string
}

// FieldError reports a single field problem detected outside the schema
// checks; cause stays reachable through errors.Is.
func FieldError(field, message string, cause error) *ValidationError {
	verr := &ValidationError{Err: cause}
	verr.add(field, message)
	return verr
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, exists := e.Fields[field]; !exists {
		e.order = append(e.order, field)
	}
	e.Fields[field] = message
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.order))
	for _, name := range e.order {
		messages = append(messages, e.Fields[name])
	}
	return strings.Join(messages, "; ")
}

// Validate checks the draft against the schema. Fields named in skip are
// not checked; the artwork flow uses this to validate before the image
// source is known.
func (p *Panel[T]) Validate(form Form, skip ...string) error {
	verr := &ValidationError{}

	for _, field := range p.res.Schema.Fields {
		if slices.Contains(skip, field.Name) {
			continue
		}

		value := form.Values[field.Name]
		if strings.TrimSpace(value) == "" {
			if field.Required {
				verr.add(field.Name, fmt.Sprintf("%s is required.", field.Label))
			}
			continue
		}

		if len(field.Options) > 0 && !slices.Contains(field.Options, value) {
			verr.add(field.Name, fmt.Sprintf("%s must be one of: %s.", field.Label, strings.Join(field.Options, ", ")))
			continue
		}

		if msg := p.checkRules(field, value); msg != "" {
			verr.add(field.Name, msg)
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func (p *Panel[T]) checkRules(field Field, value string) string {
	var subject interface{} = value
	if field.Kind == KindNumber {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Sprintf("%s must be a whole number.", field.Label)
		}
		subject = n
	}

	rules := field.Rules
	if rules == "" && field.Kind == KindEmail {
		rules = "email"
	}
	if rules == "" {
		return ""
	}

	err := p.validate.Var(subject, rules)
	if err == nil {
		return ""
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		return ruleMessage(field, fieldErrs[0])
	}
	return fmt.Sprintf("%s is invalid.", field.Label)
}

func ruleMessage(field Field, err validator.FieldError) string {
	switch err.Tag() {
	case "email":
		return fmt.Sprintf("%s must be a valid e-mail address.", field.Label)
	case "url", "http_url":
		return fmt.Sprintf("%s must be a valid URL.", field.Label)
	case "min":
		if field.Kind == KindNumber {
			return fmt.Sprintf("%s must be at least %s.", field.Label, err.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters.", field.Label, err.Param())
	case "max":
		if field.Kind == KindNumber {
			return fmt.Sprintf("%s must be at most %s.", field.Label, err.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters.", field.Label, err.Param())
	case "numeric", "number":
		return fmt.Sprintf("%s must be a number.", field.Label)
	default:
		return fmt.Sprintf("%s is invalid (%s).", field.Label, err.Tag())
	}
}
