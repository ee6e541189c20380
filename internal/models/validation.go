package models

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func reportValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		mustRegister(v, "notblank", validators.NotBlank)
		mustRegister(v, "severity", func(fl validator.FieldLevel) bool {
			return Severity(fl.Field().String()).IsValid()
		})
		mustRegister(v, "recommendation_label", func(fl validator.FieldLevel) bool {
			return RecommendationLabel(fl.Field().String()).IsValid()
		})
		v.RegisterStructValidation(func(sl validator.StructLevel) {
			c := sl.Current().Interface().(CategoryScore)
			if c.MaxScore > 0 && c.Score > c.MaxScore {
				sl.ReportError(c.Score, "Score", "score", "ltefield", "MaxScore")
			}
		}, CategoryScore{})
		validate = v
	})
	return validate
}

// mustRegister panics when a rule cannot be registered (empty tag or nil function)
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Validate checks the required fields and closed enumerations of the model.
// Returned errors list every offending field.
func (m *ReportContentModel) Validate() error {
	if m == nil {
		return errors.New("report model is nil")
	}
	err := reportValidator().Struct(m)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "ReportContentModel.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "notblank":
		return fmt.Sprintf("%s must not be blank", field)
	case "severity":
		return fmt.Sprintf("%s must be one of critical, moderate, minor (got %q)", field, fe.Value())
	case "recommendation_label":
		return fmt.Sprintf("%s must be a known recommendation label (got %q)", field, fe.Value())
	case "ltefield":
		return fmt.Sprintf("%s must not exceed %s", field, fe.Param())
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("%s failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Sprintf("%s failed %s (got %v)", field, fe.Tag(), fe.Value())
	}
}
