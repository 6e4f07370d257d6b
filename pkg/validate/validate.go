// Package validate checks struct invariants declared with validator tags and
// reports every violation with the position of the offending item.
package validate

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = validate.RegisterValidation("finite", isFinite)
}

// isFinite rejects NaN and ±Inf on float fields.
func isFinite(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return true
	}
}

// Violation is one failed rule. Index is -1 for standalone structs.
type Violation struct {
	Index   int                    `json:"index"`
	Code    string                 `json:"code"`
	Field   string                 `json:"field"`
	Message string                 `json:"message"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

func (v Violation) String() string {
	if v.Index < 0 {
		return v.Message
	}
	return fmt.Sprintf("item %d: %s", v.Index, v.Message)
}

// Error aggregates violations. Subject names what was being validated.
type Error struct {
	Subject    string
	Violations []Violation
}

const maxListed = 10

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid %s: %d violation(s)", e.Subject, len(e.Violations))
	for i, v := range e.Violations {
		if i == maxListed {
			fmt.Fprintf(&b, "; ... %d more", len(e.Violations)-maxListed)
			break
		}
		b.WriteString("; ")
		b.WriteString(v.String())
	}
	return b.String()
}

// Indices returns the distinct item indices that failed, in order.
func (e *Error) Indices() []int {
	seen := make(map[int]bool)
	out := make([]int, 0, len(e.Violations))
	for _, v := range e.Violations {
		if v.Index < 0 || seen[v.Index] {
			continue
		}
		seen[v.Index] = true
		out = append(out, v.Index)
	}
	return out
}

// Struct validates a single struct.
func Struct(subject string, s interface{}) error {
	vs, err := violations(-1, s)
	if err != nil {
		return err
	}
	if len(vs) == 0 {
		return nil
	}
	return &Error{Subject: subject, Violations: vs}
}

// Each validates n items fetched by get and collects every violation rather
// than stopping at the first bad item.
func Each(subject string, n int, get func(i int) interface{}) error {
	var all []Violation
	for i := 0; i < n; i++ {
		vs, err := violations(i, get(i))
		if err != nil {
			return err
		}
		all = append(all, vs...)
	}
	if len(all) == 0 {
		return nil
	}
	return &Error{Subject: subject, Violations: all}
}

// Var validates a single value against a tag expression such as "gt=0,finite".
func Var(field string, v interface{}, tag string) error {
	err := validate.Var(v, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make([]Violation, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, Violation{
			Index:   -1,
			Code:    "ERR_" + strings.ToUpper(fe.Tag()),
			Field:   field,
			Message: messageFor(field, fe),
			Params:  paramsFor(fe),
		})
	}
	return &Error{Subject: field, Violations: out}
}

func violations(index int, s interface{}) ([]Violation, error) {
	err := validate.Struct(s)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, fmt.Errorf("validate: %w", err)
	}
	out := make([]Violation, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, Violation{
			Index:   index,
			Code:    "ERR_" + strings.ToUpper(fe.Tag()),
			Field:   fe.Field(),
			Message: messageFor(fe.Field(), fe),
			Params:  paramsFor(fe),
		})
	}
	return out, nil
}

func messageFor(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "finite":
		return fmt.Sprintf("%s must be a finite number, got %v", field, fe.Value())
	case "min":
		if fe.Type().Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s, got %v", field, fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s, got %v", field, fe.Param(), fe.Value())
	case "lt":
		return fmt.Sprintf("%s must be less than %s, got %v", field, fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s, got %v", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

func paramsFor(fe validator.FieldError) map[string]interface{} {
	params := make(map[string]interface{})
	switch fe.Tag() {
	case "min", "gte":
		params["min"] = fe.Param()
	case "max", "lte":
		params["max"] = fe.Param()
	case "gt", "lt":
		params["value"] = fe.Param()
	case "oneof":
		params["options"] = strings.Split(fe.Param(), " ")
	}
	return params
}
