package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"slices"
	"strings"
	"unicode"

	"ugeco-backoffice/internal/domain"

	"github.com/go-playground/validator/v10"
)

// FieldError is one failed rule, addressed by its dotted JSON path.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError collects every failed rule of a request body.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Path+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator checks DTO validate tags, including the catalogue tags
// country, category, language and target.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "country", domain.Countries)
	mustRegister(v, "category", domain.Categories)
	mustRegister(v, "language", domain.OfferLanguages)
	mustRegister(v, "target", domain.OfferTargets)
	return &Validator{v: v}
}

func mustRegister(v *validator.Validate, tag string, allowed []string) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return slices.Contains(allowed, fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Struct validates s and returns a *ValidationError listing every failure.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Path: jsonPath(fe.Namespace()), Message: ruleMessage(fe)})
	}
	return out
}

// jsonPath drops the root struct name and embedded struct names, which are the
// only capitalised segments left once json names are in use.
func jsonPath(namespace string) string {
	segments := strings.Split(namespace, ".")
	if len(segments) > 0 {
		segments = segments[1:]
	}
	kept := segments[:0]
	for _, s := range segments {
		if s == "" {
			continue
		}
		if r := []rune(s)[0]; unicode.IsUpper(r) {
			continue
		}
		kept = append(kept, s)
	}
	return strings.Join(kept, ".")
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.String {
			return "must have at least " + fe.Param() + " item(s) or characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.String {
			return "must have at most " + fe.Param() + " item(s) or characters"
		}
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "country":
		return "must be one of: " + strings.Join(domain.Countries, ", ")
	case "category":
		return "is not a known category"
	case "language":
		return "must be one of: " + strings.Join(domain.OfferLanguages, ", ")
	case "target":
		return "must be one of: " + strings.Join(domain.OfferTargets, ", ")
	}
	return "failed rule " + fe.Tag()
}

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// decodeAndValidate reads a JSON body into dst and validates it.
func (val *Validator) decodeAndValidate(r *http.Request, dst any) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.BadRequest("", "Request body is required")
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return &ValidationError{Fields: []FieldError{{Path: typeErr.Field, Message: "has the wrong type"}}}
		}
		return domain.BadRequest("", "Invalid request body")
	}
	return val.Struct(dst)
}
