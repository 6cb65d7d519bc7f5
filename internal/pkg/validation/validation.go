// Package validation wraps go-playground/validator with English messages,
// json field names and the marketplace's enum tags. A *Validator can be
// installed as fiber's StructValidator.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"

	"cinda/internal/domain/course"
	"cinda/internal/domain/opportunity"
	"cinda/internal/domain/user"
)

const (
	notBlankTag = "notblank"
	userTypeTag = "usertype"
	categoryTag = "category"
	levelTag    = "level"
	oppTypeTag  = "opptype"
)

// Error carries per-field messages keyed by json field name.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FieldError builds an *Error for a single field.
func FieldError(field, msg string) *Error {
	return &Error{Fields: map[string]string{field: msg}}
}

type Validator struct {
	v     *validator.Validate
	trans ut.Translator
}

func New() *Validator {
	v := validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	trans, _ := uni.GetTranslator("en")
	_ = entranslations.RegisterDefaultTranslations(v, trans)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation(userTypeTag, func(fl validator.FieldLevel) bool {
		_, ok := user.ParseRole(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation(categoryTag, func(fl validator.FieldLevel) bool {
		_, ok := course.ParseCategory(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation(levelTag, func(fl validator.FieldLevel) bool {
		_, ok := course.ParseLevel(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation(oppTypeTag, func(fl validator.FieldLevel) bool {
		_, ok := opportunity.ParseType(fl.Field().String())
		return ok
	})

	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range []string{notBlankTag, userTypeTag, categoryTag, levelTag, oppTypeTag} {
		_ = v.RegisterTranslation(tag, trans, registerFn, translateCustom)
	}

	return &Validator{v: v, trans: trans}
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return fe.Field() + " cannot be blank"
	case userTypeTag:
		return fe.Field() + " must be one of " + strings.Join(user.RoleNames(), ", ")
	case categoryTag:
		return fe.Field() + " is not a known course category"
	case levelTag:
		return fe.Field() + " must be one of Beginner, Intermediate, Advanced"
	case oppTypeTag:
		return fe.Field() + " is not a known opportunity type"
	default:
		return fe.Field() + " is invalid"
	}
}

// Validate implements fiber.StructValidator. Failures come back as *Error.
func (val *Validator) Validate(out any) error {
	err := val.v.Struct(out)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Translate(val.trans)
	}
	return &Error{Fields: fields}
}
