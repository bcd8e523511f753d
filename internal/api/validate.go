package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// FieldsError reports per-field validation failures keyed by JSON name.
type FieldsError struct {
	Fields map[string]string
}

func (f *FieldsError) Error() string {
	return "invalid fields"
}

// Validator decodes and validates request bodies.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// NewValidator creates a Validator with English messages and JSON field
// names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v, trans: trans}
}

// DecodeAndValidate reads a JSON body into req and validates it.
func (v *Validator) DecodeAndValidate(w http.ResponseWriter, r *http.Request, req any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		return fmt.Errorf("request body is not valid JSON: %w", err)
	}
	return v.Struct(req)
}

// Struct validates a decoded value.
func (v *Validator) Struct(req any) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		fields[e.Field()] = e.Translate(v.trans)
	}
	return &FieldsError{Fields: fields}
}
