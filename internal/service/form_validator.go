package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "intersectionreg/internal/errors"
	"intersectionreg/internal/model"
)

// RegistrationForm is a submitted registration before validation. Field
// names in errors use the form keys.
type RegistrationForm struct {
	IntersectionName   string `form:"intersectionName" validate:"required"`
	EndUser            string `form:"endUser" validate:"required"`
	Distributor        string `form:"distributor" validate:"required"`
	CabinetType        string `form:"cabinetType" validate:"required"`
	CabinetTypeOther   string `form:"cabinetTypeOther" validate:"required_if=CabinetType Other"`
	TLSConnection      string `form:"tlsConnection" validate:"required"`
	TLSConnectionOther string `form:"tlsConnectionOther" validate:"required_if=TLSConnection Other"`
	DetectionIO        string `form:"detectionIO" validate:"required"`
	DetectionIOOther   string `form:"detectionIOOther" validate:"required_if=DetectionIO Other"`
	PhasingText        string `form:"phasingText"`
	ContactName        string `form:"contactName" validate:"required"`
	ContactEmail       string `form:"contactEmail" validate:"required,email"`
	ContactPhone       string `form:"contactPhone" validate:"required"`
}

// Normalize trims surrounding whitespace from every field.
func (f *RegistrationForm) Normalize() {
	for _, p := range []*string{
		&f.IntersectionName, &f.EndUser, &f.Distributor,
		&f.CabinetType, &f.CabinetTypeOther,
		&f.TLSConnection, &f.TLSConnectionOther,
		&f.DetectionIO, &f.DetectionIOOther,
		&f.PhasingText, &f.ContactName, &f.ContactEmail, &f.ContactPhone,
	} {
		*p = strings.TrimSpace(*p)
	}
}

// Registration converts a validated form into a record. Free-text "other"
// values are kept only when their selection is Other.
func (f *RegistrationForm) Registration() *model.Registration {
	return &model.Registration{
		IntersectionName:   f.IntersectionName,
		EndUser:            f.EndUser,
		Distributor:        f.Distributor,
		CabinetType:        f.CabinetType,
		CabinetTypeOther:   otherValue(f.CabinetType, f.CabinetTypeOther),
		TLSConnection:      f.TLSConnection,
		TLSConnectionOther: otherValue(f.TLSConnection, f.TLSConnectionOther),
		DetectionIO:        f.DetectionIO,
		DetectionIOOther:   otherValue(f.DetectionIO, f.DetectionIOOther),
		PhasingText:        optional(f.PhasingText),
		ContactName:        f.ContactName,
		ContactEmail:       f.ContactEmail,
		ContactPhone:       f.ContactPhone,
	}
}

func otherValue(selection, text string) *string {
	if selection != model.OtherOption {
		return nil
	}
	return optional(text)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var fieldMessages = map[string]map[string]string{
	"intersectionName":   {"required": "Intersection name is required"},
	"endUser":            {"required": "End user is required"},
	"distributor":        {"required": "Distributor is required"},
	"cabinetType":        {"required": "Cabinet type is required"},
	"cabinetTypeOther":   {"required_if": "Please specify cabinet type"},
	"tlsConnection":      {"required": "TLS connection is required"},
	"tlsConnectionOther": {"required_if": "Please specify TLS connection"},
	"detectionIO":        {"required": "Detection I/O is required"},
	"detectionIOOther":   {"required_if": "Please specify detection I/O"},
	"contactName":        {"required": "Contact name is required"},
	"contactEmail":       {"required": "Contact email is required", "email": "Invalid email address"},
	"contactPhone":       {"required": "Contact phone is required"},
}

// FormValidator checks registration forms and reports every invalid field.
type FormValidator struct {
	validate *validator.Validate
}

// NewFormValidator creates a validator that names fields by their form key.
func NewFormValidator() *FormValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &FormValidator{validate: v}
}

// Validate returns nil or an *errors.ValidationError listing each invalid
// field in declaration order.
func (v *FormValidator) Validate(form *RegistrationForm) error {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate form: %w", err)
	}

	fields := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperrors.FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return &apperrors.ValidationError{Fields: fields}
}

func message(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()][fe.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
