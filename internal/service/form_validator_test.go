package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "intersectionreg/internal/errors"
	"intersectionreg/internal/model"
)

func TestFormValidator_Validate(t *testing.T) {
	tests := []struct {
		name           string
		mutate         func(*RegistrationForm)
		expectedFields map[string]string
	}{
		{
			name:   "valid form",
			mutate: func(*RegistrationForm) {},
		},
		{
			name: "missing required fields",
			mutate: func(f *RegistrationForm) {
				f.IntersectionName = ""
				f.ContactPhone = ""
			},
			expectedFields: map[string]string{
				"intersectionName": "Intersection name is required",
				"contactPhone":     "Contact phone is required",
			},
		},
		{
			name:           "malformed email",
			mutate:         func(f *RegistrationForm) { f.ContactEmail = "not-an-email" },
			expectedFields: map[string]string{"contactEmail": "Invalid email address"},
		},
		{
			name: "every other selection needs text",
			mutate: func(f *RegistrationForm) {
				f.CabinetType = model.OtherOption
				f.TLSConnection = model.OtherOption
				f.DetectionIO = model.OtherOption
			},
			expectedFields: map[string]string{
				"cabinetTypeOther":   "Please specify cabinet type",
				"tlsConnectionOther": "Please specify TLS connection",
				"detectionIOOther":   "Please specify detection I/O",
			},
		},
		{
			name: "other text without other selection is fine",
			mutate: func(f *RegistrationForm) {
				f.DetectionIOOther = "unused"
			},
		},
	}

	v := NewFormValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			err := v.Validate(&form)

			if len(tt.expectedFields) == 0 {
				assert.NoError(t, err)
				return
			}
			var validationErr *apperrors.ValidationError
			require.ErrorAs(t, err, &validationErr)
			got := map[string]string{}
			for _, f := range validationErr.Fields {
				got[f.Field] = f.Message
			}
			assert.Equal(t, tt.expectedFields, got)
		})
	}
}

func TestRegistrationForm_Normalize(t *testing.T) {
	form := validForm()
	form.ContactEmail = " jane@example.com\n"
	form.PhasingText = "\t"

	form.Normalize()
	reg := form.Registration()

	assert.Equal(t, "jane@example.com", reg.ContactEmail)
	assert.Nil(t, reg.PhasingText)
}
