package auth

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/nyaruka/phonenumbers"
)

var (
	upperRegex = regexp.MustCompile(`[A-Z]`)
	lowerRegex = regexp.MustCompile(`[a-z]`)
	digitRegex = regexp.MustCompile(`[0-9]`)
	slugRegex  = regexp.MustCompile(`^[a-z0-9-]+$`)
)

func passwordRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.Length(8, 100),
		validation.Match(upperRegex).Error("must contain an uppercase letter"),
		validation.Match(lowerRegex).Error("must contain a lowercase letter"),
		validation.Match(digitRegex).Error("must contain a digit"),
	}
}

// RegisterUserMessage is the core registration payload.
type RegisterUserMessage struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (m RegisterUserMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Email, validation.Required, is.Email),
		validation.Field(&m.Password, passwordRules()...),
		validation.Field(&m.FirstName, validation.Length(0, 100)),
		validation.Field(&m.LastName, validation.Length(0, 100)),
	)
}

// RegisterTenantUserMessage is the tenant registration payload. The target
// organization comes from the request header, not the body.
type RegisterTenantUserMessage struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

func (m RegisterTenantUserMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Email, validation.Required, is.Email),
		validation.Field(&m.Password, passwordRules()...),
		validation.Field(&m.FirstName, validation.Length(0, 100)),
		validation.Field(&m.LastName, validation.Length(0, 100)),
		validation.Field(&m.Phone, validation.By(validatePhone)),
	)
}

// validatePhone accepts empty values; registration does not require a
// phone number.
func validatePhone(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}

	parsed, err := phonenumbers.Parse(raw, "US")
	if err != nil {
		return errors.New("invalid phone number", errors.CategoryValidation)
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return errors.New("invalid phone number", errors.CategoryValidation)
	}
	return nil
}

// FormatPhone normalizes a phone number to international format.
func FormatPhone(raw string) (string, error) {
	parsed, err := phonenumbers.Parse(raw, "US")
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryValidation, "invalid phone number")
	}
	return phonenumbers.Format(parsed, phonenumbers.INTERNATIONAL), nil
}

// LoginRequest is the login payload for both contexts.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (m LoginRequest) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Email, validation.Required, is.Email),
		validation.Field(&m.Password, validation.Required),
	)
}

// RefreshRequest carries a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (m RefreshRequest) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.RefreshToken, validation.Required),
	)
}

// CreateOrganizationMessage is the organization creation payload.
type CreateOrganizationMessage struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (m CreateOrganizationMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&m.Slug,
			validation.Required,
			validation.Length(2, 100),
			validation.Match(slugRegex).Error("must contain only lowercase letters, digits, and hyphens"),
		),
		validation.Field(&m.Description, validation.Length(0, 1000)),
	)
}

// UpdateProfileMessage updates the authenticated tenant user's profile.
// Nil pointers leave the field untouched.
type UpdateProfileMessage struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Avatar    *string `json:"avatar"`
	Bio       *string `json:"bio"`
}

func (m UpdateProfileMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Phone, validation.By(func(value any) error {
			raw, ok := value.(*string)
			if !ok || raw == nil {
				return nil
			}
			return validatePhone(*raw)
		})),
	)
}

// Apply copies the set fields onto the record.
func (m UpdateProfileMessage) Apply(user *TenantUser) {
	if m.FirstName != nil {
		user.FirstName = *m.FirstName
	}
	if m.LastName != nil {
		user.LastName = *m.LastName
	}
	if m.Phone != nil {
		user.Phone = *m.Phone
	}
	if m.Avatar != nil {
		user.Avatar = *m.Avatar
	}
	if m.Bio != nil {
		user.Bio = *m.Bio
	}
}
