package user

import (
	"fmt"
	"unicode/utf8"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

var (
	roleTag  = "role"
	roleText = "must be one of ADMIN, TEACHER or STUDENT"

	// password policy
	PwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must be at least %d characters long", PwdMinLen)

	pwdMismatchTag  = "pwdmismatch"
	pwdMismatchText = "new password and confirmation do not match"
)

// InitValidators registers the user validations. Pass it to core.Validator.Register.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(roleTag, roleValidation)
	core.RegisterCustomTranslation(validate, translator, roleTag, roleText)

	_ = validate.RegisterValidation(pwdMinLenTag, pwdMinLenValidation)
	core.RegisterCustomTranslation(validate, translator, pwdMinLenTag, pwdMinLenText)

	validate.RegisterStructValidation(passwordChangeStructValidation, PasswordChange{})
	core.RegisterCustomTranslation(validate, translator, pwdMismatchTag, pwdMismatchText)
}

// Custom Validators

func roleValidation(fl validator.FieldLevel) bool {
	return Role(fl.Field().String()).Valid()
}

func pwdMinLenValidation(fl validator.FieldLevel) bool {
	return utf8.RuneCountInString(fl.Field().String()) >= PwdMinLen
}

// passwordChangeStructValidation checks the confirmation first, then the length of the new password.
func passwordChangeStructValidation(sl validator.StructLevel) {
	pc, ok := sl.Current().Interface().(PasswordChange)
	if !ok || pc.NewPassword == "" {
		return // `required` reports it
	}
	if pc.NewPassword != pc.ConfirmPassword {
		sl.ReportError(pc.ConfirmPassword, "confirm_password", "ConfirmPassword", pwdMismatchTag, "")
		return
	}
	if utf8.RuneCountInString(pc.NewPassword) < PwdMinLen {
		sl.ReportError(pc.NewPassword, "new_password", "NewPassword", pwdMinLenTag, "")
	}
}
