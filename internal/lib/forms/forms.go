// Package forms содержит валидатор полей форм и функции для формирования
// человеко-читаемых сообщений об ошибках валидации. Правила повторяют
// требования удалённого bcard API, поэтому некорректная форма отклоняется
// ещё на клиенте, до какого-либо сетевого вызова.
package forms

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator"
)

// passwordSpecials символы, один из которых обязан присутствовать в пароле.
const passwordSpecials = "!@#$%^&*-"

// New создаёт валидатор с зарегистрированным правилом password.
func New() *validator.Validate {
	v := validator.New()
	// ошибка возможна только при пустом имени тега
	_ = v.RegisterValidation("password", passwordRule)
	return v
}

// passwordRule проверяет пароль: минимум 9 символов, хотя бы одна буква,
// одна цифра и один из символов !@#$%^&*-.
func passwordRule(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 9 {
		return false
	}
	var hasLetter, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		}
	}
	return hasLetter && hasDigit && hasSpecial
}

// Describe формирует единое сообщение об ошибках валидации формы.
// Каждое нарушение превращается в человеко-читаемый текст, объединённый через запятую.
func Describe(errs validator.ValidationErrors) string {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too short", err.Field()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too long", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "url":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid URL", err.Field()))
		case "password":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least 9 characters long and contain a letter, a digit and one of %s", err.Field(), passwordSpecials))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return strings.Join(errsMsgs, ", ")
}
