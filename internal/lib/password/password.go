// Package password хэширует и проверяет пароли пользователей заглушки API.
// Используется bcrypt с минимальной стоимостью: заглушка живёт в тестах
// и локальной разработке, стойкость хэша там не нужна.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hash возвращает bcrypt-хэш пароля.
func Hash(password string) (string, error) {
	const op = "password.Hash"

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Verify возвращает nil, если пароль соответствует хэшу.
func Verify(hash, password string) error {
	const op = "password.Verify"

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
