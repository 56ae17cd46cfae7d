// Package token реализует разбор и выпуск bcard-токенов с пользовательскими claim полями.
//
// Claims описывает полезную нагрузку токена: идентификатор пользователя и флаги ролей.
// Decode разбирает токен без проверки подписи — клиент доверяет токену на слово,
// подпись и срок действия проверяет только сервер.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims описывает пользовательские данные, хранящиеся в bcard-токене.
type Claims struct {
	UserID               string `json:"_id"`        // Идентификатор пользователя
	IsAdmin              bool   `json:"isAdmin"`    // Флаг администратора
	IsBusiness           bool   `json:"isBusiness"` // Флаг бизнес-пользователя
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// Expired сообщает, истёк ли токен на момент now.
// Токен без поля exp считается бессрочным.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return c.ExpiresAt.Before(now)
}

// Decode разбирает токен из трёх сегментов и извлекает Claims из среднего сегмента.
//
// Подпись не проверяется. Для одного и того же токена результат всегда одинаковый;
// некорректный токен возвращает ошибку, не паникуя.
func Decode(tokenStr string) (*Claims, error) {
	const op = "token.Decode"
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%s: token carries no user id", op)
	}
	return claims, nil
}
