// Maker выпускает и проверяет подписанные bcard-токены.
// Используется только заглушкой сервера и тестами: настоящий клиент
// токены не выпускает и подпись не проверяет.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Maker подписывает токены секретным ключом с заданным временем жизни (TTL).
type Maker struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewMaker создаёт новый экземпляр Maker на основе секретного ключа и TTL.
func NewMaker(secretKey string, ttl time.Duration) *Maker {
	return &Maker{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}

// GenerateToken создаёт токен с заданными идентификатором пользователя и флагами ролей,
// подписывая его секретным ключом.
func (m *Maker) GenerateToken(userID string, isAdmin, isBusiness bool) (string, error) {
	claims := Claims{
		UserID:     userID,
		IsAdmin:    isAdmin,
		IsBusiness: isBusiness,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secretKey))
}

// ParseToken парсит токен, проверяет его подпись и срок действия,
// возвращает Claims, если токен корректен.
func (m *Maker) ParseToken(tokenStr string) (*Claims, error) {
	const op = "token.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(m.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
