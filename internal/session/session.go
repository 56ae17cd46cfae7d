// Package session реализует идентичность клиента: единственный владелец
// расшифрованных claims токена и операций входа и выхода. Состояние
// восстанавливается из локального хранилища при старте, поэтому видимость
// команд по ролям корректна ещё до первого обращения к серверу.
package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/bcard-client/internal/lib/sl"
	"github.com/magabrotheeeer/bcard-client/internal/lib/token"
	"github.com/magabrotheeeer/bcard-client/internal/storage"
)

// Session хранит текущую идентичность пользователя.
// Меняется только через Login и Logout.
type Session struct {
	store  storage.Store
	log    *slog.Logger
	claims *token.Claims
}

// New создаёт сессию и жадно восстанавливает идентичность из сохранённого токена.
// Некорректный токен не роняет приложение: ошибка логируется, идентичность
// сбрасывается в "никто". Истёкший токен принимается на веру — срок действия
// проверяет только сервер, клиент лишь предупреждает в логе.
func New(store storage.Store, log *slog.Logger) *Session {
	const op = "session.New"

	s := &Session{store: store, log: log}

	raw, ok := store.Token()
	if !ok {
		return s
	}
	claims, err := token.Decode(raw)
	if err != nil {
		log.Error("failed to decode stored token, identity reset", sl.Op(op), sl.Err(err))
		return s
	}
	if claims.Expired(time.Now()) {
		log.Warn("stored token is expired, protected calls will be rejected by the server",
			sl.Op(op), slog.String("user_id", claims.UserID))
	}
	s.claims = claims
	return s
}

// Login декодирует токен, сохраняет его в локальном хранилище и делает
// полученные claims текущей идентичностью. Некорректный токен не сохраняется.
func (s *Session) Login(tokenStr string) (*token.Claims, error) {
	const op = "session.Login"

	claims, err := token.Decode(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.store.SetToken(tokenStr); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.claims = claims
	s.log.Info("logged in", slog.String("user_id", claims.UserID),
		slog.Bool("is_admin", claims.IsAdmin), slog.Bool("is_business", claims.IsBusiness))
	return claims, nil
}

// Logout удаляет сохранённый токен и сбрасывает идентичность.
func (s *Session) Logout() error {
	const op = "session.Logout"

	if err := s.store.ClearToken(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.claims = nil
	s.log.Info("logged out")
	return nil
}

// Claims возвращает текущие claims либо nil, если пользователь не вошёл.
func (s *Session) Claims() *token.Claims {
	return s.claims
}

// IsLoggedIn сообщает, есть ли текущая идентичность.
func (s *Session) IsLoggedIn() bool {
	return s.claims != nil
}

// IsAdmin сообщает, является ли текущий пользователь администратором.
func (s *Session) IsAdmin() bool {
	return s.claims != nil && s.claims.IsAdmin
}

// IsBusiness сообщает, является ли текущий пользователь бизнес-пользователем.
func (s *Session) IsBusiness() bool {
	return s.claims != nil && s.claims.IsBusiness
}

// UserID возвращает идентификатор текущего пользователя либо пустую строку.
func (s *Session) UserID() string {
	if s.claims == nil {
		return ""
	}
	return s.claims.UserID
}
