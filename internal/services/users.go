package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bcard-client/internal/lib/forms"
	"github.com/magabrotheeeer/bcard-client/internal/lib/token"
	"github.com/magabrotheeeer/bcard-client/internal/models"
)

// ErrAlreadyLoggedIn возвращается при попытке входа поверх действующей сессии.
var ErrAlreadyLoggedIn = errors.New("already logged in")

// UserAPI — используемая сервисом часть клиента удалённого API.
type UserAPI interface {
	RegisterUser(ctx context.Context, user models.DummyUser) (*models.User, error)
	Login(ctx context.Context, creds models.DummyLogin) (string, error)
	UpdateUser(ctx context.Context, id string, user models.DummyUserUpdate) (*models.User, error)
}

// SessionControl — операции входа и выхода текущей сессии.
type SessionControl interface {
	Login(tokenStr string) (*token.Claims, error)
	Logout() error
	IsLoggedIn() bool
	UserID() string
}

// UserService — регистрация, вход, выход и редактирование своего профиля.
type UserService struct {
	api      UserAPI
	session  SessionControl
	validate *validator.Validate
	log      *slog.Logger
}

// NewUserService создаёт сервис работы с аккаунтом.
func NewUserService(api UserAPI, session SessionControl, log *slog.Logger) *UserService {
	return &UserService{
		api:      api,
		session:  session,
		validate: forms.New(),
		log:      log,
	}
}

// Register валидирует форму и создаёт аккаунт. Вход после регистрации
// выполняется отдельно.
func (s *UserService) Register(ctx context.Context, form models.DummyUser) (*models.User, error) {
	const op = "services.UserService.Register"

	if err := s.validate.Struct(form); err != nil {
		return nil, fmt.Errorf("%s: %s", op, forms.Describe(err.(validator.ValidationErrors)))
	}

	user, err := s.api.RegisterUser(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("registered user", slog.String("user_id", user.ID))
	return user, nil
}

// Login обменивает почту и пароль на токен и открывает сессию.
// Действующая сессия не перезаписывается: сначала выход, потом вход.
func (s *UserService) Login(ctx context.Context, email, password string) (*token.Claims, error) {
	const op = "services.UserService.Login"

	if s.session.IsLoggedIn() {
		return nil, fmt.Errorf("%s: %w", op, ErrAlreadyLoggedIn)
	}

	tokenStr, err := s.api.Login(ctx, models.DummyLogin{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, err := s.session.Login(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return claims, nil
}

// Logout закрывает сессию. Избранное при этом не трогается.
func (s *UserService) Logout() error {
	const op = "services.UserService.Logout"

	if err := s.session.Logout(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateProfile валидирует форму и обновляет профиль текущего пользователя.
func (s *UserService) UpdateProfile(ctx context.Context, form models.DummyUserUpdate) (*models.User, error) {
	const op = "services.UserService.UpdateProfile"

	if !s.session.IsLoggedIn() {
		return nil, fmt.Errorf("%s: %w", op, ErrLoginRequired)
	}
	if err := s.validate.Struct(form); err != nil {
		return nil, fmt.Errorf("%s: %s", op, forms.Describe(err.(validator.ValidationErrors)))
	}

	user, err := s.api.UpdateUser(ctx, s.session.UserID(), form)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("updated profile", slog.String("user_id", user.ID))
	return user, nil
}
