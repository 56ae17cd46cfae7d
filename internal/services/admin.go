package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bcard-client/internal/lib/forms"
	"github.com/magabrotheeeer/bcard-client/internal/models"
)

// AdminAPI — используемая панелью администратора часть клиента удалённого API.
type AdminAPI interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ListCards(ctx context.Context) ([]models.Card, error)
	UpdateUser(ctx context.Context, id string, user models.DummyUserUpdate) (*models.User, error)
	SetBusiness(ctx context.Context, id string, isBusiness bool) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// AdminService — панель администратора: каталог пользователей с поиском
// и их визитками. После каждой мутации список пользователей перечитывается
// с сервера целиком, локальные правки не накапливаются.
type AdminService struct {
	api      AdminAPI
	identity Identity
	validate *validator.Validate
	log      *slog.Logger

	mu    sync.Mutex
	users []models.User
	cards []models.Card
}

// NewAdminService создаёт сервис панели администратора.
func NewAdminService(api AdminAPI, identity Identity, log *slog.Logger) *AdminService {
	return &AdminService{
		api:      api,
		identity: identity,
		validate: forms.New(),
		log:      log,
	}
}

func (s *AdminService) requireAdmin(op string) error {
	if !s.identity.IsLoggedIn() {
		return fmt.Errorf("%s: %w", op, ErrLoginRequired)
	}
	if !s.identity.IsAdmin() {
		return fmt.Errorf("%s: %w", op, ErrNotAllowed)
	}
	return nil
}

// Users загружает всех пользователей и обновляет локальный кэш выборки.
func (s *AdminService) Users(ctx context.Context) ([]models.User, error) {
	const op = "services.AdminService.Users"

	if err := s.requireAdmin(op); err != nil {
		return nil, err
	}
	users, err := s.api.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	return users, nil
}

// Search отбирает из последней выборки пользователей, чьё имя или почта
// содержит query без учёта регистра. Пустой запрос возвращает выборку целиком.
func (s *AdminService) Search(query string) []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if query == "" {
		return append([]models.User(nil), s.users...)
	}
	needle := strings.ToLower(query)
	matched := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		if strings.Contains(strings.ToLower(u.FullName()), needle) ||
			strings.Contains(strings.ToLower(u.Email), needle) {
			matched = append(matched, u)
		}
	}
	return matched
}

// CardsOf возвращает визитки пользователя. Полный список визиток загружается
// один раз и фильтруется на клиенте, отдельной серверной выборки по
// владельцу нет.
func (s *AdminService) CardsOf(ctx context.Context, userID string) ([]models.Card, error) {
	const op = "services.AdminService.CardsOf"

	if err := s.requireAdmin(op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	cached := s.cards
	s.mu.Unlock()

	if cached == nil {
		all, err := s.api.ListCards(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		s.mu.Lock()
		s.cards = all
		cached = all
		s.mu.Unlock()
	}

	cards := make([]models.Card, 0)
	for _, c := range cached {
		if c.UserID == userID {
			cards = append(cards, c)
		}
	}
	return cards, nil
}

// UpdateUser валидирует форму, заменяет редактируемые поля пользователя
// и перечитывает список.
func (s *AdminService) UpdateUser(ctx context.Context, userID string, form models.DummyUserUpdate) error {
	const op = "services.AdminService.UpdateUser"

	if err := s.requireAdmin(op); err != nil {
		return err
	}
	if err := s.validate.Struct(form); err != nil {
		return fmt.Errorf("%s: %s", op, forms.Describe(err.(validator.ValidationErrors)))
	}
	if _, err := s.api.UpdateUser(ctx, userID, form); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("updated user", slog.String("user_id", userID))

	return s.refresh(ctx, op)
}

// SetBusiness переключает бизнес-статус пользователя и перечитывает список.
func (s *AdminService) SetBusiness(ctx context.Context, userID string, isBusiness bool) error {
	const op = "services.AdminService.SetBusiness"

	if err := s.requireAdmin(op); err != nil {
		return err
	}
	if _, err := s.api.SetBusiness(ctx, userID, isBusiness); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("toggled business status", slog.String("user_id", userID), slog.Bool("is_business", isBusiness))

	return s.refresh(ctx, op)
}

// DeleteUser удаляет пользователя и перечитывает список. Самого себя
// администратор удалить не может.
func (s *AdminService) DeleteUser(ctx context.Context, userID string) error {
	const op = "services.AdminService.DeleteUser"

	if err := s.requireAdmin(op); err != nil {
		return err
	}
	if userID == s.identity.UserID() {
		return fmt.Errorf("%s: %w", op, ErrNotAllowed)
	}
	if err := s.api.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("deleted user", slog.String("user_id", userID))

	return s.refresh(ctx, op)
}

func (s *AdminService) refresh(ctx context.Context, op string) error {
	users, err := s.api.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	return nil
}
