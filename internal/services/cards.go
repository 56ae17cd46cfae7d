// Package services реализует прикладную логику клиента поверх удалённого
// bcard API и локального хранилища: каталог визиток, избранное, профиль
// пользователя и административные операции.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bcard-client/internal/api"
	"github.com/magabrotheeeer/bcard-client/internal/lib/forms"
	"github.com/magabrotheeeer/bcard-client/internal/models"
	"github.com/magabrotheeeer/bcard-client/internal/storage"
)

// ErrLoginRequired возвращается, когда защищённая операция вызвана без
// действующего токена либо сервер его отверг.
var ErrLoginRequired = errors.New("login required")

// ErrNotAllowed возвращается, когда роль текущего пользователя не даёт
// права на операцию.
var ErrNotAllowed = errors.New("operation not allowed")

// CardAPI — используемая сервисом часть клиента удалённого API.
type CardAPI interface {
	ListCards(ctx context.Context) ([]models.Card, error)
	GetCard(ctx context.Context, id string) (*models.Card, error)
	ListMyCards(ctx context.Context) ([]models.Card, error)
	CreateCard(ctx context.Context, card models.DummyCard) (*models.Card, error)
	UpdateCard(ctx context.Context, id string, card models.DummyCard) (*models.Card, error)
	ToggleLike(ctx context.Context, cardID, userID string) (*models.Card, error)
	DeleteCard(ctx context.Context, id string) error
}

// Identity — текущая идентичность пользователя, как её отдаёт session.Session.
type Identity interface {
	IsLoggedIn() bool
	IsAdmin() bool
	IsBusiness() bool
	UserID() string
}

// CardService — каталог визиток: список, поиск, лайки и CRUD по ролям.
// Список последней выборки кэшируется в памяти, чтобы поиск по заголовку
// не ходил на сервер на каждый ввод.
type CardService struct {
	api      CardAPI
	identity Identity
	store    storage.Store
	validate *validator.Validate
	log      *slog.Logger

	mu    sync.Mutex
	cards []models.Card
}

// NewCardService создаёт сервис каталога визиток.
func NewCardService(api CardAPI, identity Identity, store storage.Store, log *slog.Logger) *CardService {
	return &CardService{
		api:      api,
		identity: identity,
		store:    store,
		validate: forms.New(),
		log:      log,
	}
}

// List загружает все визитки и обновляет локальный кэш выборки.
func (s *CardService) List(ctx context.Context) ([]models.Card, error) {
	const op = "services.CardService.List"

	cards, err := s.api.ListCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.cards = cards
	s.mu.Unlock()
	return cards, nil
}

// FilterByTitle отбирает из последней выборки визитки, чей заголовок содержит
// query без учёта регистра. Пустой запрос возвращает выборку целиком.
// Порядок записей сохраняется.
func (s *CardService) FilterByTitle(query string) []models.Card {
	s.mu.Lock()
	defer s.mu.Unlock()

	if query == "" {
		return append([]models.Card(nil), s.cards...)
	}
	needle := strings.ToLower(query)
	matched := make([]models.Card, 0, len(s.cards))
	for _, c := range s.cards {
		if strings.Contains(strings.ToLower(c.Title), needle) {
			matched = append(matched, c)
		}
	}
	return matched
}

// Get возвращает одну визитку по идентификатору.
func (s *CardService) Get(ctx context.Context, id string) (*models.Card, error) {
	const op = "services.CardService.Get"

	card, err := s.api.GetCard(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return card, nil
}

// My возвращает визитки текущего пользователя. Отказ сервера по токену
// переводится в ErrLoginRequired.
func (s *CardService) My(ctx context.Context) ([]models.Card, error) {
	const op = "services.CardService.My"

	if !s.identity.IsLoggedIn() {
		return nil, fmt.Errorf("%s: %w", op, ErrLoginRequired)
	}
	cards, err := s.api.ListMyCards(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return nil, fmt.Errorf("%s: %w", op, ErrLoginRequired)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cards, nil
}

// Create валидирует форму и создаёт визитку. Идентификатор созданной визитки
// запоминается в локальном хранилище. Создавать визитки могут только
// бизнес-пользователи, проверка до обращения к серверу.
func (s *CardService) Create(ctx context.Context, form models.DummyCard) (*models.Card, error) {
	const op = "services.CardService.Create"

	if !s.identity.IsLoggedIn() {
		return nil, fmt.Errorf("%s: %w", op, ErrLoginRequired)
	}
	if !s.identity.IsBusiness() {
		return nil, fmt.Errorf("%s: %w", op, ErrNotAllowed)
	}
	if err := s.validate.Struct(form); err != nil {
		return nil, fmt.Errorf("%s: %s", op, forms.Describe(err.(validator.ValidationErrors)))
	}

	card, err := s.api.CreateCard(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.SetLastCardID(card.ID); err != nil {
		s.log.Warn("failed to remember last created card", slog.String("card_id", card.ID), slog.Any("err", err))
	}
	s.log.Info("created card", slog.String("card_id", card.ID))
	return card, nil
}

// PrefillEdit загружает визитку и возвращает форму с её текущими значениями.
// Редактировать визитку может владелец либо администратор.
func (s *CardService) PrefillEdit(ctx context.Context, id string) (models.DummyCard, error) {
	const op = "services.CardService.PrefillEdit"

	card, err := s.api.GetCard(ctx, id)
	if err != nil {
		return models.DummyCard{}, fmt.Errorf("%s: %w", op, err)
	}
	if card.UserID != s.identity.UserID() && !s.identity.IsAdmin() {
		return models.DummyCard{}, fmt.Errorf("%s: %w", op, ErrNotAllowed)
	}
	return models.DummyCardFromCard(card), nil
}

// Update валидирует форму и отправляет её целиком как новое содержимое визитки.
// Идентификатор правленной визитки запоминается так же, как при создании.
func (s *CardService) Update(ctx context.Context, id string, form models.DummyCard) (*models.Card, error) {
	const op = "services.CardService.Update"

	if err := s.validate.Struct(form); err != nil {
		return nil, fmt.Errorf("%s: %s", op, forms.Describe(err.(validator.ValidationErrors)))
	}

	card, err := s.api.UpdateCard(ctx, id, form)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.SetLastCardID(card.ID); err != nil {
		s.log.Warn("failed to remember last edited card", slog.String("card_id", card.ID), slog.Any("err", err))
	}
	s.log.Info("updated card", slog.String("card_id", id))
	return card, nil
}

// Like переключает лайк текущего пользователя и подменяет запись в кэше
// выборки ответом сервера, чтобы счётчик был виден без перезагрузки списка.
func (s *CardService) Like(ctx context.Context, cardID string) (*models.Card, error) {
	const op = "services.CardService.Like"

	if !s.identity.IsLoggedIn() {
		return nil, fmt.Errorf("%s: %w", op, ErrLoginRequired)
	}

	card, err := s.api.ToggleLike(ctx, cardID, s.identity.UserID())
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return nil, fmt.Errorf("%s: %w", op, ErrLoginRequired)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	for i := range s.cards {
		if s.cards[i].ID == card.ID {
			s.cards[i] = *card
			break
		}
	}
	s.mu.Unlock()
	return card, nil
}

// Delete удаляет визитку и убирает её из кэша выборки.
func (s *CardService) Delete(ctx context.Context, id string) error {
	const op = "services.CardService.Delete"

	if err := s.api.DeleteCard(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	for i := range s.cards {
		if s.cards[i].ID == id {
			s.cards = append(s.cards[:i], s.cards[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.log.Info("deleted card", slog.String("card_id", id))
	return nil
}
