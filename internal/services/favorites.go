package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/bcard-client/internal/models"
	"github.com/magabrotheeeer/bcard-client/internal/storage"
)

// FavoritesService — личное избранное. Набор живёт только в локальном
// хранилище клиента и на сервер не отправляется, поэтому переживает выход
// из аккаунта, но не переезд на другую машину.
type FavoritesService struct {
	api   CardAPI
	store storage.Store
	log   *slog.Logger
}

// NewFavoritesService создаёт сервис избранного.
func NewFavoritesService(api CardAPI, store storage.Store, log *slog.Logger) *FavoritesService {
	return &FavoritesService{api: api, store: store, log: log}
}

// Toggle переключает членство визитки в избранном и сообщает итоговое
// состояние: true — визитка теперь в избранном.
func (s *FavoritesService) Toggle(cardID string) (bool, error) {
	const op = "services.FavoritesService.Toggle"

	ids, err := s.store.Favorites()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	next := make([]string, 0, len(ids)+1)
	removed := false
	for _, id := range ids {
		if id == cardID {
			removed = true
			continue
		}
		next = append(next, id)
	}
	if !removed {
		next = append(next, cardID)
	}

	if err := s.store.SetFavorites(next); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("toggled favorite", slog.String("card_id", cardID), slog.Bool("favorite", !removed))
	return !removed, nil
}

// IsFavorite сообщает, лежит ли визитка в избранном.
func (s *FavoritesService) IsFavorite(cardID string) (bool, error) {
	const op = "services.FavoritesService.IsFavorite"

	ids, err := s.store.Favorites()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	for _, id := range ids {
		if id == cardID {
			return true, nil
		}
	}
	return false, nil
}

// List возвращает визитки из избранного в порядке добавления. Идентификаторы,
// которых больше нет на сервере, молча пропускаются: визитку могли удалить.
func (s *FavoritesService) List(ctx context.Context) ([]models.Card, error) {
	const op = "services.FavoritesService.List"

	ids, err := s.store.Favorites()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(ids) == 0 {
		return []models.Card{}, nil
	}

	all, err := s.api.ListCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	byID := make(map[string]models.Card, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}

	cards := make([]models.Card, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			cards = append(cards, c)
		}
	}
	return cards, nil
}
