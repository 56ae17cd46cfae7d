package stubapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/bcard-client/internal/lib/forms"
	"github.com/magabrotheeeer/bcard-client/internal/models"
)

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cards := make([]models.Card, 0, len(s.cards))
	for _, c := range s.cards {
		cards = append(cards, *c)
	}
	render.JSON(w, r, cards)
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cards {
		if c.ID == id {
			render.JSON(w, r, c)
			return
		}
	}
	render.Status(r, http.StatusNotFound)
	render.PlainText(w, r, "Card not found")
}

func (s *Server) handleMyCards(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	cards := make([]models.Card, 0)
	for _, c := range s.cards {
		if c.UserID == claims.UserID {
			cards = append(cards, *c)
		}
	}
	render.JSON(w, r, cards)
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)
	if !claims.IsBusiness {
		render.Status(r, http.StatusForbidden)
		render.PlainText(w, r, "Only business users can create cards")
		return
	}

	var req models.DummyCard
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.PlainText(w, r, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.PlainText(w, r, forms.Describe(err.(validator.ValidationErrors)))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bizNumber++
	card := cardFromDummy(req)
	card.ID = uuid.NewString()
	card.BizNumber = s.bizNumber
	card.Likes = []string{}
	card.UserID = claims.UserID
	card.CreatedAt = time.Now().UTC()
	s.cards = append(s.cards, &card)

	s.log.Info("created card", slog.String("card_id", card.ID), slog.String("user_id", claims.UserID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, card)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)
	id := chi.URLParam(r, "id")

	var req models.DummyCard
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.PlainText(w, r, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.PlainText(w, r, forms.Describe(err.(validator.ValidationErrors)))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cards {
		if c.ID != id {
			continue
		}
		if c.UserID != claims.UserID && !claims.IsAdmin {
			render.Status(r, http.StatusForbidden)
			render.PlainText(w, r, "Not the card owner")
			return
		}
		updated := cardFromDummy(req)
		updated.ID = c.ID
		updated.BizNumber = c.BizNumber
		updated.Likes = c.Likes
		updated.UserID = c.UserID
		updated.CreatedAt = c.CreatedAt
		*c = updated
		render.JSON(w, r, c)
		return
	}
	render.Status(r, http.StatusNotFound)
	render.PlainText(w, r, "Card not found")
}

func (s *Server) handleLikeCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Like string `json:"like"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Like == "" {
		render.Status(r, http.StatusBadRequest)
		render.PlainText(w, r, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cards {
		if c.ID != id {
			continue
		}
		// повторный лайк снимает предыдущий
		likes := make([]string, 0, len(c.Likes)+1)
		found := false
		for _, userID := range c.Likes {
			if userID == req.Like {
				found = true
				continue
			}
			likes = append(likes, userID)
		}
		if !found {
			likes = append(likes, req.Like)
		}
		c.Likes = likes
		render.JSON(w, r, c)
		return
	}
	render.Status(r, http.StatusNotFound)
	render.PlainText(w, r, "Card not found")
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.cards {
		if c.ID != id {
			continue
		}
		if c.UserID != claims.UserID && !claims.IsAdmin {
			render.Status(r, http.StatusForbidden)
			render.PlainText(w, r, "Not the card owner")
			return
		}
		s.cards = append(s.cards[:i], s.cards[i+1:]...)
		s.log.Info("deleted card", slog.String("card_id", id))
		render.JSON(w, r, map[string]string{"deleted": id})
		return
	}
	render.Status(r, http.StatusNotFound)
	render.PlainText(w, r, "Card not found")
}

// cardFromDummy переносит поля формы в запись визитки.
func cardFromDummy(req models.DummyCard) models.Card {
	return models.Card{
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Description: req.Description,
		Phone:       req.Phone,
		Email:       req.Email,
		Web:         req.Web,
		Image: models.Image{
			URL: req.Image.URL,
			Alt: req.Image.Alt,
		},
		Address: models.Address{
			State:       req.Address.State,
			Country:     req.Address.Country,
			City:        req.Address.City,
			Street:      req.Address.Street,
			HouseNumber: req.Address.HouseNumber,
			Zip:         req.Address.Zip,
		},
	}
}
