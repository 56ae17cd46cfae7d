package stubapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bcard-client/internal/lib/forms"
	"github.com/magabrotheeeer/bcard-client/internal/models"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)
	if !claims.IsAdmin {
		render.Status(r, http.StatusForbidden)
		render.PlainText(w, r, "Admin only")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u.User)
	}
	render.JSON(w, r, users)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)
	id := chi.URLParam(r, "id")
	if id != claims.UserID && !claims.IsAdmin {
		render.Status(r, http.StatusForbidden)
		render.PlainText(w, r, "Not allowed")
		return
	}

	var req models.DummyUserUpdate
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
	for _, u := range s.users {
		if u.ID != id {
			continue
		}
		u.Name = models.Name{
			First:  req.Name.First,
			Middle: req.Name.Middle,
			Last:   req.Name.Last,
		}
		u.Phone = req.Phone
		u.Image = models.Image{URL: req.Image.URL, Alt: req.Image.Alt}
		u.Address = models.Address{
			State:       req.Address.State,
			Country:     req.Address.Country,
			City:        req.Address.City,
			Street:      req.Address.Street,
			HouseNumber: req.Address.HouseNumber,
			Zip:         req.Address.Zip,
		}
		s.log.Info("updated user", slog.String("user_id", id))
		render.JSON(w, r, u.User)
		return
	}
	render.Status(r, http.StatusNotFound)
	render.PlainText(w, r, "User not found")
}

func (s *Server) handleSetBusiness(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)
	if !claims.IsAdmin {
		render.Status(r, http.StatusForbidden)
		render.PlainText(w, r, "Admin only")
		return
	}
	id := chi.URLParam(r, "id")

	var req struct {
		IsBusiness bool `json:"isBusiness"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.PlainText(w, r, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID != id {
			continue
		}
		u.IsBusiness = req.IsBusiness
		s.log.Info("toggled business flag", slog.String("user_id", id), slog.Bool("is_business", req.IsBusiness))
		render.JSON(w, r, u.User)
		return
	}
	render.Status(r, http.StatusNotFound)
	render.PlainText(w, r, "User not found")
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)
	if !claims.IsAdmin {
		render.Status(r, http.StatusForbidden)
		render.PlainText(w, r, "Admin only")
		return
	}
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.users {
		if u.ID != id {
			continue
		}
		s.users = append(s.users[:i], s.users[i+1:]...)
		s.log.Info("deleted user", slog.String("user_id", id))
		render.JSON(w, r, map[string]string{"deleted": id})
		return
	}
	render.Status(r, http.StatusNotFound)
	render.PlainText(w, r, "User not found")
}
