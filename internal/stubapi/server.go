// Package stubapi реализует заглушку удалённого bcard API для интеграционных
// тестов и локальной разработки. Данные живут в памяти процесса; бизнес-правила
// настоящего сервера воспроизведены ровно настолько, насколько это нужно
// клиенту: выпуск токена, проверка x-auth-token, владение визитками и роли.
package stubapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/bcard-client/internal/lib/forms"
	"github.com/magabrotheeeer/bcard-client/internal/lib/password"
	"github.com/magabrotheeeer/bcard-client/internal/lib/sl"
	"github.com/magabrotheeeer/bcard-client/internal/lib/token"
	"github.com/magabrotheeeer/bcard-client/internal/models"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// Server заглушка bcard API с данными в памяти.
type Server struct {
	log      *slog.Logger
	maker    *token.Maker
	validate *validator.Validate

	mu        sync.Mutex
	users     []*stubUser
	cards     []*models.Card
	bizNumber int
}

// stubUser пользователь вместе с хэшем пароля, который наружу не отдаётся.
type stubUser struct {
	models.User
	passwordHash string
}

// New создаёт заглушку, подписывающую токены секретом secret со сроком ttl.
func New(log *slog.Logger, secret string, ttl time.Duration) *Server {
	return &Server{
		log:      log,
		maker:    token.NewMaker(secret, ttl),
		validate: forms.New(),
	}
}

// Handler возвращает HTTP-обработчик со всеми маршрутами bcard API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
	)

	// Открытые конечные точки
	r.Post("/users", s.handleRegister)
	r.Post("/users/login", s.handleLogin)
	r.Get("/cards", s.handleListCards)

	// Группа с проверкой x-auth-token
	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/cards/my-cards", s.handleMyCards)
		r.Post("/cards", s.handleCreateCard)
		r.Put("/cards/{id}", s.handleUpdateCard)
		r.Patch("/cards/{id}", s.handleLikeCard)
		r.Delete("/cards/{id}", s.handleDeleteCard)
		r.Get("/users", s.handleListUsers)
		r.Put("/users/{id}", s.handleUpdateUser)
		r.Patch("/users/{id}", s.handleSetBusiness)
		r.Delete("/users/{id}", s.handleDeleteUser)
	})

	// после группы, чтобы статический /cards/my-cards имел приоритет
	r.Get("/cards/{id}", s.handleGetCard)

	return r
}

// authMiddleware проверяет подпись и срок действия токена из x-auth-token.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.maker.ParseToken(r.Header.Get("x-auth-token"))
		if err != nil {
			s.log.Debug("rejected request with bad token", sl.Err(err))
			render.Status(r, http.StatusUnauthorized)
			render.PlainText(w, r, "Invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func callerClaims(r *http.Request) *token.Claims {
	claims, _ := r.Context().Value(claimsKey).(*token.Claims)
	return claims
}

// SeedUser регистрирует пользователя напрямую, минуя HTTP. Возвращает его запись.
func (s *Server) SeedUser(user models.User, rawPassword string) (*models.User, error) {
	hash, err := password.Hash(rawPassword)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now().UTC()
	s.users = append(s.users, &stubUser{User: user, passwordHash: hash})
	return &user, nil
}

// SeedCard добавляет визитку напрямую, минуя HTTP.
func (s *Server) SeedCard(card models.Card) *models.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	if card.Likes == nil {
		card.Likes = []string{}
	}
	s.bizNumber++
	card.BizNumber = s.bizNumber
	card.CreatedAt = time.Now().UTC()
	stored := card
	s.cards = append(s.cards, &stored)
	return &stored
}

// TokenFor выпускает токен для уже заведённого пользователя.
func (s *Server) TokenFor(userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == userID {
			return s.maker.GenerateToken(u.ID, u.IsAdmin, u.IsBusiness)
		}
	}
	return s.maker.GenerateToken(userID, false, false)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.DummyUser
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
		if u.Email == req.Email {
			render.Status(r, http.StatusBadRequest)
			render.PlainText(w, r, "User already registered")
			return
		}
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.PlainText(w, r, "internal error")
		return
	}
	user := models.User{
		ID: uuid.NewString(),
		Name: models.Name{
			First:  req.Name.First,
			Middle: req.Name.Middle,
			Last:   req.Name.Last,
		},
		Phone: req.Phone,
		Email: req.Email,
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
		IsBusiness: req.IsBusiness,
		CreatedAt:  time.Now().UTC(),
	}
	s.users = append(s.users, &stubUser{User: user, passwordHash: hash})

	s.log.Info("registered user", slog.String("user_id", user.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.DummyLogin
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.PlainText(w, r, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email != req.Email {
			continue
		}
		if password.Verify(u.passwordHash, req.Password) != nil {
			break
		}
		tokenStr, err := s.maker.GenerateToken(u.ID, u.IsAdmin, u.IsBusiness)
		if err != nil {
			render.Status(r, http.StatusInternalServerError)
			render.PlainText(w, r, "internal error")
			return
		}
		// настоящий сервер возвращает токен обычным текстом
		render.PlainText(w, r, tokenStr)
		return
	}
	render.Status(r, http.StatusBadRequest)
	render.PlainText(w, r, "Invalid email or password")
}
