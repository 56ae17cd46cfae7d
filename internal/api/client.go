// Package api реализует типизированный клиент удалённого bcard API.
//
// Все операции без состояния: запрос — ответ. Аутентификация выполняется
// заголовком x-auth-token, значение которого берётся из источника токена
// при каждом запросе. Ответы сервера декодируются в типизированные модели
// и проверяются на форму прямо на границе: элементы списка с некорректной
// формой логируются и отбрасываются, некорректный одиночный ресурс — ошибка.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/bcard-client/internal/config"
	"github.com/magabrotheeeer/bcard-client/internal/lib/sl"
	"github.com/magabrotheeeer/bcard-client/internal/models"
)

// ErrUnauthorized возвращается, когда сервер ответил 401 на защищённую операцию.
var ErrUnauthorized = errors.New("unauthorized")

// Error описывает ошибку удалённого API: HTTP-статус и текст, который вернул сервер.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: unexpected status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// Is позволяет распознавать 401 через errors.Is(err, ErrUnauthorized).
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// TokenSource отдаёт сохранённый токен для заголовка x-auth-token.
type TokenSource interface {
	Token() (string, bool)
}

// Client клиент удалённого bcard API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	limiter    *rate.Limiter
	validate   *validator.Validate
	log        *slog.Logger
}

// New создаёт клиент с таймаутом и ограничением частоты запросов из конфига.
func New(cfg *config.Config, tokens TokenSource, log *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		tokens:     tokens,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		validate:   validator.New(),
		log:        log,
	}
}

// newRequest собирает запрос с JSON-телом. Заголовок x-auth-token ставится,
// только если операция защищённая и токен есть в хранилище: без токена запрос
// уходит как есть, отказать — дело сервера.
func (c *Client) newRequest(ctx context.Context, method, path string, body any, auth bool) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if auth {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("x-auth-token", token)
		}
	}
	return req, nil
}

// do выполняет запрос с учётом лимита частоты и возвращает тело ответа.
// Любой статус 4xx/5xx превращается в *Error с текстом сервера.
func (c *Client) do(req *http.Request) ([]byte, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &Error{
			Status:  resp.StatusCode,
			Message: strings.TrimSpace(string(body)),
		}
	}
	return body, nil
}

// decodeCard декодирует одиночную визитку и проверяет её форму.
func (c *Client) decodeCard(op string, body []byte) (*models.Card, error) {
	var card models.Card
	if err := json.Unmarshal(body, &card); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := c.validate.Struct(card); err != nil {
		return nil, fmt.Errorf("%s: malformed card in response: %w", op, err)
	}
	return &card, nil
}

// decodeCards декодирует список визиток, отбрасывая записи с некорректной формой.
func (c *Client) decodeCards(op string, body []byte) ([]models.Card, error) {
	var raw []models.Card
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cards := make([]models.Card, 0, len(raw))
	for _, card := range raw {
		if err := c.validate.Struct(card); err != nil {
			c.log.Warn("dropping malformed card from response", sl.Op(op), sl.Err(err))
			continue
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// ListCards возвращает полную коллекцию визиток. Аутентификация не требуется.
func (c *Client) ListCards(ctx context.Context) ([]models.Card, error) {
	const op = "api.ListCards"
	req, err := c.newRequest(ctx, http.MethodGet, "/cards", nil, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c.decodeCards(op, body)
}

// GetCard возвращает одну визитку по идентификатору. Аутентификация не требуется.
func (c *Client) GetCard(ctx context.Context, id string) (*models.Card, error) {
	const op = "api.GetCard"
	req, err := c.newRequest(ctx, http.MethodGet, "/cards/"+id, nil, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c.decodeCard(op, body)
}

// ListMyCards возвращает визитки текущего пользователя.
// Отсутствующий или некорректный токен сервер встречает статусом 401.
func (c *Client) ListMyCards(ctx context.Context) ([]models.Card, error) {
	const op = "api.ListMyCards"
	req, err := c.newRequest(ctx, http.MethodGet, "/cards/my-cards", nil, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c.decodeCards(op, body)
}

// CreateCard создаёт визитку и возвращает запись, как её сохранил сервер.
func (c *Client) CreateCard(ctx context.Context, card models.DummyCard) (*models.Card, error) {
	const op = "api.CreateCard"
	req, err := c.newRequest(ctx, http.MethodPost, "/cards", card, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c.decodeCard(op, body)
}

// UpdateCard полностью заменяет поля визитки и возвращает обновлённую запись.
func (c *Client) UpdateCard(ctx context.Context, id string, card models.DummyCard) (*models.Card, error) {
	const op = "api.UpdateCard"
	req, err := c.newRequest(ctx, http.MethodPut, "/cards/"+id, card, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c.decodeCard(op, body)
}

// ToggleLike переключает лайк текущего пользователя на визитке
// и возвращает обновлённую запись с сервера.
func (c *Client) ToggleLike(ctx context.Context, cardID, userID string) (*models.Card, error) {
	const op = "api.ToggleLike"
	req, err := c.newRequest(ctx, http.MethodPatch, "/cards/"+cardID, map[string]string{"like": userID}, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c.decodeCard(op, body)
}

// DeleteCard удаляет визитку.
func (c *Client) DeleteCard(ctx context.Context, id string) error {
	const op = "api.DeleteCard"
	req, err := c.newRequest(ctx, http.MethodDelete, "/cards/"+id, nil, true)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := c.do(req); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RegisterUser регистрирует нового пользователя. Аутентификация не требуется.
func (c *Client) RegisterUser(ctx context.Context, user models.DummyUser) (*models.User, error) {
	const op = "api.RegisterUser"
	req, err := c.newRequest(ctx, http.MethodPost, "/users", user, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c.decodeUser(op, body)
}

// Login обменивает учётные данные на токен. Сервер возвращает токен
// обычным текстом, а не JSON.
func (c *Client) Login(ctx context.Context, creds models.DummyLogin) (string, error) {
	const op = "api.Login"
	req, err := c.newRequest(ctx, http.MethodPost, "/users/login", creds, false)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	body, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	token := strings.TrimSpace(string(body))
	if token == "" {
		return "", fmt.Errorf("%s: empty token in response", op)
	}
	return token, nil
}

// decodeUser декодирует одиночного пользователя и проверяет его форму.
func (c *Client) decodeUser(op string, body []byte) (*models.User, error) {
	var user models.User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := c.validate.Struct(user); err != nil {
		return nil, fmt.Errorf("%s: malformed user in response: %w", op, err)
	}
	return &user, nil
}

// ListUsers возвращает всех пользователей. Право администратора проверяет сервер.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "api.ListUsers"
	req, err := c.newRequest(ctx, http.MethodGet, "/users", nil, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var raw []models.User
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	users := make([]models.User, 0, len(raw))
	for _, user := range raw {
		if err := c.validate.Struct(user); err != nil {
			c.log.Warn("dropping malformed user from response", sl.Op(op), sl.Err(err))
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

// UpdateUser полностью заменяет редактируемые поля пользователя.
func (c *Client) UpdateUser(ctx context.Context, id string, user models.DummyUserUpdate) (*models.User, error) {
	const op = "api.UpdateUser"
	req, err := c.newRequest(ctx, http.MethodPut, "/users/"+id, user, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c.decodeUser(op, body)
}

// SetBusiness выставляет флаг бизнес-пользователя.
func (c *Client) SetBusiness(ctx context.Context, id string, isBusiness bool) (*models.User, error) {
	const op = "api.SetBusiness"
	req, err := c.newRequest(ctx, http.MethodPatch, "/users/"+id, map[string]bool{"isBusiness": isBusiness}, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c.decodeUser(op, body)
}

// DeleteUser удаляет пользователя.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	const op = "api.DeleteUser"
	req, err := c.newRequest(ctx, http.MethodDelete, "/users/"+id, nil, true)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := c.do(req); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
