package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bcard-client/internal/api"
	"github.com/magabrotheeeer/bcard-client/internal/models"
	"github.com/magabrotheeeer/bcard-client/internal/storage"
)

type APIMock struct{ mock.Mock }

func (m *APIMock) ListCards(ctx context.Context) ([]models.Card, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *APIMock) GetCard(ctx context.Context, id string) (*models.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *APIMock) ListMyCards(ctx context.Context) ([]models.Card, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *APIMock) CreateCard(ctx context.Context, card models.DummyCard) (*models.Card, error) {
	args := m.Called(ctx, card)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *APIMock) UpdateCard(ctx context.Context, id string, card models.DummyCard) (*models.Card, error) {
	args := m.Called(ctx, id, card)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *APIMock) ToggleLike(ctx context.Context, cardID, userID string) (*models.Card, error) {
	args := m.Called(ctx, cardID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *APIMock) DeleteCard(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *APIMock) RegisterUser(ctx context.Context, user models.DummyUser) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *APIMock) Login(ctx context.Context, creds models.DummyLogin) (string, error) {
	args := m.Called(ctx, creds)
	return args.String(0), args.Error(1)
}

func (m *APIMock) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *APIMock) UpdateUser(ctx context.Context, id string, user models.DummyUserUpdate) (*models.User, error) {
	args := m.Called(ctx, id, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *APIMock) SetBusiness(ctx context.Context, id string, isBusiness bool) (*models.User, error) {
	args := m.Called(ctx, id, isBusiness)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *APIMock) DeleteUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// fakeIdentity — неподвижная идентичность для тестов.
type fakeIdentity struct {
	loggedIn   bool
	isAdmin    bool
	isBusiness bool
	userID     string
}

func (f fakeIdentity) IsLoggedIn() bool { return f.loggedIn }
func (f fakeIdentity) IsAdmin() bool    { return f.isAdmin }
func (f fakeIdentity) IsBusiness() bool { return f.isBusiness }
func (f fakeIdentity) UserID() string   { return f.userID }

func NewNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func validCardForm() models.DummyCard {
	return models.DummyCard{
		Title:       "Coffee Roasters",
		Subtitle:    "Specialty coffee",
		Description: "Small batch roastery",
		Phone:       "0501234567",
		Email:       "hello@roasters.example.com",
		Web:         "https://roasters.example.com",
		Address: models.DummyAddress{
			Country:     "Israel",
			City:        "Tel Aviv",
			Street:      "Dizengoff",
			HouseNumber: 12,
			Zip:         61000,
		},
	}
}

func TestCardService_FilterByTitle(t *testing.T) {
	cards := []models.Card{
		{ID: "1", Title: "Coffee Roasters"},
		{ID: "2", Title: "Vinyl Records"},
		{ID: "3", Title: "Roasted Nuts"},
	}

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{
			name:    "пустой запрос возвращает всё",
			query:   "",
			wantIDs: []string{"1", "2", "3"},
		},
		{
			name:    "поиск без учёта регистра",
			query:   "ROAST",
			wantIDs: []string{"1", "3"},
		},
		{
			name:    "подстрока в середине",
			query:   "inyl",
			wantIDs: []string{"2"},
		},
		{
			name:    "нет совпадений",
			query:   "bakery",
			wantIDs: []string{},
		},
	}

	apiMock := new(APIMock)
	apiMock.On("ListCards", mock.Anything).Return(cards, nil).Once()

	svc := NewCardService(apiMock, fakeIdentity{}, newTestStore(t), NewNoopLogger())
	_, err := svc.List(context.Background())
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.FilterByTitle(tt.query)
			gotIDs := make([]string, 0, len(got))
			for _, c := range got {
				gotIDs = append(gotIDs, c.ID)
			}
			assert.Equal(t, tt.wantIDs, gotIDs)
		})
	}
	apiMock.AssertExpectations(t)
}

func TestCardService_My(t *testing.T) {
	tests := []struct {
		name       string
		identity   fakeIdentity
		setupMocks func(apiMock *APIMock)
		wantErr    error
		wantLen    int
	}{
		{
			name:     "успешная выборка своих визиток",
			identity: fakeIdentity{loggedIn: true, userID: "u1"},
			setupMocks: func(apiMock *APIMock) {
				apiMock.On("ListMyCards", mock.Anything).
					Return([]models.Card{{ID: "1", UserID: "u1"}}, nil).Once()
			},
			wantLen: 1,
		},
		{
			name:       "без входа запрос не отправляется",
			identity:   fakeIdentity{},
			setupMocks: func(apiMock *APIMock) {},
			wantErr:    ErrLoginRequired,
		},
		{
			name:     "отказ сервера по токену превращается в ErrLoginRequired",
			identity: fakeIdentity{loggedIn: true, userID: "u1"},
			setupMocks: func(apiMock *APIMock) {
				apiMock.On("ListMyCards", mock.Anything).
					Return(nil, &api.Error{Status: 401, Message: "Invalid token"}).Once()
			},
			wantErr: ErrLoginRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiMock := new(APIMock)
			tt.setupMocks(apiMock)

			svc := NewCardService(apiMock, tt.identity, newTestStore(t), NewNoopLogger())
			cards, err := svc.My(context.Background())
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				require.NoError(t, err)
				assert.Len(t, cards, tt.wantLen)
			}
			apiMock.AssertExpectations(t)
		})
	}
}

func TestCardService_Create(t *testing.T) {
	created := &models.Card{ID: "card-42", Title: "Coffee Roasters", UserID: "u1"}

	tests := []struct {
		name       string
		identity   fakeIdentity
		form       models.DummyCard
		setupMocks func(apiMock *APIMock)
		wantErr    bool
	}{
		{
			name:     "успешное создание",
			identity: fakeIdentity{loggedIn: true, isBusiness: true, userID: "u1"},
			form:     validCardForm(),
			setupMocks: func(apiMock *APIMock) {
				apiMock.On("CreateCard", mock.Anything, validCardForm()).Return(created, nil).Once()
			},
		},
		{
			name:       "не бизнес-пользователь",
			identity:   fakeIdentity{loggedIn: true, userID: "u1"},
			form:       validCardForm(),
			setupMocks: func(apiMock *APIMock) {},
			wantErr:    true,
		},
		{
			name:     "невалидная форма не уходит на сервер",
			identity: fakeIdentity{loggedIn: true, isBusiness: true, userID: "u1"},
			form: models.DummyCard{
				Title: "x",
			},
			setupMocks: func(apiMock *APIMock) {},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiMock := new(APIMock)
			tt.setupMocks(apiMock)

			svc := NewCardService(apiMock, tt.identity, newTestStore(t), NewNoopLogger())
			card, err := svc.Create(context.Background(), tt.form)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "card-42", card.ID)
			}
			apiMock.AssertExpectations(t)
		})
	}
}

func TestCardService_Like_UpdatesCachedList(t *testing.T) {
	before := []models.Card{{ID: "1", Title: "Coffee Roasters", Likes: []string{}}}
	after := &models.Card{ID: "1", Title: "Coffee Roasters", Likes: []string{"u1"}}

	apiMock := new(APIMock)
	apiMock.On("ListCards", mock.Anything).Return(before, nil).Once()
	apiMock.On("ToggleLike", mock.Anything, "1", "u1").Return(after, nil).Once()

	svc := NewCardService(apiMock, fakeIdentity{loggedIn: true, userID: "u1"}, newTestStore(t), NewNoopLogger())
	_, err := svc.List(context.Background())
	require.NoError(t, err)

	card, err := svc.Like(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 1, card.LikeCount())

	// запись в кэше подменена ответом сервера
	cached := svc.FilterByTitle("")
	require.Len(t, cached, 1)
	assert.True(t, cached[0].LikedBy("u1"))
	apiMock.AssertExpectations(t)
}

func TestCardService_Delete_RemovesFromCachedList(t *testing.T) {
	apiMock := new(APIMock)
	apiMock.On("ListCards", mock.Anything).
		Return([]models.Card{{ID: "1"}, {ID: "2"}}, nil).Once()
	apiMock.On("DeleteCard", mock.Anything, "1").Return(nil).Once()

	svc := NewCardService(apiMock, fakeIdentity{loggedIn: true, userID: "u1"}, newTestStore(t), NewNoopLogger())
	_, err := svc.List(context.Background())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "1"))

	cached := svc.FilterByTitle("")
	require.Len(t, cached, 1)
	assert.Equal(t, "2", cached[0].ID)
	apiMock.AssertExpectations(t)
}

func TestCardService_PrefillEdit(t *testing.T) {
	card := &models.Card{ID: "1", Title: "Coffee Roasters", UserID: "owner"}

	tests := []struct {
		name     string
		identity fakeIdentity
		wantErr  error
	}{
		{
			name:     "владелец может редактировать",
			identity: fakeIdentity{loggedIn: true, userID: "owner"},
		},
		{
			name:     "администратор может редактировать чужую",
			identity: fakeIdentity{loggedIn: true, isAdmin: true, userID: "someone"},
		},
		{
			name:     "чужая визитка без прав",
			identity: fakeIdentity{loggedIn: true, userID: "someone"},
			wantErr:  ErrNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiMock := new(APIMock)
			apiMock.On("GetCard", mock.Anything, "1").Return(card, nil).Once()

			svc := NewCardService(apiMock, tt.identity, newTestStore(t), NewNoopLogger())
			form, err := svc.PrefillEdit(context.Background(), "1")
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				require.NoError(t, err)
				assert.Equal(t, "Coffee Roasters", form.Title)
			}
			apiMock.AssertExpectations(t)
		})
	}
}
