package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bcard-client/internal/lib/token"
	"github.com/magabrotheeeer/bcard-client/internal/models"
)

type SessionMock struct{ mock.Mock }

func (m *SessionMock) Login(tokenStr string) (*token.Claims, error) {
	args := m.Called(tokenStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*token.Claims), args.Error(1)
}

func (m *SessionMock) Logout() error {
	return m.Called().Error(0)
}

func (m *SessionMock) IsLoggedIn() bool {
	return m.Called().Bool(0)
}

func (m *SessionMock) UserID() string {
	return m.Called().String(0)
}

func validUserForm() models.DummyUser {
	return models.DummyUser{
		Name: models.DummyName{
			First: "Dana",
			Last:  "Levi",
		},
		Phone:    "0501234567",
		Email:    "dana@example.com",
		Password: "Abcdef12!",
		Address: models.DummyAddress{
			Country:     "Israel",
			City:        "Haifa",
			Street:      "Herzl",
			HouseNumber: 7,
			Zip:         31000,
		},
	}
}

func TestUserService_Register(t *testing.T) {
	tests := []struct {
		name       string
		form       models.DummyUser
		setupMocks func(apiMock *APIMock)
		wantErr    bool
	}{
		{
			name: "успешная регистрация",
			form: validUserForm(),
			setupMocks: func(apiMock *APIMock) {
				apiMock.On("RegisterUser", mock.Anything, validUserForm()).
					Return(&models.User{ID: "u1", Email: "dana@example.com"}, nil).Once()
			},
		},
		{
			name: "слабый пароль не уходит на сервер",
			form: func() models.DummyUser {
				f := validUserForm()
				f.Password = "password"
				return f
			}(),
			setupMocks: func(apiMock *APIMock) {},
			wantErr:    true,
		},
		{
			name: "кривая почта не уходит на сервер",
			form: func() models.DummyUser {
				f := validUserForm()
				f.Email = "not-an-email"
				return f
			}(),
			setupMocks: func(apiMock *APIMock) {},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiMock := new(APIMock)
			tt.setupMocks(apiMock)

			svc := NewUserService(apiMock, new(SessionMock), NewNoopLogger())
			user, err := svc.Register(context.Background(), tt.form)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "u1", user.ID)
			}
			apiMock.AssertExpectations(t)
		})
	}
}

func TestUserService_Login(t *testing.T) {
	claims := &token.Claims{UserID: "u1", IsBusiness: true}

	t.Run("успешный вход", func(t *testing.T) {
		apiMock := new(APIMock)
		apiMock.On("Login", mock.Anything, models.DummyLogin{Email: "dana@example.com", Password: "Abcdef12!"}).
			Return("token-string", nil).Once()
		sessionMock := new(SessionMock)
		sessionMock.On("IsLoggedIn").Return(false).Once()
		sessionMock.On("Login", "token-string").Return(claims, nil).Once()

		svc := NewUserService(apiMock, sessionMock, NewNoopLogger())
		got, err := svc.Login(context.Background(), "dana@example.com", "Abcdef12!")
		require.NoError(t, err)
		assert.Equal(t, "u1", got.UserID)
		apiMock.AssertExpectations(t)
		sessionMock.AssertExpectations(t)
	})

	t.Run("повторный вход поверх сессии запрещён", func(t *testing.T) {
		apiMock := new(APIMock)
		sessionMock := new(SessionMock)
		sessionMock.On("IsLoggedIn").Return(true).Once()

		svc := NewUserService(apiMock, sessionMock, NewNoopLogger())
		_, err := svc.Login(context.Background(), "dana@example.com", "Abcdef12!")
		assert.True(t, errors.Is(err, ErrAlreadyLoggedIn))
		apiMock.AssertExpectations(t)
	})

	t.Run("отказ сервера не открывает сессию", func(t *testing.T) {
		apiMock := new(APIMock)
		apiMock.On("Login", mock.Anything, mock.Anything).
			Return("", errors.New("Invalid email or password")).Once()
		sessionMock := new(SessionMock)
		sessionMock.On("IsLoggedIn").Return(false).Once()

		svc := NewUserService(apiMock, sessionMock, NewNoopLogger())
		_, err := svc.Login(context.Background(), "dana@example.com", "wrong")
		assert.Error(t, err)
		sessionMock.AssertNotCalled(t, "Login", mock.Anything)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	form := models.DummyUserUpdate{
		Name:  models.DummyName{First: "Dana", Last: "Levi"},
		Phone: "0501234567",
		Address: models.DummyAddress{
			Country:     "Israel",
			City:        "Haifa",
			Street:      "Herzl",
			HouseNumber: 7,
			Zip:         31000,
		},
	}

	t.Run("обновление своего профиля", func(t *testing.T) {
		apiMock := new(APIMock)
		apiMock.On("UpdateUser", mock.Anything, "u1", form).
			Return(&models.User{ID: "u1"}, nil).Once()
		sessionMock := new(SessionMock)
		sessionMock.On("IsLoggedIn").Return(true).Once()
		sessionMock.On("UserID").Return("u1").Once()

		svc := NewUserService(apiMock, sessionMock, NewNoopLogger())
		user, err := svc.UpdateProfile(context.Background(), form)
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
		apiMock.AssertExpectations(t)
	})

	t.Run("без входа", func(t *testing.T) {
		sessionMock := new(SessionMock)
		sessionMock.On("IsLoggedIn").Return(false).Once()

		svc := NewUserService(new(APIMock), sessionMock, NewNoopLogger())
		_, err := svc.UpdateProfile(context.Background(), form)
		assert.True(t, errors.Is(err, ErrLoginRequired))
	})
}
