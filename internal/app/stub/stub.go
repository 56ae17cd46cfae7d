// Package stub поднимает локальную заглушку bcard API для разработки
// и ручной проверки клиента без настоящего сервера.
package stub

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/magabrotheeeer/bcard-client/internal/config"
	"github.com/magabrotheeeer/bcard-client/internal/models"
	"github.com/magabrotheeeer/bcard-client/internal/stubapi"
)

type App struct {
	server *http.Server
	stub   *stubapi.Server
	logger *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	stubServer := stubapi.New(logger, cfg.Stub.Secret, cfg.Stub.TokenTTL)

	// стартовые данные, чтобы клиенту было что показывать
	admin, err := stubServer.SeedUser(models.User{
		Name:    models.Name{First: "Ada", Last: "Admin"},
		Phone:   "0501234567",
		Email:   "admin@bcard.local",
		IsAdmin: true,
	}, "Admin123!")
	if err != nil {
		return nil, err
	}
	business, err := stubServer.SeedUser(models.User{
		Name:       models.Name{First: "Boris", Last: "Business"},
		Phone:      "0507654321",
		Email:      "business@bcard.local",
		IsBusiness: true,
	}, "Business123!")
	if err != nil {
		return nil, err
	}
	stubServer.SeedCard(models.Card{
		Title:       "Coffee Roasters",
		Subtitle:    "Specialty coffee",
		Description: "Small batch roastery in the city center",
		Phone:       "0501112233",
		Email:       "hello@roasters.local",
		Web:         "https://roasters.local",
		Address: models.Address{
			Country:     "Israel",
			City:        "Tel Aviv",
			Street:      "Dizengoff",
			HouseNumber: 12,
			Zip:         61000,
		},
		UserID: business.ID,
	})
	logger.Info("seeded stub data",
		slog.String("admin_email", admin.Email),
		slog.String("business_email", business.Email))

	srv := &http.Server{
		Addr:         cfg.Stub.Address,
		Handler:      stubServer.Handler(),
		ReadTimeout:  cfg.API.Timeout,
		WriteTimeout: cfg.API.Timeout,
		IdleTimeout:  cfg.Stub.IdleTimeout,
	}

	return &App{server: srv, stub: stubServer, logger: logger}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("stub API starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down stub API gracefully")
		return a.server.Shutdown(timeoutCtx)
	}
}
