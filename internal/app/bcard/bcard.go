// Package bcard собирает клиент каталога визиток: локальное хранилище,
// сессию, HTTP-клиент, прикладные сервисы и консольные команды.
package bcard

import (
	"context"
	"io"
	"log/slog"

	"github.com/magabrotheeeer/bcard-client/internal/api"
	"github.com/magabrotheeeer/bcard-client/internal/cli"
	"github.com/magabrotheeeer/bcard-client/internal/config"
	"github.com/magabrotheeeer/bcard-client/internal/services"
	"github.com/magabrotheeeer/bcard-client/internal/session"
	"github.com/magabrotheeeer/bcard-client/internal/storage"
)

type App struct {
	cli    *cli.App
	logger *slog.Logger
}

func New(cfg *config.Config, out io.Writer, logger *slog.Logger) (*App, error) {
	store, err := storage.NewFileStore(cfg.StateDir)
	if err != nil {
		return nil, err
	}

	sess := session.New(store, logger)
	client := api.New(cfg, store, logger)

	cardService := services.NewCardService(client, sess, store, logger)
	favoritesService := services.NewFavoritesService(client, store, logger)
	userService := services.NewUserService(client, sess, logger)
	adminService := services.NewAdminService(client, sess, logger)

	app := cli.NewApp(sess, out, logger)
	app.RegisterUserCommands(userService, store)
	app.RegisterCardCommands(cardService, favoritesService)
	app.RegisterAdminCommands(adminService)

	return &App{cli: app, logger: logger}, nil
}

// Run выполняет одну команду. Ошибка уже показана пользователю,
// вызывающему она нужна только для кода выхода.
func (a *App) Run(ctx context.Context, args []string) error {
	return a.cli.Run(ctx, args)
}
