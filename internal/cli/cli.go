// Package cli реализует консольный интерфейс каталога визиток: реестр команд
// с видимостью по ролям текущего пользователя. Скрытая команда не выполняется
// и не ходит на сервер, пользователю объясняется причина отказа.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/magabrotheeeer/bcard-client/internal/services"
)

// Command — одна консольная команда.
type Command struct {
	Name  string
	Usage string
	Help  string

	// Visible сообщает, доступна ли команда текущему пользователю.
	// nil означает, что команда видна всем.
	Visible func() bool

	Run func(ctx context.Context, args []string) error
}

// App — реестр команд и точка диспетчеризации.
type App struct {
	identity services.Identity
	out      io.Writer
	log      *slog.Logger
	commands map[string]*Command
	order    []string
}

// NewApp создаёт пустой реестр. Команды добавляются через Register.
func NewApp(identity services.Identity, out io.Writer, log *slog.Logger) *App {
	return &App{
		identity: identity,
		out:      out,
		log:      log,
		commands: make(map[string]*Command),
	}
}

// Register добавляет команду в реестр. Повторная регистрация имени — ошибка
// программиста, поэтому паника.
func (a *App) Register(cmd *Command) {
	if _, ok := a.commands[cmd.Name]; ok {
		panic(fmt.Sprintf("cli: duplicate command %q", cmd.Name))
	}
	a.commands[cmd.Name] = cmd
	a.order = append(a.order, cmd.Name)
}

func (a *App) visible(cmd *Command) bool {
	return cmd.Visible == nil || cmd.Visible()
}

// Run разбирает аргументы и выполняет команду. Ошибки выполнения печатаются
// пользователю вместе с текстом ответа сервера и возвращаются вызывающему
// для кода выхода.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.printHelp()
		return nil
	}

	name := args[0]
	if name == "help" {
		a.printHelp()
		return nil
	}

	cmd, ok := a.commands[name]
	if !ok {
		fmt.Fprintf(a.out, "unknown command %q, run \"help\" for the list\n", name)
		return fmt.Errorf("unknown command %q", name)
	}

	if !a.visible(cmd) {
		// скрытая команда не выполняется: запрос на сервер не уходит
		if !a.identity.IsLoggedIn() {
			fmt.Fprintf(a.out, "please login first: %q requires an account\n", name)
		} else {
			fmt.Fprintf(a.out, "command %q is not available for your role\n", name)
		}
		return fmt.Errorf("command %q not available", name)
	}

	if err := cmd.Run(ctx, args[1:]); err != nil {
		a.printError(err)
		return err
	}
	return nil
}

// printError показывает ошибку так, как SPA показывал блокирующий alert:
// текст ответа сервера целиком, без переформулировок.
func (a *App) printError(err error) {
	switch {
	case errors.Is(err, services.ErrLoginRequired):
		fmt.Fprintln(a.out, "ERROR: please login first")
	case errors.Is(err, services.ErrNotAllowed):
		fmt.Fprintln(a.out, "ERROR: operation not allowed for your role")
	default:
		fmt.Fprintf(a.out, "ERROR: %v\n", err)
	}
}

// printHelp перечисляет только видимые сейчас команды в порядке регистрации.
func (a *App) printHelp() {
	fmt.Fprintln(a.out, "bcard — business card directory client")
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Commands:")

	for _, name := range a.order {
		cmd := a.commands[name]
		if !a.visible(cmd) {
			continue
		}
		fmt.Fprintf(a.out, "  %-40s %s\n", cmd.Usage, cmd.Help)
	}
}
