package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/magabrotheeeer/bcard-client/internal/models"
	"github.com/magabrotheeeer/bcard-client/internal/services"
	"github.com/magabrotheeeer/bcard-client/internal/storage"
)

func notLoggedIn(identity services.Identity) func() bool {
	return func() bool { return !identity.IsLoggedIn() }
}

// RegisterUserCommands добавляет команды аккаунта: вход, выход, регистрацию,
// профиль и тему оформления.
func (a *App) RegisterUserCommands(users *services.UserService, store storage.Store) {
	a.Register(&Command{
		Name:    "login",
		Usage:   "login <email> <password>",
		Help:    "sign in and remember the token locally",
		Visible: notLoggedIn(a.identity),
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("usage: login <email> <password>")
			}
			claims, err := users.Login(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "logged in as %s", claims.UserID)
			switch {
			case claims.IsAdmin:
				fmt.Fprint(a.out, " (admin)")
			case claims.IsBusiness:
				fmt.Fprint(a.out, " (business)")
			}
			fmt.Fprintln(a.out)
			return nil
		},
	})

	a.Register(&Command{
		Name:    "logout",
		Usage:   "logout",
		Help:    "forget the stored token",
		Visible: a.identity.IsLoggedIn,
		Run: func(ctx context.Context, args []string) error {
			if err := users.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "logged out")
			return nil
		},
	})

	a.Register(&Command{
		Name:    "register",
		Usage:   "register -email ... -password ...",
		Help:    "create an account, then login separately",
		Visible: notLoggedIn(a.identity),
		Run: func(ctx context.Context, args []string) error {
			fs := flag.NewFlagSet("register", flag.ContinueOnError)
			fs.SetOutput(a.out)
			var form models.DummyUser
			fs.StringVar(&form.Name.First, "first", "", "first name")
			fs.StringVar(&form.Name.Middle, "middle", "", "middle name (optional)")
			fs.StringVar(&form.Name.Last, "last", "", "last name")
			fs.StringVar(&form.Phone, "phone", "", "phone")
			fs.StringVar(&form.Email, "email", "", "email")
			fs.StringVar(&form.Password, "password", "", "password")
			fs.StringVar(&form.Image.URL, "image-url", "", "avatar URL (optional)")
			fs.StringVar(&form.Image.Alt, "image-alt", "", "avatar caption (optional)")
			fs.StringVar(&form.Address.State, "state", "", "state (optional)")
			fs.StringVar(&form.Address.Country, "country", "", "country")
			fs.StringVar(&form.Address.City, "city", "", "city")
			fs.StringVar(&form.Address.Street, "street", "", "street")
			fs.IntVar(&form.Address.HouseNumber, "house", 0, "house number")
			fs.IntVar(&form.Address.Zip, "zip", 0, "zip code")
			fs.BoolVar(&form.IsBusiness, "business", false, "request a business account")
			if err := fs.Parse(args); err != nil {
				return err
			}

			user, err := users.Register(ctx, form)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "registered %s, now run: login %s <password>\n", user.FullName(), user.Email)
			return nil
		},
	})

	a.Register(&Command{
		Name:    "profile",
		Usage:   "profile -first ... -last ...",
		Help:    "update your profile",
		Visible: a.identity.IsLoggedIn,
		Run: func(ctx context.Context, args []string) error {
			fs := flag.NewFlagSet("profile", flag.ContinueOnError)
			fs.SetOutput(a.out)
			var form models.DummyUserUpdate
			fs.StringVar(&form.Name.First, "first", "", "first name")
			fs.StringVar(&form.Name.Middle, "middle", "", "middle name (optional)")
			fs.StringVar(&form.Name.Last, "last", "", "last name")
			fs.StringVar(&form.Phone, "phone", "", "phone")
			fs.StringVar(&form.Image.URL, "image-url", "", "avatar URL (optional)")
			fs.StringVar(&form.Image.Alt, "image-alt", "", "avatar caption (optional)")
			fs.StringVar(&form.Address.State, "state", "", "state (optional)")
			fs.StringVar(&form.Address.Country, "country", "", "country")
			fs.StringVar(&form.Address.City, "city", "", "city")
			fs.StringVar(&form.Address.Street, "street", "", "street")
			fs.IntVar(&form.Address.HouseNumber, "house", 0, "house number")
			fs.IntVar(&form.Address.Zip, "zip", 0, "zip code")
			if err := fs.Parse(args); err != nil {
				return err
			}

			user, err := users.UpdateProfile(ctx, form)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "updated profile of %s\n", user.FullName())
			return nil
		},
	})

	a.Register(&Command{
		Name:  "theme",
		Usage: "theme [dark|light]",
		Help:  "show or switch the color theme",
		Run: func(ctx context.Context, args []string) error {
			switch len(args) {
			case 0:
				fmt.Fprintf(a.out, "current theme: %s\n", store.Theme())
				return nil
			case 1:
				if args[0] != storage.ThemeDark && args[0] != storage.ThemeLight {
					return fmt.Errorf("unknown theme %q, want %q or %q", args[0], storage.ThemeDark, storage.ThemeLight)
				}
				if err := store.SetTheme(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "theme set to %s\n", args[0])
				return nil
			default:
				return fmt.Errorf("usage: theme [dark|light]")
			}
		},
	})
}
