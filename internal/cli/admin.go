package cli

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/bcard-client/internal/models"
	"github.com/magabrotheeeer/bcard-client/internal/services"
)

func (a *App) printUser(user models.User) {
	role := "user"
	switch {
	case user.IsAdmin:
		role = "admin"
	case user.IsBusiness:
		role = "business"
	}
	fmt.Fprintf(a.out, "%s  %s <%s> [%s]\n", user.ID, user.FullName(), user.Email, role)
}

// RegisterAdminCommands добавляет команды панели администратора.
// Все они видны только администраторам.
func (a *App) RegisterAdminCommands(admin *services.AdminService) {
	a.Register(&Command{
		Name:    "users",
		Usage:   "users [-q query]",
		Help:    "list all users, optionally filtered by name or email",
		Visible: a.identity.IsAdmin,
		Run: func(ctx context.Context, args []string) error {
			fs := flag.NewFlagSet("users", flag.ContinueOnError)
			fs.SetOutput(a.out)
			query := fs.String("q", "", "case-insensitive name or email substring")
			if err := fs.Parse(args); err != nil {
				return err
			}

			if _, err := admin.Users(ctx); err != nil {
				return err
			}
			matched := admin.Search(*query)
			if len(matched) == 0 {
				fmt.Fprintln(a.out, "no users found")
				return nil
			}
			for _, user := range matched {
				a.printUser(user)
			}
			return nil
		},
	})

	a.Register(&Command{
		Name:    "user-cards",
		Usage:   "user-cards <user-id>",
		Help:    "list cards owned by a user",
		Visible: a.identity.IsAdmin,
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: user-cards <user-id>")
			}
			cards, err := admin.CardsOf(ctx, args[0])
			if err != nil {
				return err
			}
			if len(cards) == 0 {
				fmt.Fprintln(a.out, "no cards")
				return nil
			}
			for _, card := range cards {
				a.printCard(card, false)
			}
			return nil
		},
	})

	a.Register(&Command{
		Name:    "edit-user",
		Usage:   "edit-user <user-id> -first ... -last ...",
		Help:    "replace the editable fields of a user",
		Visible: a.identity.IsAdmin,
		Run: func(ctx context.Context, args []string) error {
			if len(args) < 1 || strings.HasPrefix(args[0], "-") {
				return fmt.Errorf("usage: edit-user <user-id> [flags]")
			}
			id := args[0]

			fs := flag.NewFlagSet("edit-user", flag.ContinueOnError)
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
			if err := fs.Parse(args[1:]); err != nil {
				return err
			}

			if err := admin.UpdateUser(ctx, id, form); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "updated user %s\n", id)
			return nil
		},
	})

	a.Register(&Command{
		Name:    "set-business",
		Usage:   "set-business <user-id> <true|false>",
		Help:    "grant or revoke the business status of a user",
		Visible: a.identity.IsAdmin,
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("usage: set-business <user-id> <true|false>")
			}
			isBusiness, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("bad flag value %q: %w", args[1], err)
			}
			if err := admin.SetBusiness(ctx, args[0], isBusiness); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "business status of %s set to %v\n", args[0], isBusiness)
			return nil
		},
	})

	a.Register(&Command{
		Name:    "delete-user",
		Usage:   "delete-user <user-id>",
		Help:    "delete a user account",
		Visible: a.identity.IsAdmin,
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: delete-user <user-id>")
			}
			if err := admin.DeleteUser(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "deleted user %s\n", args[0])
			return nil
		},
	})
}
