package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/bcard-client/internal/models"
	"github.com/magabrotheeeer/bcard-client/internal/services"
)

// cardFormFlags навешивает на fs флаги формы визитки. Значения по умолчанию
// берутся из prefill, поэтому одна и та же форма обслуживает и создание,
// и редактирование.
func cardFormFlags(fs *flag.FlagSet, prefill models.DummyCard) *models.DummyCard {
	form := prefill
	fs.StringVar(&form.Title, "title", prefill.Title, "card title")
	fs.StringVar(&form.Subtitle, "subtitle", prefill.Subtitle, "card subtitle")
	fs.StringVar(&form.Description, "description", prefill.Description, "card description")
	fs.StringVar(&form.Phone, "phone", prefill.Phone, "business phone")
	fs.StringVar(&form.Email, "email", prefill.Email, "business email")
	fs.StringVar(&form.Web, "web", prefill.Web, "business site URL")
	fs.StringVar(&form.Image.URL, "image-url", prefill.Image.URL, "image URL (optional)")
	fs.StringVar(&form.Image.Alt, "image-alt", prefill.Image.Alt, "image caption (optional)")
	fs.StringVar(&form.Address.State, "state", prefill.Address.State, "state (optional)")
	fs.StringVar(&form.Address.Country, "country", prefill.Address.Country, "country")
	fs.StringVar(&form.Address.City, "city", prefill.Address.City, "city")
	fs.StringVar(&form.Address.Street, "street", prefill.Address.Street, "street")
	fs.IntVar(&form.Address.HouseNumber, "house", prefill.Address.HouseNumber, "house number")
	fs.IntVar(&form.Address.Zip, "zip", prefill.Address.Zip, "zip code")
	return &form
}

func (a *App) printCard(card models.Card, favorite bool) {
	marker := " "
	if favorite {
		marker = "*"
	}
	fmt.Fprintf(a.out, "%s %s  %s — %s (likes: %d)\n", marker, card.ID, card.Title, card.Subtitle, card.LikeCount())
}

func (a *App) printCardDetails(card *models.Card, favorite bool) {
	a.printCard(*card, favorite)
	fmt.Fprintf(a.out, "  %s\n", card.Description)
	fmt.Fprintf(a.out, "  phone: %s, email: %s, web: %s\n", card.Phone, card.Email, card.Web)
	addr := card.Address
	fmt.Fprintf(a.out, "  address: %s, %s %d, %d\n", addr.Country, addr.Street, addr.HouseNumber, addr.Zip)
	fmt.Fprintf(a.out, "  image: %s\n", card.ImageURL())
	if card.BizNumber != 0 {
		fmt.Fprintf(a.out, "  business number: %d\n", card.BizNumber)
	}
}

func (a *App) listCards(cards []models.Card, favorites *services.FavoritesService) {
	if len(cards) == 0 {
		fmt.Fprintln(a.out, "no cards found")
		return
	}
	for _, card := range cards {
		fav, _ := favorites.IsFavorite(card.ID)
		a.printCard(card, fav)
	}
}

// RegisterCardCommands добавляет команды каталога визиток.
func (a *App) RegisterCardCommands(cards *services.CardService, favorites *services.FavoritesService) {
	a.Register(&Command{
		Name:  "cards",
		Usage: "cards [-q query]",
		Help:  "list all cards, optionally filtered by title",
		Run: func(ctx context.Context, args []string) error {
			fs := flag.NewFlagSet("cards", flag.ContinueOnError)
			fs.SetOutput(a.out)
			query := fs.String("q", "", "case-insensitive title substring")
			if err := fs.Parse(args); err != nil {
				return err
			}

			if _, err := cards.List(ctx); err != nil {
				return err
			}
			a.listCards(cards.FilterByTitle(*query), favorites)
			return nil
		},
	})

	a.Register(&Command{
		Name:  "card",
		Usage: "card <id>",
		Help:  "show one card in detail",
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: card <id>")
			}
			card, err := cards.Get(ctx, args[0])
			if err != nil {
				return err
			}
			fav, _ := favorites.IsFavorite(card.ID)
			a.printCardDetails(card, fav)
			return nil
		},
	})

	a.Register(&Command{
		Name:    "mycards",
		Usage:   "mycards",
		Help:    "list cards you own",
		Visible: a.identity.IsLoggedIn,
		Run: func(ctx context.Context, args []string) error {
			my, err := cards.My(ctx)
			if err != nil {
				return err
			}
			a.listCards(my, favorites)
			return nil
		},
	})

	a.Register(&Command{
		Name:    "newcard",
		Usage:   "newcard -title ... -country ...",
		Help:    "create a card (business accounts only)",
		Visible: a.identity.IsBusiness,
		Run: func(ctx context.Context, args []string) error {
			fs := flag.NewFlagSet("newcard", flag.ContinueOnError)
			fs.SetOutput(a.out)
			form := cardFormFlags(fs, models.DummyCard{})
			if err := fs.Parse(args); err != nil {
				return err
			}

			card, err := cards.Create(ctx, *form)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "created card %s\n", card.ID)
			return nil
		},
	})

	a.Register(&Command{
		Name:  "editcard",
		Usage: "editcard <id> [-title ...]",
		Help:  "edit a card you own; omitted flags keep current values",
		Visible: func() bool {
			return a.identity.IsBusiness() || a.identity.IsAdmin()
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) < 1 || strings.HasPrefix(args[0], "-") {
				return fmt.Errorf("usage: editcard <id> [flags]")
			}
			id := args[0]

			prefill, err := cards.PrefillEdit(ctx, id)
			if err != nil {
				return err
			}

			fs := flag.NewFlagSet("editcard", flag.ContinueOnError)
			fs.SetOutput(a.out)
			form := cardFormFlags(fs, prefill)
			if err := fs.Parse(args[1:]); err != nil {
				return err
			}

			card, err := cards.Update(ctx, id, *form)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "updated card %s\n", card.ID)
			return nil
		},
	})

	a.Register(&Command{
		Name:    "delete-card",
		Usage:   "delete-card <id>",
		Help:    "delete a card (admins only)",
		Visible: a.identity.IsAdmin,
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: delete-card <id>")
			}
			if err := cards.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "deleted card %s\n", args[0])
			return nil
		},
	})

	a.Register(&Command{
		Name:    "like",
		Usage:   "like <id>",
		Help:    "toggle your like on a card",
		Visible: a.identity.IsLoggedIn,
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: like <id>")
			}
			card, err := cards.Like(ctx, args[0])
			if err != nil {
				return err
			}
			state := "liked"
			if !card.LikedBy(a.identity.UserID()) {
				state = "unliked"
			}
			fmt.Fprintf(a.out, "%s %q, likes now: %d\n", state, card.Title, card.LikeCount())
			return nil
		},
	})

	a.Register(&Command{
		Name:    "fav",
		Usage:   "fav <id>",
		Help:    "toggle a card in your local favorites",
		Visible: a.identity.IsLoggedIn,
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: fav <id>")
			}
			added, err := favorites.Toggle(args[0])
			if err != nil {
				return err
			}
			if added {
				fmt.Fprintf(a.out, "added %s to favorites\n", args[0])
			} else {
				fmt.Fprintf(a.out, "removed %s from favorites\n", args[0])
			}
			return nil
		},
	})

	a.Register(&Command{
		Name:    "favorites",
		Usage:   "favorites",
		Help:    "list cards from your local favorites",
		Visible: a.identity.IsLoggedIn,
		Run: func(ctx context.Context, args []string) error {
			list, err := favorites.List(ctx)
			if err != nil {
				return err
			}
			a.listCards(list, favorites)
			return nil
		},
	})
}
