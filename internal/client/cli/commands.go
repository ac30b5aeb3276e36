package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/client/api"
)

var errUsage = errors.New("usage")

func usage(format string) error {
	return fmt.Errorf("%w: %s", errUsage, format)
}

// argID parses args[i] as a positive id.
func argID(args []string, i int, format string) (int64, error) {
	if len(args) <= i {
		return 0, usage(format)
	}
	id, err := strconv.ParseInt(args[i], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[i])
	}
	return id, nil
}

// checked post-processes errors from protected calls: an unreachable server
// switches to offline mode and a rejected token ends the local session.
func (a *App) checked(err error) error {
	switch {
	case err == nil:
		a.setMode(ModeOnline)
	case errors.Is(err, api.ErrUnavailable):
		a.setMode(ModeOffline)
	case api.IsUnauthorized(err):
		a.setSession("", time.Time{})
		return fmt.Errorf("session is no longer valid, please login again: %w", err)
	}
	return err
}

func (a *App) credentials(args []string) (string, string, error) {
	var userName string
	var err error
	if len(args) > 0 {
		userName = args[0]
	} else {
		userName, err = GetSimpleText(a.reader, "Enter user name", a.out)
		if err != nil {
			return "", "", err
		}
	}

	password, err := GetPassword(a.reader, a.out)
	if err != nil {
		return "", "", err
	}
	return userName, password, nil
}

func (a *App) Register(ctx context.Context, args []string) error {
	userName, password, err := a.credentials(args)
	if err != nil {
		return err
	}

	id, err := a.backend.Register(ctx, userName, password)
	if err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			a.setMode(ModeOffline)
		}
		return err
	}

	fmt.Fprintf(a.out, "User %s created (id %d). You can login now.\n", userName, id)
	return nil
}

func (a *App) Login(ctx context.Context, args []string) error {
	userName, password, err := a.credentials(args)
	if err != nil {
		return err
	}

	s, err := a.backend.Login(ctx, userName, password)
	if err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			a.setMode(ModeOffline)
		}
		return err
	}

	a.setSession(userName, s.ExpiresAt)
	a.setMode(ModeOnline)
	fmt.Fprintf(a.out, "Login successful, session valid until %s\n", s.ExpiresAt.Local().Format(time.DateTime))
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	err := a.backend.Logout(ctx)
	a.setSession("", time.Time{})
	if err != nil && !api.IsUnauthorized(err) {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) DeleteAccount(ctx context.Context, _ []string) error {
	ok, err := GetYesNo(a.reader, "Delete your account and all your recipes?", a.out)
	if err != nil || !ok {
		return err
	}

	if err := a.checked(a.backend.DeleteAccount(ctx)); err != nil {
		return err
	}
	a.setSession("", time.Time{})
	fmt.Fprintln(a.out, "Account deleted")
	return nil
}

func (a *App) printRecipes(recipes []api.Recipe) {
	if len(recipes) == 0 {
		fmt.Fprintln(a.out, "No recipes found")
		return
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBY\tTAGS\tREVIEWS")
	for _, r := range recipes {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", r.ID, r.Name, r.User, strings.Join(r.Tags, ","), len(r.Reviews))
	}
	w.Flush()
}

// List shows all recipes, or the ones matching the words given.
func (a *App) List(ctx context.Context, args []string) error {
	recipes, err := a.backend.ListRecipes(ctx, strings.Join(args, " "), "")
	if err := a.checked(err); err != nil {
		return err
	}
	a.printRecipes(recipes)
	return nil
}

// Find shows the recipes named exactly as given.
func (a *App) Find(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("find <name>")
	}
	recipes, err := a.backend.ListRecipes(ctx, "", strings.Join(args, " "))
	if err := a.checked(err); err != nil {
		return err
	}
	a.printRecipes(recipes)
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := argID(args, 0, "show <id>")
	if err != nil {
		return err
	}

	r, err := a.backend.GetRecipe(ctx, id)
	if err := a.checked(err); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (by %s, %s)\n", r.Name, r.User, r.CreatedAt)
	if len(r.Tags) > 0 {
		fmt.Fprintf(a.out, "Tags: %s\n", strings.Join(r.Tags, ", "))
	}
	fmt.Fprintf(a.out, "\nIngredients:\n%s\n\nInstructions:\n%s\n", r.Ingredients, r.Instructions)
	return nil
}

func (a *App) Add(ctx context.Context, _ []string) error {
	var r api.NewRecipe
	var err error

	if r.Name, err = GetSimpleText(a.reader, "Recipe name", a.out); err != nil {
		return err
	}
	if r.Ingredients, err = GetMultiline(a.reader, "Ingredients", a.out); err != nil {
		return err
	}
	if r.Instructions, err = GetMultiline(a.reader, "Instructions", a.out); err != nil {
		return err
	}
	if r.Tags, err = GetList(a.reader, "Tags", a.out); err != nil {
		return err
	}

	id, err := a.backend.CreateRecipe(ctx, r)
	if err := a.checked(err); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Recipe created (id %d)\n", id)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := argID(args, 0, "delete <id>")
	if err != nil {
		return err
	}
	if err := a.checked(a.backend.DeleteRecipe(ctx, id)); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Recipe deleted")
	return nil
}

func (a *App) Tag(ctx context.Context, args []string) error {
	const format = "tag <recipe-id> <name>"
	recipeID, err := argID(args, 0, format)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return usage(format)
	}

	id, err := a.backend.AddTag(ctx, recipeID, strings.Join(args[1:], " "))
	if err := a.checked(err); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Tag created (id %d)\n", id)
	return nil
}

func (a *App) TagShow(ctx context.Context, args []string) error {
	id, err := argID(args, 0, "tagshow <id>")
	if err != nil {
		return err
	}

	tag, err := a.backend.GetTag(ctx, id)
	if err := a.checked(err); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (id %d)\n", tag.Name, tag.ID)
	for _, name := range tag.Recipes {
		fmt.Fprintf(a.out, "  - %s\n", name)
	}
	return nil
}

func (a *App) TagRename(ctx context.Context, args []string) error {
	const format = "tagrename <id> <name>"
	id, err := argID(args, 0, format)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return usage(format)
	}

	if err := a.checked(a.backend.RenameTag(ctx, id, strings.Join(args[1:], " "))); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Tag renamed")
	return nil
}

func (a *App) TagDelete(ctx context.Context, args []string) error {
	id, err := argID(args, 0, "tagdelete <id>")
	if err != nil {
		return err
	}
	if err := a.checked(a.backend.DeleteTag(ctx, id)); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Tag deleted")
	return nil
}

func (a *App) Review(ctx context.Context, args []string) error {
	recipeID, err := argID(args, 0, "review <recipe-id>")
	if err != nil {
		return err
	}

	content, err := GetMultiline(a.reader, "Your review", a.out)
	if err != nil {
		return err
	}
	anonymous, err := GetYesNo(a.reader, "Post anonymously?", a.out)
	if err != nil {
		return err
	}

	id, err := a.backend.AddReview(ctx, recipeID, content, anonymous)
	if err := a.checked(err); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Review added (id %d)\n", id)
	return nil
}

func (a *App) Reviews(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("reviews <recipe-name>")
	}

	reviews, err := a.backend.ListReviews(ctx, strings.Join(args, " "))
	if err := a.checked(err); err != nil {
		return err
	}

	if len(reviews) == 0 {
		fmt.Fprintln(a.out, "No reviews yet")
		return nil
	}
	for _, r := range reviews {
		fmt.Fprintf(a.out, "#%d %s: %s\n", r.ID, r.Reviewer, r.Content)
	}
	return nil
}

func (a *App) Unreview(ctx context.Context, args []string) error {
	id, err := argID(args, 0, "unreview <id>")
	if err != nil {
		return err
	}
	if err := a.checked(a.backend.DeleteReview(ctx, id)); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Review deleted")
	return nil
}
