package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/logging"
	"github.com/dmitrijs2005/recipebox/internal/server/auth"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
)

// ---- fakes ----

type fakeUsers struct {
	registerFn func(ctx context.Context, userName, password string) (*models.User, error)
	loginFn    func(ctx context.Context, userName, password string) (*auth.Token, error)
	identifyFn func(ctx context.Context, userID int64) (auth.Identity, error)
	deleteFn   func(ctx context.Context, userID int64) error
}

func (f *fakeUsers) Register(ctx context.Context, userName, password string) (*models.User, error) {
	return f.registerFn(ctx, userName, password)
}
func (f *fakeUsers) Login(ctx context.Context, userName, password string) (*auth.Token, error) {
	return f.loginFn(ctx, userName, password)
}
func (f *fakeUsers) Identify(ctx context.Context, userID int64) (auth.Identity, error) {
	if f.identifyFn == nil {
		return auth.Identity{UserID: userID, UserName: "alice"}, nil
	}
	return f.identifyFn(ctx, userID)
}
func (f *fakeUsers) Delete(ctx context.Context, userID int64) error {
	return f.deleteFn(ctx, userID)
}

type fakeRecipes struct {
	createFn func(ctx context.Context, owner auth.Identity, draft models.RecipeDraft) (*models.Recipe, error)
	listFn   func(ctx context.Context, filter models.RecipeFilter) ([]*models.Recipe, error)
	getFn    func(ctx context.Context, id int64) (*models.Recipe, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (f *fakeRecipes) Create(ctx context.Context, owner auth.Identity, draft models.RecipeDraft) (*models.Recipe, error) {
	return f.createFn(ctx, owner, draft)
}
func (f *fakeRecipes) List(ctx context.Context, filter models.RecipeFilter) ([]*models.Recipe, error) {
	return f.listFn(ctx, filter)
}
func (f *fakeRecipes) Get(ctx context.Context, id int64) (*models.Recipe, error) {
	return f.getFn(ctx, id)
}
func (f *fakeRecipes) Delete(ctx context.Context, id int64) error {
	return f.deleteFn(ctx, id)
}

type fakeTags struct {
	createFn func(ctx context.Context, recipeID int64, name string) (*models.Tag, error)
	getFn    func(ctx context.Context, id int64) (*models.Tag, error)
	renameFn func(ctx context.Context, id int64, name string) error
	deleteFn func(ctx context.Context, id int64) error
}

func (f *fakeTags) Create(ctx context.Context, recipeID int64, name string) (*models.Tag, error) {
	return f.createFn(ctx, recipeID, name)
}
func (f *fakeTags) Get(ctx context.Context, id int64) (*models.Tag, error) {
	return f.getFn(ctx, id)
}
func (f *fakeTags) Rename(ctx context.Context, id int64, name string) error {
	return f.renameFn(ctx, id, name)
}
func (f *fakeTags) Delete(ctx context.Context, id int64) error {
	return f.deleteFn(ctx, id)
}

type fakeReviews struct {
	createFn func(ctx context.Context, recipeID int64, content string, anonymous bool, author auth.Identity) (*models.Review, error)
	listFn   func(ctx context.Context, recipeName string) ([]*models.Review, error)
	deleteFn func(ctx context.Context, reviewID int64, requester int64) error
}

func (f *fakeReviews) Create(ctx context.Context, recipeID int64, content string, anonymous bool, author auth.Identity) (*models.Review, error) {
	return f.createFn(ctx, recipeID, content, anonymous, author)
}
func (f *fakeReviews) ListForRecipe(ctx context.Context, recipeName string) ([]*models.Review, error) {
	return f.listFn(ctx, recipeName)
}
func (f *fakeReviews) Delete(ctx context.Context, reviewID int64, requester int64) error {
	return f.deleteFn(ctx, reviewID, requester)
}

// fakeVerifier accepts "good-<n>" style tokens mapped in ids.
type fakeVerifier struct {
	ids map[string]int64
	err error
}

func (f *fakeVerifier) Verify(token string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	id, ok := f.ids[token]
	if !ok {
		return 0, common.ErrMalformedToken
	}
	return id, nil
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// ---- helpers ----

const goodToken = "good"

type harness struct {
	users   *fakeUsers
	recipes *fakeRecipes
	tags    *fakeTags
	reviews *fakeReviews
	tokens  *fakeVerifier
	db      fakePinger
}

func newHarness() *harness {
	return &harness{
		users:   &fakeUsers{},
		recipes: &fakeRecipes{},
		tags:    &fakeTags{},
		reviews: &fakeReviews{},
		tokens:  &fakeVerifier{ids: map[string]int64{goodToken: 1}},
	}
}

func (h *harness) server() *Server {
	svc := Services{Users: h.users, Recipes: h.recipes, Tags: h.tags, Reviews: h.reviews}
	return NewServer("127.0.0.1:0", time.Second, svc, h.tokens, h.db, logging.Nop{})
}

// do sends a request through the full handler chain. body is JSON-encoded
// unless it is already a string.
func (h *harness) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return doWith(t, h.server().Handler(), method, path, token, body)
}

func doWith(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[messageResponse](t, rec).Message
}
