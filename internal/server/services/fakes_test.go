package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/dbx"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	recipesrepo "github.com/dmitrijs2005/recipebox/internal/server/repositories/recipes"
	reviewsrepo "github.com/dmitrijs2005/recipebox/internal/server/repositories/reviews"
	tagsrepo "github.com/dmitrijs2005/recipebox/internal/server/repositories/tags"
	usersrepo "github.com/dmitrijs2005/recipebox/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// memStore is an in-memory stand-in for the schema, foreign keys included:
// deleting a user removes their recipes and orphans their reviews, deleting
// a recipe removes its reviews and tag links, deleting a tag removes links.
type memStore struct {
	nextID  int64
	users   map[int64]*models.User
	recipes map[int64]*models.Recipe
	tags    map[int64]*models.Tag
	links   map[[2]int64]struct{}
	reviews map[int64]*models.Review

	// fail makes the named repository method return the error.
	fail map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[int64]*models.User{},
		recipes: map[int64]*models.Recipe{},
		tags:    map[int64]*models.Tag{},
		links:   map[[2]int64]struct{}{},
		reviews: map[int64]*models.Review{},
		fail:    map[string]error{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) err(op string) error { return s.fail[op] }

// --- repository manager ---

type fakeRepoManager struct{ s *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository          { return memUsers{m.s} }
func (m *fakeRepoManager) Recipes(dbx.DBTX) recipesrepo.Repository      { return memRecipes{m.s} }
func (m *fakeRepoManager) Tags(dbx.DBTX) tagsrepo.Repository            { return memTags{m.s} }
func (m *fakeRepoManager) Reviews(dbx.DBTX) reviewsrepo.Repository      { return memReviews{m.s} }

// --- users ---

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	if err := r.s.err("users.Create"); err != nil {
		return nil, err
	}
	for _, existing := range r.s.users {
		if existing.UserName == u.UserName {
			return nil, common.ErrorConflict
		}
	}
	u.ID = r.s.id()
	u.CreatedAt = fixedNow
	cp := *u
	r.s.users[u.ID] = &cp
	return u, nil
}

func (r memUsers) GetByUsername(_ context.Context, name string) (*models.User, error) {
	if err := r.s.err("users.GetByUsername"); err != nil {
		return nil, err
	}
	for _, u := range r.s.users {
		if u.UserName == name {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	if err := r.s.err("users.GetByID"); err != nil {
		return nil, err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) Delete(_ context.Context, id int64) error {
	if err := r.s.err("users.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.users, id)
	for rid, rec := range r.s.recipes {
		if rec.UserID == id {
			r.s.deleteRecipe(rid)
		}
	}
	for _, rv := range r.s.reviews {
		if rv.UserID != nil && *rv.UserID == id {
			rv.UserID = nil
		}
	}
	return nil
}

// --- recipes ---

type memRecipes struct{ s *memStore }

func (s *memStore) recipeView(rec *models.Recipe) *models.Recipe {
	cp := *rec
	cp.Owner = s.users[rec.UserID].UserName
	cp.Tags = nil
	cp.Reviews = nil
	return &cp
}

func (s *memStore) deleteRecipe(id int64) {
	delete(s.recipes, id)
	for k := range s.links {
		if k[0] == id {
			delete(s.links, k)
		}
	}
	for rid, rv := range s.reviews {
		if rv.RecipeID == id {
			delete(s.reviews, rid)
		}
	}
}

func (s *memStore) sortedRecipes() []*models.Recipe {
	list := make([]*models.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		list = append(list, r)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (r memRecipes) Create(_ context.Context, rec *models.Recipe) (*models.Recipe, error) {
	if err := r.s.err("recipes.Create"); err != nil {
		return nil, err
	}
	if _, ok := r.s.users[rec.UserID]; !ok {
		return nil, errors.New("fk violation: user")
	}
	rec.ID = r.s.id()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = fixedNow
	}
	cp := *rec
	r.s.recipes[rec.ID] = &cp
	return rec, nil
}

func (r memRecipes) GetByID(_ context.Context, id int64) (*models.Recipe, error) {
	if err := r.s.err("recipes.GetByID"); err != nil {
		return nil, err
	}
	rec, ok := r.s.recipes[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.s.recipeView(rec), nil
}

func (r memRecipes) GetByName(_ context.Context, name string) (*models.Recipe, error) {
	for _, rec := range r.s.sortedRecipes() {
		if rec.Name == name {
			return r.s.recipeView(rec), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memRecipes) List(_ context.Context, f models.RecipeFilter) ([]*models.Recipe, error) {
	if err := r.s.err("recipes.List"); err != nil {
		return nil, err
	}
	var out []*models.Recipe
	for _, rec := range r.s.sortedRecipes() {
		switch {
		case f.Name != "":
			if rec.Name != f.Name {
				continue
			}
		case f.Search != "":
			if !r.s.matches(rec, f.Search) {
				continue
			}
		}
		out = append(out, r.s.recipeView(rec))
	}
	return out, nil
}

func (s *memStore) matches(rec *models.Recipe, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(rec.Name), term) || strings.Contains(strings.ToLower(rec.Ingredients), term) {
		return true
	}
	for k := range s.links {
		if k[0] == rec.ID && strings.Contains(strings.ToLower(s.tags[k[1]].Name), term) {
			return true
		}
	}
	return false
}

func (r memRecipes) Delete(_ context.Context, id int64) error {
	if err := r.s.err("recipes.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.recipes[id]; !ok {
		return common.ErrorNotFound
	}
	r.s.deleteRecipe(id)
	return nil
}

func (r memRecipes) AttachTag(_ context.Context, recipeID, tagID int64) error {
	if err := r.s.err("recipes.AttachTag"); err != nil {
		return err
	}
	r.s.links[[2]int64{recipeID, tagID}] = struct{}{}
	return nil
}

func (r memRecipes) ListTags(_ context.Context, recipeID int64) ([]string, error) {
	if err := r.s.err("recipes.ListTags"); err != nil {
		return nil, err
	}
	names := []string{}
	for k := range r.s.links {
		if k[0] == recipeID {
			names = append(names, r.s.tags[k[1]].Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// --- tags ---

type memTags struct{ s *memStore }

func (r memTags) find(name string) *models.Tag {
	for _, t := range r.s.tags {
		if t.Name == name {
			return t
		}
	}
	return nil
}

func (r memTags) Create(_ context.Context, name string) (*models.Tag, error) {
	if err := r.s.err("tags.Create"); err != nil {
		return nil, err
	}
	if r.find(name) != nil {
		return nil, common.ErrorConflict
	}
	t := &models.Tag{ID: r.s.id(), Name: name}
	r.s.tags[t.ID] = t
	cp := *t
	return &cp, nil
}

func (r memTags) GetOrCreate(ctx context.Context, name string) (*models.Tag, error) {
	if err := r.s.err("tags.GetOrCreate"); err != nil {
		return nil, err
	}
	if t := r.find(name); t != nil {
		cp := *t
		return &cp, nil
	}
	return r.Create(ctx, name)
}

func (r memTags) GetByID(_ context.Context, id int64) (*models.Tag, error) {
	t, ok := r.s.tags[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *t
	return &cp, nil
}

func (r memTags) GetByName(_ context.Context, name string) (*models.Tag, error) {
	if t := r.find(name); t != nil {
		cp := *t
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (r memTags) Rename(_ context.Context, id int64, name string) error {
	t, ok := r.s.tags[id]
	if !ok {
		return common.ErrorNotFound
	}
	if other := r.find(name); other != nil && other.ID != id {
		return common.ErrorConflict
	}
	t.Name = name
	return nil
}

func (r memTags) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.tags[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.tags, id)
	for k := range r.s.links {
		if k[1] == id {
			delete(r.s.links, k)
		}
	}
	return nil
}

func (r memTags) ListRecipeNames(_ context.Context, tagID int64) ([]string, error) {
	if err := r.s.err("tags.ListRecipeNames"); err != nil {
		return nil, err
	}
	names := []string{}
	for _, rec := range r.s.sortedRecipes() {
		if _, ok := r.s.links[[2]int64{rec.ID, tagID}]; ok {
			names = append(names, rec.Name)
		}
	}
	return names, nil
}

// --- reviews ---

type memReviews struct{ s *memStore }

func (s *memStore) reviewView(rv *models.Review) *models.Review {
	cp := *rv
	if rv.UserID != nil {
		id := *rv.UserID
		cp.UserID = &id
		if u, ok := s.users[id]; ok {
			cp.AuthorName = u.UserName
		}
	}
	return &cp
}

func (r memReviews) Create(_ context.Context, rv *models.Review) (*models.Review, error) {
	if err := r.s.err("reviews.Create"); err != nil {
		return nil, err
	}
	if rv.IsAnonymous {
		rv.UserID = nil
	}
	rv.ID = r.s.id()
	rv.CreatedAt = fixedNow
	cp := *rv
	r.s.reviews[rv.ID] = &cp
	return rv, nil
}

func (r memReviews) GetByID(_ context.Context, id int64) (*models.Review, error) {
	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.s.reviewView(rv), nil
}

func (r memReviews) ListByRecipe(_ context.Context, recipeID int64) ([]*models.Review, error) {
	if err := r.s.err("reviews.ListByRecipe"); err != nil {
		return nil, err
	}
	out := []*models.Review{}
	for _, rv := range r.s.reviews {
		if rv.RecipeID == recipeID {
			out = append(out, r.s.reviewView(rv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memReviews) Delete(_ context.Context, id int64) error {
	if err := r.s.err("reviews.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.reviews[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.reviews, id)
	return nil
}

// seedUser puts a user straight into the store.
func (s *memStore) seedUser(name string) *models.User {
	u := &models.User{ID: s.id(), UserName: name, CreatedAt: fixedNow}
	s.users[u.ID] = u
	return u
}
