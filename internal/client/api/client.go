package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/common"
)

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient returns a client for the server at baseURL, e.g.
// "http://127.0.0.1:8080". Every request is bounded by timeout.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// Token returns the bearer token of the current session, if any.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// do sends in as JSON (when non-nil) and decodes a 2xx body into out (when
// non-nil). authed requests carry the session token.
func (c *Client) do(ctx context.Context, method, path string, authed bool, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token := c.Token()
		if token == "" {
			return ErrNotLoggedIn
		}
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&msg)
		return &Error{StatusCode: resp.StatusCode, Message: msg.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func idPath(prefix string, id int64, suffix string) string {
	return prefix + strconv.FormatInt(id, 10) + suffix
}

type credentials struct {
	UserName string `json:"username"`
	Password string `json:"password"`
}

// Ping reports whether the server answers its health check.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", false, nil, nil)
}

func (c *Client) Register(ctx context.Context, userName, password string) (int64, error) {
	var out struct {
		UserID int64 `json:"user_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/users", false, credentials{userName, password}, &out); err != nil {
		return 0, err
	}
	return out.UserID, nil
}

// Login starts a session; later protected calls use its token.
func (c *Client) Login(ctx context.Context, userName, password string) (*Session, error) {
	var out Session
	if err := c.do(ctx, http.MethodPost, "/login", false, credentials{userName, password}, &out); err != nil {
		return nil, err
	}
	c.setToken(out.Token)
	return &out, nil
}

// Logout tells the server and forgets the token even when the call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodDelete, "/logout", true, nil, nil)
	c.setToken("")
	return err
}

// DeleteAccount removes the logged-in user together with their recipes.
func (c *Client) DeleteAccount(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/users", true, nil, nil); err != nil {
		return err
	}
	c.setToken("")
	return nil
}

func (c *Client) CreateRecipe(ctx context.Context, r NewRecipe) (int64, error) {
	type tagRef struct {
		TagName string `json:"tag_name"`
	}
	type seedReview struct {
		Content string `json:"content"`
	}
	in := struct {
		Name         string       `json:"recipe_name"`
		Ingredients  string       `json:"ingredients"`
		Instructions string       `json:"instructions"`
		Tags         []tagRef     `json:"tags,omitempty"`
		Reviews      []seedReview `json:"reviews,omitempty"`
	}{Name: r.Name, Ingredients: r.Ingredients, Instructions: r.Instructions}
	for _, t := range r.Tags {
		in.Tags = append(in.Tags, tagRef{t})
	}
	for _, rv := range r.Reviews {
		in.Reviews = append(in.Reviews, seedReview{rv})
	}

	var out struct {
		RecipeID int64 `json:"recipe_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/recipes/create", true, in, &out); err != nil {
		return 0, err
	}
	return out.RecipeID, nil
}

// ListRecipes lists all recipes, or those matching search, or the ones
// named exactly name. At most one of search and name may be set.
func (c *Client) ListRecipes(ctx context.Context, search, name string) ([]Recipe, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if name != "" {
		q.Set("name", name)
	}
	path := "/recipes"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out struct {
		Recipes []Recipe `json:"recipes"`
	}
	if err := c.do(ctx, http.MethodGet, path, true, nil, &out); err != nil {
		return nil, err
	}
	return out.Recipes, nil
}

func (c *Client) GetRecipe(ctx context.Context, id int64) (*Recipe, error) {
	var out Recipe
	if err := c.do(ctx, http.MethodGet, idPath("/recipes/", id, ""), true, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteRecipe(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/recipes/", id, ""), true, nil, nil)
}

type tagName struct {
	TagName string `json:"tag_name"`
}

func (c *Client) AddTag(ctx context.Context, recipeID int64, name string) (int64, error) {
	var out struct {
		TagID int64 `json:"tag_id"`
	}
	if err := c.do(ctx, http.MethodPost, idPath("/recipes/", recipeID, "/tags"), true, tagName{name}, &out); err != nil {
		return 0, err
	}
	return out.TagID, nil
}

func (c *Client) GetTag(ctx context.Context, id int64) (*Tag, error) {
	var out Tag
	if err := c.do(ctx, http.MethodGet, idPath("/tags/", id, ""), true, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RenameTag(ctx context.Context, id int64, name string) error {
	return c.do(ctx, http.MethodPut, idPath("/tags/", id, ""), true, tagName{name}, nil)
}

func (c *Client) DeleteTag(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/tags/", id, ""), true, nil, nil)
}

func (c *Client) AddReview(ctx context.Context, recipeID int64, content string, anonymous bool) (int64, error) {
	in := struct {
		Content   string `json:"review_content"`
		Anonymous bool   `json:"anonymous"`
	}{content, anonymous}

	var out struct {
		ReviewID int64 `json:"review_id"`
	}
	if err := c.do(ctx, http.MethodPost, idPath("/recipes/", recipeID, "/reviews"), true, in, &out); err != nil {
		return 0, err
	}
	return out.ReviewID, nil
}

// ListReviews returns the reviews of the recipe named exactly recipeName.
func (c *Client) ListReviews(ctx context.Context, recipeName string) ([]Review, error) {
	var out struct {
		Reviews []Review `json:"reviews"`
	}
	path := "/recipes/" + url.PathEscape(recipeName) + "/reviews"
	if err := c.do(ctx, http.MethodGet, path, true, nil, &out); err != nil {
		return nil, err
	}
	return out.Reviews, nil
}

func (c *Client) DeleteReview(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/reviews/", id, ""), true, nil, nil)
}
