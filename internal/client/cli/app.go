package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/client/api"
	"github.com/dmitrijs2005/recipebox/internal/client/config"
)

type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// Backend is the part of the API client the commands use.
type Backend interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, userName, password string) (int64, error)
	Login(ctx context.Context, userName, password string) (*api.Session, error)
	Logout(ctx context.Context) error
	DeleteAccount(ctx context.Context) error

	CreateRecipe(ctx context.Context, r api.NewRecipe) (int64, error)
	ListRecipes(ctx context.Context, search, name string) ([]api.Recipe, error)
	GetRecipe(ctx context.Context, id int64) (*api.Recipe, error)
	DeleteRecipe(ctx context.Context, id int64) error

	AddTag(ctx context.Context, recipeID int64, name string) (int64, error)
	GetTag(ctx context.Context, id int64) (*api.Tag, error)
	RenameTag(ctx context.Context, id int64, name string) error
	DeleteTag(ctx context.Context, id int64) error

	AddReview(ctx context.Context, recipeID int64, content string, anonymous bool) (int64, error)
	ListReviews(ctx context.Context, recipeName string) ([]api.Review, error)
	DeleteReview(ctx context.Context, id int64) error
}

type App struct {
	config  *config.Config
	backend Backend
	reader  *bufio.Reader
	out     io.Writer

	mu        sync.RWMutex
	userName  string
	expiresAt time.Time
	mode      Mode
}

func NewApp(c *config.Config, in io.Reader, out io.Writer) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	client, err := api.NewClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	return newApp(c, client, in, out), nil
}

func newApp(c *config.Config, b Backend, in io.Reader, out io.Writer) *App {
	return &App{config: c, backend: b, reader: bufio.NewReader(in), out: out}
}

func (a *App) isLoggedIn() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.userName != ""
}

func (a *App) setSession(userName string, expiresAt time.Time) {
	a.mu.Lock()
	a.userName, a.expiresAt = userName, expiresAt
	a.mu.Unlock()
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		fmt.Fprintf(a.out, "Switched to %s mode\n", mode)
	}
}

func (a *App) currentMode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) getStatus() string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.mode != "" {
		s = s + string(a.mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// checkOnline pings the server once and records the result.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	if err := a.backend.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher re-checks server reachability every interval
// until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Run checks the server, starts the status watcher and hands the terminal
// to the REPL until the user quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to the recipebox client (type 'help' for commands)")
	a.checkOnline(ctx)

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)

	if a.isLoggedIn() {
		_ = a.Logout(ctx, nil)
	}
	return nil
}
