package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/dmitrijs2005/lockwise/internal/client/client"
	"github.com/dmitrijs2005/lockwise/internal/client/config"
	"github.com/dmitrijs2005/lockwise/internal/client/session"
)

const onlineCheckInterval = 15 * time.Second

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config *config.Config
	api    client.Client
	// store is nil when session persistence is disabled.
	store  session.Store
	email  string
	Mode   Mode
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	apiClient, err := client.NewLockWiseClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	var store session.Store
	if c.SessionDB != "" {
		s, err := session.Open(ctx, c.SessionDB)
		if err != nil {
			_ = apiClient.Close()
			return nil, fmt.Errorf("error opening session store: %w", err)
		}
		store = s
	}

	return newApp(c, apiClient, store, bufio.NewReader(os.Stdin), os.Stdout), nil
}

func newApp(c *config.Config, api client.Client, store session.Store, reader *bufio.Reader, out io.Writer) *App {
	a := &App{config: c, api: api, store: store, reader: reader, out: out}
	api.OnTokens(a.saveSession)
	return a
}

// saveSession persists every rotated refresh token so the next start can
// resume. Failures only cost the user a password prompt later.
func (a *App) saveSession(userID, refreshToken string) {
	if a.store == nil || refreshToken == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := a.store.Save(ctx, session.Session{UserID: userID, Email: a.email, RefreshToken: refreshToken})
	if err != nil {
		log.Printf("error saving session: %s", err.Error())
	}
}

// resume logs in with the stored refresh token, if any. A rejected token
// is dropped from the store.
func (a *App) resume(ctx context.Context) {
	if a.store == nil {
		return
	}

	s, err := a.store.Load(ctx)
	if err != nil {
		log.Printf("error loading session: %s", err.Error())
		return
	}
	if s == nil {
		return
	}

	a.email = s.Email

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := a.api.Resume(ctx, s.RefreshToken); err != nil {
		log.Printf("Session not resumed: %s", err.Error())
		a.email = ""
		if err := a.store.Clear(ctx); err != nil {
			log.Printf("error clearing session: %s", err.Error())
		}
		return
	}
	log.Printf("Resumed session for %s", s.Email)
}

func (a *App) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) isLoggedIn() bool {
	return a.api.UserID() != ""
}

func (a *App) getStatus() string {
	s := ""
	if a.isLoggedIn() {
		s = a.email + " "
		if a.email == "" {
			s = a.api.UserID() + " "
		}
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// StartOnlineStatusWatcher pings the server every interval and flips Mode
// accordingly. It returns when ctx is done.
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

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.api.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// Run blocks in the REPL until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	log.Println("Welcome to LockWise CLI (type 'help' for commands)")

	a.checkOnline(ctx)
	a.resume(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(ctx, onlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) close() {
	if err := a.api.Close(); err != nil {
		log.Printf("error closing connection: %s", err.Error())
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			log.Printf("error closing session store: %s", err.Error())
		}
	}
}
