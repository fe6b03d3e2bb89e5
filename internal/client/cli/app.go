package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/rosterctl/internal/client/bulk"
	"github.com/dmitrijs2005/rosterctl/internal/client/client"
	"github.com/dmitrijs2005/rosterctl/internal/client/config"
	"github.com/dmitrijs2005/rosterctl/internal/client/directory"
	"github.com/dmitrijs2005/rosterctl/internal/client/models"
	"github.com/dmitrijs2005/rosterctl/internal/client/services"
	"github.com/dmitrijs2005/rosterctl/internal/client/session"
	"github.com/dmitrijs2005/rosterctl/internal/client/storage"
	"github.com/dmitrijs2005/rosterctl/internal/common"
	"github.com/dmitrijs2005/rosterctl/internal/logging"
	"github.com/dmitrijs2005/rosterctl/internal/telemetry"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	session   *session.Store
	directory *directory.Store
	gateway   client.Client
	auth      services.AuthService
	bulk      *bulk.Orchestrator
	router    *Router
	notifier  bulk.Notifier
	reader    *bufio.Reader
	out       io.Writer
	now       func() time.Time

	mu      sync.Mutex
	mode    Mode
	closers []func() error
}

// NewApp opens the session storage and wires the console against the
// directory service at c.APIURL.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := storage.Open(ctx, c.StoragePath)
	if err != nil {
		logger.Error(ctx, "error initializing session storage", "path", c.StoragePath, "error", err)
		return nil, fmt.Errorf("open session storage: %w", err)
	}

	repo := storage.NewSessionRepository(storage.NewSQLiteKV(db), common.SessionNamespace)
	sess := session.NewStore(repo, logger)
	router := NewRouter()

	httpClient := &http.Client{Transport: telemetry.Transport(nil)}
	gw, err := client.NewHTTPClient(c.APIURL, httpClient, sess, router, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := newApp(c, logger, sess, gw, router, bufio.NewReader(os.Stdin), os.Stdout)
	a.closers = append(a.closers, db.Close)
	return a, nil
}

func newApp(c *config.Config, logger logging.Logger, sess *session.Store, gw client.Client,
	router *Router, reader *bufio.Reader, out io.Writer) *App {
	dir := directory.NewStore()
	notifier := terminalNotifier{w: out}

	a := &App{
		config:    c,
		logger:    logger.With("module", "console"),
		session:   sess,
		directory: dir,
		gateway:   gw,
		auth:      services.NewAuthService(gw, sess, router, logger),
		bulk:      bulk.NewOrchestrator(dir, gw, terminalConfirmer{reader: reader, w: out}, notifier, logger),
		router:    router,
		notifier:  notifier,
		reader:    reader,
		out:       out,
		now:       time.Now,
	}
	router.OnEnter(func(v models.View) {
		// A forced logout lands here without going through Logout; the
		// roster and selection must not outlive the session.
		if v == models.ViewLogin && !sess.IsAuthenticated() {
			dir.ReplaceUsers(nil)
		}
		fmt.Fprintf(a.out, "→ %s\n", v)
	})
	return a
}

// Run restores the session, opens the landing view and serves commands
// until the operator exits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	fmt.Fprintln(a.out, "rosterctl operator console (type 'help' for commands)")
	if err := a.waitHydrated(ctx); err != nil {
		return err
	}
	a.open(ctx, models.ViewHome)

	go a.StartOnlineStatusWatcher(ctx, a.config.HealthCheckInterval)

	runREPL(ctx, a, a.status, a.reader, a.out)
	return nil
}

func (a *App) waitHydrated(ctx context.Context) error {
	go func() {
		if err := a.session.Hydrate(ctx); err != nil {
			a.logger.Warn(ctx, "starting without a stored session", "error", err)
		}
	}()

	select {
	case <-a.session.Hydrated():
		return nil
	case <-time.After(200 * time.Millisecond):
		fmt.Fprintln(a.out, "Loading...")
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-a.session.Hydrated():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *App) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
}

// open requests view v through the session guard. Entering the dashboard
// loads the roster.
func (a *App) open(ctx context.Context, v models.View) {
	target, ready := Guard(a.session.Status(), v)
	if !ready {
		fmt.Fprintln(a.out, "Loading...")
		return
	}
	a.router.Navigate(target)
	if target == models.ViewDashboard {
		_ = a.refresh(ctx)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) status() string {
	s := string(a.router.Current())
	if u, ok := a.session.User(); ok {
		s = u.Email + " " + s
	}
	if m := a.Mode(); m != "" {
		s += " " + string(m)
	}
	return s
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

// StartOnlineStatusWatcher probes the directory service every interval and
// tracks the console's online mode until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	a.probe(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) probe(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.auth.Ping(pingCtx); err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}
