package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/varta/internal/client/api"
	"github.com/dmitrijs2005/varta/internal/client/client"
	"github.com/dmitrijs2005/varta/internal/client/config"
	"github.com/dmitrijs2005/varta/internal/client/credentials"
	"github.com/dmitrijs2005/varta/internal/client/metrics"
	"github.com/dmitrijs2005/varta/internal/client/services"
	"github.com/dmitrijs2005/varta/internal/client/storage"
	"github.com/dmitrijs2005/varta/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	config   *config.Config
	log      logging.Logger
	backend  *storage.Backend
	store    *credentials.Store
	services *client.Services
	users    *api.Users
	content  *api.Content
	session  *services.SessionController
	registry *prometheus.Registry
	metrics  *http.Server
	reader   *bufio.Reader
	out      io.Writer
}

// NewApp wires the client from c, reading commands from stdin.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log, err := logging.New(os.Stderr, c.LogLevel)
	if err != nil {
		return nil, err
	}
	return newApp(ctx, c, log, os.Stdin, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	backend, err := storage.Open(ctx, c)
	if err != nil {
		log.Error(ctx, "error opening credential store", "backend", c.StoreBackend, "error", err)
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m, err := metrics.New(reg)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	store := credentials.NewStore(backend.Repository, c.Namespace, log)
	svcs, err := client.NewServices(c, store, client.WithMetrics(m), client.WithLogger(log))
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	a := &App{
		config:   c,
		log:      log,
		backend:  backend,
		store:    store,
		services: svcs,
		users:    api.NewUsers(svcs.Identity, log),
		content:  api.NewContent(svcs.Content, log),
		registry: reg,
		reader:   bufio.NewReader(in),
		out:      out,
	}
	a.session = services.NewSessionController(a.users, store, svcs.Invalidations,
		services.WithNotifier(consoleNotifier{w: out}),
		services.WithLogger(log),
		services.WithLoginRequired(a.loginRequired),
	)
	return a, nil
}

func (a *App) loginRequired(context.Context) {
	fmt.Fprintln(a.out, "Your session has ended. Type 'login' to sign in again.")
}

func (a *App) isLoggedIn() bool {
	return a.session.Session().State == services.Authenticated
}

func (a *App) getStatus() string {
	s := a.session.Session()
	if s.State == services.Authenticated && s.User != nil {
		return fmt.Sprintf("(%s)", s.User.Name)
	}
	return fmt.Sprintf("(%s)", s.State)
}

// Run validates any persisted session and blocks in the REPL until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close(ctx)

	if a.config.MetricsAddr != "" {
		a.metrics = serveMetrics(ctx, a.config.MetricsAddr, a.registry, a.log)
	}

	fmt.Fprintln(a.out, "Welcome to Varta CLI (type 'help' for commands)")
	a.session.Start(ctx)

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

// Close releases the metrics endpoint and the credential backend.
func (a *App) Close(ctx context.Context) {
	a.session.Close()
	if a.metrics != nil {
		if err := a.metrics.Shutdown(ctx); err != nil {
			a.log.Error(ctx, "metrics server shutdown failed", "error", err)
		}
	}
	if err := a.backend.Close(); err != nil {
		a.log.Error(ctx, "error closing credential store", "error", err)
	}
}
