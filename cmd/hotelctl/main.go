package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"hotelbook/internal/api"
	"hotelbook/internal/checkout"
	"hotelbook/internal/config"
	"hotelbook/internal/metrics"
	"hotelbook/internal/session"
	"hotelbook/internal/storage"
	"hotelbook/internal/ui"
	"hotelbook/internal/views"
)

func main() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{logger: logger, in: bufio.NewReader(os.Stdin), out: os.Stdout}
	if err := a.cli().RunContext(ctx, os.Args); err != nil {
		if !errors.Is(err, errReported) {
			logger.Error().Err(err).Msg("hotelctl failed")
		}
		stop()
		os.Exit(1)
	}
}

// errReported marks a failure already shown to the user as a banner.
var errReported = errors.New("reported")

// app is the state shared by all commands: config, session store and the
// view environment built from them.
type app struct {
	logger zerolog.Logger
	in     *bufio.Reader
	out    io.Writer

	cfg *config.Config
	kv  storage.KV
	env *views.Env
}

func (a *app) cli() *cli.App {
	return &cli.App{
		Name:  "hotelctl",
		Usage: "terminal client for the hotel booking service",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to the YAML config", EnvVars: []string{"HOTELCTL_CONFIG"}},
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "answer yes to every confirmation"},
			&cli.BoolFlag{Name: "debug", Usage: "log at debug level"},
		},
		Before:   a.setup,
		After:    a.teardown,
		Commands: a.commands(),
	}
}

// setup loads the config and builds the view environment.
func (a *app) setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || cfg.Log.Level == "" {
		level = zerolog.InfoLevel
	}
	if c.Bool("debug") {
		level = zerolog.DebugLevel
	}
	a.logger = a.logger.Level(level)

	kv, err := storage.Open(cfg.StorageOptions())
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	a.kv = kv

	passphrase := cfg.Session.Passphrase
	if passphrase == "" {
		passphrase = session.DefaultPassphrase
	}
	cipher, err := session.NewCipher(passphrase)
	if err != nil {
		return err
	}
	sessions := session.NewManager(kv, cipher, a.logger)

	client := api.NewClient(cfg.API.BaseURL, cfg.APITimeout())
	client.UseLogger(a.logger)
	client.UseRateLimit(cfg.API.RatePerSecond, cfg.API.Burst)
	client.UseBreaker(cfg.API.Breaker.ConsecutiveFailures, cfg.BreakerOpenFor())

	var confirm ui.Confirmer = ui.PromptConfirmer{In: a.in, Out: a.out}
	if c.Bool("yes") {
		confirm = ui.Always(true)
	}

	timing := ui.DefaultTiming()
	timing.ErrorTTL = cfg.ErrorTTL()
	timing.LongSuccess = cfg.SuccessTTL()

	a.env = &views.Env{
		API:      client,
		Sessions: sessions,
		Session:  sessions.Load(c.Context),
		Nav:      ui.NewHistory("/home"),
		Confirm:  confirm,
		Timing:   timing,
		Pages: views.PageSizes{
			Rooms:      cfg.RoomsPerPage(),
			AdminRooms: cfg.AdminRoomsPerPage(),
			Bookings:   cfg.BookingsPerPage(),
		},
		Clock:  time.Now,
		Logger: a.logger,
		Card:   checkout.NewStripeCard(cfg.Payments.StripePublishableKey, nil),
		Wallet: checkout.PromptApprover{In: a.in, Out: a.out},
	}

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
	}
	return nil
}

func (a *app) teardown(*cli.Context) error {
	if a.kv == nil {
		return nil
	}
	return a.kv.Close()
}

// open navigates to path and renders the screen it lands on.
func (a *app) open(ctx context.Context, path string) (views.Screen, error) {
	a.env.Nav.Navigate(path)
	s, err := views.Open(ctx, a.env, path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// pending is implemented by every screen through its embedded banners.
type pending interface {
	ErrorText() string
	Flush() bool
}

// finish renders s, follows a scheduled navigation and turns an error
// banner into the command's error.
func (a *app) finish(s views.Screen) error {
	s.Render(a.out)
	p, ok := s.(pending)
	if !ok {
		return nil
	}
	msg := p.ErrorText()
	if p.Flush() {
		a.logger.Debug().Str("path", a.env.Nav.Current()).Msg("navigated")
	}
	if msg != "" {
		return errReported
	}
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
