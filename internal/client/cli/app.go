package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/companyanalyzer/internal/client/aggregate"
	"github.com/dmitrijs2005/companyanalyzer/internal/client/client"
	"github.com/dmitrijs2005/companyanalyzer/internal/client/config"
	"github.com/dmitrijs2005/companyanalyzer/internal/client/guard"
	"github.com/dmitrijs2005/companyanalyzer/internal/client/providers"
	"github.com/dmitrijs2005/companyanalyzer/internal/client/services"
	"github.com/dmitrijs2005/companyanalyzer/internal/client/session"
	"github.com/dmitrijs2005/companyanalyzer/internal/client/storage"
	"github.com/dmitrijs2005/companyanalyzer/internal/common"
	"github.com/dmitrijs2005/companyanalyzer/internal/logging"
)

// Deps are the collaborators App is assembled from. NewApp builds them
// from configuration; tests pass fakes.
type Deps struct {
	Session   *session.Store
	Backend   client.Client
	Exchange  services.ExchangeService
	Favorites services.FavoritesService
	Memos     services.MemoService
	Charts    services.ChartService
	News      services.NewsService
	Logger    logging.Logger

	In  io.Reader
	Out io.Writer
}

type App struct {
	session   *session.Store
	backend   client.Client
	exchange  services.ExchangeService
	favorites services.FavoritesService
	memos     services.MemoService
	charts    services.ChartService
	news      services.NewsService

	router    *Router
	redirects *guard.Redirects
	guard     *guard.Guard

	reader  *bufio.Reader
	out     io.Writer
	log     logging.Logger
	closers []io.Closer
}

// New assembles an App from deps.
func New(d Deps) *App {
	log := d.Logger
	if log == nil {
		log = logging.Discard()
	}
	in := d.In
	if in == nil {
		in = os.Stdin
	}
	out := d.Out
	if out == nil {
		out = os.Stdout
	}

	a := &App{
		session:   d.Session,
		backend:   d.Backend,
		exchange:  d.Exchange,
		favorites: d.Favorites,
		memos:     d.Memos,
		charts:    d.Charts,
		news:      d.News,
		router:    NewRouter(),
		redirects: &guard.Redirects{},
		reader:    bufio.NewReader(in),
		out:       out,
		log:       log.With("component", "cli"),
	}
	a.guard = guard.New(d.Session, a.redirects, a.router, log)
	a.guard.OnLoading = func() { a.println("checking…") }
	return a
}

// NewApp wires the production stack from cfg: the SQLite session store,
// the backend client, both data providers and the services on top.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Discard()
	}

	kv, err := storage.OpenStore(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open session storage: %w", err)
	}

	backend, err := client.NewHTTPClient(client.Config{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.RequestTimeout,
		Logger:  log,
	})
	if err != nil {
		_ = kv.Close()
		return nil, err
	}

	rates, err := providers.NewExchangeClient(providers.Config{
		URL:     cfg.ExchangeURL,
		APIKey:  cfg.ExchangeAPIKey,
		Timeout: cfg.RequestTimeout,
		Logger:  log,
	})
	if err != nil {
		_ = kv.Close()
		return nil, err
	}

	stocks, err := providers.NewStockClient(providers.Config{
		URL:     cfg.StockURL,
		APIKey:  cfg.StockAPIKey,
		Timeout: cfg.RequestTimeout,
		Logger:  log,
	}, nil)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}

	store := session.NewStore(backend, kv, log)
	backend.SetTokenSource(store.Token)

	a := New(Deps{
		Session: store,
		Backend: backend,
		Exchange: services.NewExchangeService(rates, services.ExchangeOptions{
			Lookback:    cfg.RateLookback,
			HistoryDays: cfg.HistoryDays,
			RPS:         cfg.ProviderRPS,
			Burst:       cfg.ProviderBurst,
			Logger:      log,
		}),
		Favorites: services.NewFavoritesService(backend, stocks, cfg.FanOutLimit, log),
		Memos:     services.NewMemoService(backend),
		Charts:    services.NewChartService(stocks, nil, log),
		News: services.NewNewsService(backend, services.NewsOptions{
			PageSize: cfg.NewsPageSize,
			Sort:     cfg.NewsSort,
			Dedupe:   cfg.NewsDedupe,
			Logger:   log,
		}),
		Logger: log,
	})
	a.closers = append(a.closers, kv)
	backend.OnUnauthorized(a.HandleUnauthorized)

	return a, nil
}

// Run restores the session in the background, renders the root view and
// serves commands until exit, EOF or ctx cancellation.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	go a.session.Initialize(ctx)

	a.println("Company Analyzer (type 'help' for commands)")
	a.report(a.render(ctx))
	runREPL(ctx, a, a.status, a.reader, a.out)
}

func (a *App) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.log.Warn(context.Background(), "close failed", "err", err)
		}
	}
	a.closers = nil
}

// HandleUnauthorized runs when the backend rejects the session token: the
// session ends and, unless the user is already on the login view, the
// client returns to the root.
func (a *App) HandleUnauthorized(ctx context.Context) {
	a.session.Invalidate(ctx)
	if a.router.Current() == common.LoginPath {
		return
	}
	a.router.Push(common.RootPath)
	a.println("Your session has expired. Please log in again.")
}

func (a *App) status() string {
	var sb strings.Builder
	if u, ok := a.session.User(); ok {
		sb.WriteString(u.Email)
		sb.WriteByte(' ')
	}
	sb.WriteString(a.router.Current())
	return sb.String()
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// report prints err for the user. Superseded responses are dropped
// silently.
func (a *App) report(err error) {
	if err == nil || errors.Is(err, aggregate.ErrStale) {
		return
	}
	a.log.Debug(context.Background(), "command failed", "err", err)
	a.println(describe(err))
}

func describe(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "Cancelled."
	case errors.Is(err, common.ErrValidation):
		return strings.TrimPrefix(err.Error(), common.ErrValidation.Error()+": ")
	case errors.Is(err, common.ErrNotFound) && !client.IsNotFound(err):
		return "Nothing found."
	default:
		return client.Message(err)
	}
}
