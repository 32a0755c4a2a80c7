package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/companyanalyzer/internal/client/guard"
	"github.com/dmitrijs2005/companyanalyzer/internal/client/services"
	"github.com/dmitrijs2005/companyanalyzer/internal/common"
)

// visit pushes path and, for a protected view, runs the guard. It reports
// whether the view may render; on denial the login view has already been
// rendered.
func (a *App) visit(ctx context.Context, path string) (bool, error) {
	a.router.Push(path)
	return a.admit(ctx)
}

// admit guards the current view.
func (a *App) admit(ctx context.Context) (bool, error) {
	path := a.router.Current()
	if !Protected(path) {
		return true, nil
	}

	state, err := a.guard.Resolve(ctx, path, "")
	if err != nil {
		return false, err
	}
	if state != guard.StateAllowed {
		a.renderLogin()
		return false, nil
	}
	return true, nil
}

// render draws the current view, guarding it first.
func (a *App) render(ctx context.Context) error {
	ok, err := a.admit(ctx)
	if err != nil || !ok {
		return err
	}

	path := a.router.Current()
	switch {
	case path == common.RootPath:
		a.renderHome()
	case path == common.LoginPath:
		a.renderLogin()
	case path == common.SignupPath:
		a.println("Sign up: type 'signup' to create an account.")
	case path == PathCompanies:
		return a.Companies(ctx, nil)
	case path == PathExchange:
		return a.Rates(ctx, nil)
	case path == PathNews:
		a.renderNews(a.news.Results())
	case path == PathFavorites:
		return a.showWatchlist(ctx)
	default:
		if code, tab, ok := favoriteView(path); ok {
			if tab == tabChart {
				return a.showChart(ctx, code, services.DefaultChartPeriod)
			}
			return a.showMemo(ctx, code)
		}
		a.printf("No view at %s.\n", path)
	}
	return nil
}

func (a *App) renderHome() {
	if u, ok := a.session.User(); ok {
		a.printf("Home. Signed in as %s.\n", displayName(u.Name, u.Email))
	} else {
		a.println("Home. You are browsing as a guest; 'login' to use favorites.")
	}
}

// renderLogin shows the login view with the message left by the guard,
// if any.
func (a *App) renderLogin() {
	if p, ok := a.redirects.Peek(); ok {
		a.println(p.Message)
	}
	a.println("Log in with your email and password.")
}

// Go navigates to a view path.
func (a *App) Go(ctx context.Context, args []string) error {
	if len(args) != 1 || !strings.HasPrefix(args[0], "/") {
		return usage("go <path>")
	}
	if args[0] == common.LoginPath {
		return a.Login(ctx, nil)
	}
	a.router.Push(args[0])
	return a.render(ctx)
}

func (a *App) Back(ctx context.Context, args []string) error {
	if !a.router.Back() {
		a.println("Already at the first view.")
		return nil
	}
	return a.render(ctx)
}

func usage(s string) error {
	return fmt.Errorf("%w: usage: %s", common.ErrValidation, s)
}
