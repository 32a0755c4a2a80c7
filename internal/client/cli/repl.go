package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// commands is the surface the REPL dispatches to. App implements it; tests
// use a recording stub. Handlers get the arguments after the command word.
type commands interface {
	Help(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Signup(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Whoami(ctx context.Context, args []string) error
	Go(ctx context.Context, args []string) error
	Back(ctx context.Context, args []string) error
	Companies(ctx context.Context, args []string) error
	Company(ctx context.Context, args []string) error
	Disclosures(ctx context.Context, args []string) error
	Favorites(ctx context.Context, args []string) error
	Fav(ctx context.Context, args []string) error
	Memo(ctx context.Context, args []string) error
	Chart(ctx context.Context, args []string) error
	Rates(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
	News(ctx context.Context, args []string) error
	More(ctx context.Context, args []string) error

	report(err error)
}

const helpText = `Commands:
  help                              show this help
  login | signup | logout | whoami  account
  go <path> | back                  navigate (/, /companies, /exchange, /news, /favorites)
  companies [page] [keyword]        list companies
  company <corpCode>                company details
  disclosures <corpCode> [page]     recent filings
  favorites                         watchlist with latest quotes (login required)
  fav add <code> <name>             add a favorite
  fav rm <code>                     remove a favorite
  memo <code> [text]                show or save a favorite's memo
  chart <code> [30|60|90]           daily closing prices of a favorite
  rates [YYYYMMDD]                  currency rates with day-over-day change
  history <CUR> [days]              daily base rate of one currency
  news <company> [#tag] [sim|date]  search news
  more                              load the next page of news
  exit | quit                       leave`

// runREPL reads one command per line from in and dispatches it to a. It
// returns on EOF, on "exit" or "quit", or when ctx is done. Handler errors
// are reported to the user and the loop carries on.
func runREPL(ctx context.Context, a commands, statusFn func() string, in *bufio.Reader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(out, "ca [%s]> ", statusFn())

		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help", "?":
			cmdErr = a.Help(ctx, args)
		case "login":
			cmdErr = a.Login(ctx, args)
		case "signup", "register":
			cmdErr = a.Signup(ctx, args)
		case "logout":
			cmdErr = a.Logout(ctx, args)
		case "whoami":
			cmdErr = a.Whoami(ctx, args)
		case "go":
			cmdErr = a.Go(ctx, args)
		case "back":
			cmdErr = a.Back(ctx, args)
		case "companies":
			cmdErr = a.Companies(ctx, args)
		case "company":
			cmdErr = a.Company(ctx, args)
		case "disclosures":
			cmdErr = a.Disclosures(ctx, args)
		case "favorites", "favs":
			cmdErr = a.Favorites(ctx, args)
		case "fav":
			cmdErr = a.Fav(ctx, args)
		case "memo":
			cmdErr = a.Memo(ctx, args)
		case "chart":
			cmdErr = a.Chart(ctx, args)
		case "rates":
			cmdErr = a.Rates(ctx, args)
		case "history":
			cmdErr = a.History(ctx, args)
		case "news":
			cmdErr = a.News(ctx, args)
		case "more":
			cmdErr = a.More(ctx, args)
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}
		a.report(cmdErr)

		if err != nil {
			return
		}
	}
}

func (a *App) Help(ctx context.Context, args []string) error {
	a.println(helpText)
	return nil
}
