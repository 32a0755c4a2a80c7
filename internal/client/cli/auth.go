package cli

import (
	"context"

	"github.com/dmitrijs2005/companyanalyzer/internal/client/session"
	"github.com/dmitrijs2005/companyanalyzer/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Login opens the login view, prompts for credentials and signs in. On
// success the user lands where the guard stopped them, or on the root.
// A failed attempt leaves the session untouched and stays on the login view.
func (a *App) Login(ctx context.Context, args []string) error {
	if a.router.Current() != common.LoginPath {
		a.router.Push(common.LoginPath)
	}
	a.renderLogin()

	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeBytes(password)

	res := a.session.Login(ctx, email, string(password))
	if !res.Success {
		a.println(res.Message)
		return nil
	}
	return a.afterAuth(ctx)
}

// Signup prompts for email, password and name and creates the account,
// signing the user in.
func (a *App) Signup(ctx context.Context, args []string) error {
	a.router.Push(common.SignupPath)

	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeBytes(password)
	name, err := getSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return err
	}

	res := a.session.Signup(ctx, session.SignupFields{Email: email, Password: string(password), Name: name})
	if !res.Success {
		a.println(res.Message)
		return nil
	}
	return a.afterAuth(ctx)
}

func (a *App) afterAuth(ctx context.Context) error {
	if u, ok := a.session.User(); ok {
		a.printf("Welcome, %s.\n", displayName(u.Name, u.Email))
	}
	a.guard.CompleteLogin()
	return a.render(ctx)
}

func (a *App) Logout(ctx context.Context, args []string) error {
	res := a.session.Logout(ctx)
	a.println(res.Message)
	a.router.Push(common.RootPath)
	return nil
}

// Whoami checks the session with the backend before answering.
func (a *App) Whoami(ctx context.Context, args []string) error {
	u, ok := a.session.User()
	if !ok || !a.session.Validate(ctx) {
		a.println("Not logged in.")
		return nil
	}
	a.printf("%s <%s> (user %s)\n", displayName(u.Name, u.Email), u.Email, u.UserCode)
	return nil
}

func displayName(name, email string) string {
	if name != "" {
		return name
	}
	return email
}
