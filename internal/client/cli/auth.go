package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/venus/internal/client/client"
	"github.com/dmitrijs2005/venus/internal/client/models"
	"github.com/dmitrijs2005/venus/internal/common"
)

// getSimpleText and getPassword are swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.api.Register(ctx, username, email, string(password))
	if err != nil {
		return err
	}
	if err := a.remember(s); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered and logged in as %s\n", s.User.Username)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.api.Login(ctx, username, string(password))
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := a.remember(s); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", s.User.Username)
	return nil
}

// Logout forgets the token locally. The server keeps no session, so an
// unreachable server does not stop the logout.
func (a *App) Logout(ctx context.Context) error {
	if err := a.tokens.Clear(); err != nil {
		return err
	}
	a.api.SetToken("")
	a.user = ""

	if err := a.api.Logout(ctx); err != nil && !client.IsUnavailable(err) {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.api.CurrentUser(ctx)
	if err != nil {
		return authErr(err)
	}
	a.user = u.Username
	fmt.Fprintf(a.out, "%s <%s> (id %d)\n", u.Username, u.Email, u.ID)
	return nil
}

func (a *App) remember(s *models.Session) error {
	if err := a.tokens.Save(s.Token); err != nil {
		return err
	}
	a.api.SetToken(s.Token)
	a.user = s.User.Username
	return nil
}
