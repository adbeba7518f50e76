package commands

import (
	"context"
	"fmt"

	"JourFlow/internal/cli/bootstrap"
	"JourFlow/internal/config"
)

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Войти по Google id token и загрузить записи с сервера" }
func (loginCmd) Usage() string       { return "login <google-id-token>" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 || args[0] == "" {
		return ErrUsage
	}
	return withApp(ctx, cfg, func(app *bootstrap.App) error {
		u, err := app.Auth.SignIn(ctx, args[0])
		if err != nil {
			return err
		}
		name := u.Username
		if name == "" {
			name = u.ID
		}
		fmt.Fprintf(Out, "✓ Вход выполнен: %s", name)
		if u.Email != "" {
			fmt.Fprintf(Out, " <%s>", u.Email)
		}
		fmt.Fprintln(Out)
		return nil
	})
}

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "Выйти; локальные записи остаются на устройстве" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return withApp(ctx, cfg, func(app *bootstrap.App) error {
		if err := app.Auth.SignOut(); err != nil {
			return err
		}
		fmt.Fprintln(Out, "Сессия завершена")
		return nil
	})
}

func init() {
	register(groupAccount, loginCmd{}, logoutCmd{})
}
