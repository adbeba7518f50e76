package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"JourFlow/internal/cli/bootstrap"
	"JourFlow/internal/cli/model"
	"JourFlow/internal/cli/service"
	"JourFlow/internal/config"
)

type syncCmd struct{}

func (syncCmd) Name() string { return "sync" }
func (syncCmd) Description() string {
	return "Синхронизировать записи и изображения с сервером"
}
func (syncCmd) Usage() string { return "sync" }

func (syncCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return withSession(ctx, cfg, func(app *bootstrap.App, sess model.Session) error {
		if _, err := app.Auth.EnsureFreshToken(ctx, sess); err != nil {
			if errors.Is(err, service.ErrSessionExpired) {
				return err
			}
			app.Log.Warnw("token refresh failed", "err", err)
		}

		fmt.Fprintln(Out, "→ Синхронизация…")
		rep, err := app.Syncer(ctx).RunPass(ctx, sess)
		if errors.Is(err, service.ErrSyncInProgress) {
			return err
		}
		printPassReport(rep)
		if err != nil {
			return fmt.Errorf("sync failed, will retry: %w", err)
		}
		if rep.Partial() {
			fmt.Fprintf(Out, "! Не загружено изображений: %d, повторим при следующей синхронизации\n", len(rep.Uploads))
			return nil
		}
		fmt.Fprintln(Out, "✓ Синхронизация завершена")
		return nil
	})
}

func printPassReport(rep service.PassReport) {
	if m := rep.Merge; m.PostsInserted+m.ImagesInserted > 0 {
		fmt.Fprintf(Out, "• Получено с сервера: записей %d, изображений %d\n", m.PostsInserted, m.ImagesInserted)
	}
	for _, st := range rep.Steps {
		switch {
		case st.Err != nil:
			fmt.Fprintf(Out, "× %s: %v\n", st.Step, st.Err)
		case st.Sent > 0:
			fmt.Fprintf(Out, "✓ %s: отправлено %d, подтверждено %d\n", st.Step, st.Sent, st.Settled)
		}
	}
	for _, u := range rep.Uploads {
		fmt.Fprintf(Out, "! %v\n", u)
	}
}

type wipeCmd struct{}

func (wipeCmd) Name() string        { return "wipe" }
func (wipeCmd) Description() string { return "Удалить все локальные записи (сервер не затрагивается)" }
func (wipeCmd) Usage() string       { return "wipe --yes" }

func (wipeCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("wipe", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	yes := fs.Bool("yes", false, "подтверждение")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 || !*yes {
		return ErrUsage
	}
	return withApp(ctx, cfg, func(app *bootstrap.App) error {
		if err := app.Journal.Wipe(ctx); err != nil {
			return err
		}
		fmt.Fprintln(Out, "Локальные записи удалены")
		return nil
	})
}

func init() {
	register(groupSync, syncCmd{}, wipeCmd{})
}
