package commands

import (
	"context"
	"fmt"
	"time"

	"JourFlow/internal/cli/bootstrap"
	"JourFlow/internal/config"
)

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Показать пользователя и несинхронизированные изменения" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return withApp(ctx, cfg, func(app *bootstrap.App) error {
		sess, u, err := app.Auth.Current(ctx)
		if err != nil {
			return err
		}
		counts, err := app.Journal.Pending(ctx, sess)
		if err != nil {
			return err
		}
		fmt.Fprintf(Out, "User:    %s (%s)\n", u.Username, u.ID)
		fmt.Fprintf(Out, "Server:  %s\n", cfg.ServerURL)
		fmt.Fprintf(Out, "Pending: new=%d updated=%d deleted=%d images=%d\n",
			counts["new_posts"], counts["updated_posts"], counts["deleted_posts"], counts["new_images"])
		last := "never"
		if at, err := app.Session.LoadLastSyncAt(sess.UserID); err == nil {
			last = at.Local().Format(time.RFC3339)
		}
		fmt.Fprintf(Out, "Last sync: %s\n", last)
		return nil
	})
}

func init() { register(groupAccount, statusCmd{}) }
