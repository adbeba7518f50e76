package commands

import (
	"context"
	"fmt"
	"strings"

	"JourFlow/internal/cli/bootstrap"
	"JourFlow/internal/cli/model"
	"JourFlow/internal/config"
)

// openApp — точка подмены в тестах.
var openApp = bootstrap.Open

// withApp открывает зависимости CLI на время выполнения fn.
func withApp(ctx context.Context, cfg *config.Config, fn func(app *bootstrap.App) error) error {
	app, done, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()
	return fn(app)
}

// withSession дополнительно требует вошедшего пользователя.
func withSession(ctx context.Context, cfg *config.Config, fn func(app *bootstrap.App, sess model.Session) error) error {
	return withApp(ctx, cfg, func(app *bootstrap.App) error {
		sess, err := app.CurrentSession(ctx)
		if err != nil {
			return err
		}
		return fn(app, sess)
	})
}

// stringList — повторяемый флаг (--image a --image b).
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("empty value")
	}
	*l = append(*l, v)
	return nil
}

func printPostLine(p model.Post) {
	title := p.Title
	if title == "" {
		title = firstLine(p.Content)
	}
	fmt.Fprintf(Out, "- %s  %-10s  %s  [%s]  id=%s\n", p.Day(), p.IconPath, title, p.SyncStatus, p.ID)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 40 {
		s = s[:40] + "…"
	}
	return s
}
