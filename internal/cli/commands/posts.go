package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"JourFlow/internal/cli/bootstrap"
	"JourFlow/internal/cli/model"
	"JourFlow/internal/config"
)

type postsCmd struct{}

func (postsCmd) Name() string        { return "posts" }
func (postsCmd) Description() string { return "Показать записи (фильтр по дню и тексту)" }
func (postsCmd) Usage() string       { return "posts [--date=YYYY-MM-DD] [--q=text]" }
func (postsCmd) Aliases() []string   { return []string{"ls"} }

func (postsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("posts", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	date := fs.String("date", "", "день YYYY-MM-DD")
	q := fs.String("q", "", "подстрока заголовка или текста")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}
	return withSession(ctx, cfg, func(app *bootstrap.App, sess model.Session) error {
		list, err := app.Journal.List(ctx, sess, model.PostFilter{Day: *date, Text: *q})
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Fprintln(Out, "Нет записей")
			return nil
		}
		for _, p := range list {
			printPostLine(p)
		}
		fmt.Fprintf(Out, "Всего: %d\n", len(list))
		return nil
	})
}

type postGetCmd struct{}

func (postGetCmd) Name() string        { return "post-get" }
func (postGetCmd) Description() string { return "Показать запись целиком" }
func (postGetCmd) Usage() string       { return "post-get <id>" }
func (postGetCmd) Aliases() []string   { return []string{"show"} }

func (postGetCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	return withSession(ctx, cfg, func(app *bootstrap.App, sess model.Session) error {
		d, err := app.Journal.Get(ctx, sess, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(Out, "ID:      %s\n", d.ID)
		fmt.Fprintf(Out, "Date:    %s\n", d.Day)
		fmt.Fprintf(Out, "Mood:    %s\n", d.Icon)
		fmt.Fprintf(Out, "Title:   %s\n", d.Title)
		fmt.Fprintf(Out, "Status:  %s\n", d.Status)
		fmt.Fprintf(Out, "Updated: %s\n", d.Updated)
		if d.Content != "" {
			fmt.Fprintf(Out, "\n%s\n", d.Content)
		}
		if len(d.Images) > 0 {
			fmt.Fprintln(Out, "\nImages:")
			for _, im := range d.Images {
				mark := "local"
				if im.Uploaded {
					mark = "uploaded"
				}
				fmt.Fprintf(Out, "  - %s (%s)\n", im.URL, mark)
			}
		}
		return nil
	})
}

type postAddCmd struct{}

func (postAddCmd) Name() string        { return "post-add" }
func (postAddCmd) Description() string { return "Создать запись за день" }
func (postAddCmd) Usage() string {
	return "post-add [--date=YYYY-MM-DD] --icon=<mood> [--title=..] [--content=..] [--image=path]..."
}

func (postAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("post-add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	date := fs.String("date", time.Now().Format(model.DayLayout), "день записи")
	icon := fs.String("icon", "", "иконка настроения: "+moodList())
	title := fs.String("title", "", "заголовок")
	content := fs.String("content", "", "текст")
	var images stringList
	fs.Var(&images, "image", "путь к изображению (можно повторять)")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 || *icon == "" {
		return ErrUsage
	}
	day, err := model.ParseDay(*date)
	if err != nil {
		return ErrUsage
	}
	return withSession(ctx, cfg, func(app *bootstrap.App, sess model.Session) error {
		id, err := app.Journal.Add(ctx, sess, model.NewPost{
			Title:      *title,
			Content:    *content,
			IconPath:   model.MoodIcon(*icon),
			PostDate:   day,
			ImagePaths: images,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(Out, "Created:")
		fmt.Fprintf(Out, "  id:     %s\n", id)
		fmt.Fprintf(Out, "  date:   %s\n", day.Format(model.DayLayout))
		if len(images) > 0 {
			fmt.Fprintf(Out, "  images: %d\n", len(images))
		}
		return nil
	})
}

type postEditCmd struct{}

func (postEditCmd) Name() string        { return "post-edit" }
func (postEditCmd) Description() string { return "Изменить запись; --image заменяет все изображения" }
func (postEditCmd) Usage() string {
	return "post-edit <id> [--title=..] [--content=..] [--icon=..] [--image=path]... [--clear-images]"
}

func (postEditCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 || strings.HasPrefix(args[0], "-") {
		return ErrUsage
	}
	id := args[0]
	fs := flag.NewFlagSet("post-edit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	title := fs.String("title", "", "")
	content := fs.String("content", "", "")
	icon := fs.String("icon", "", "")
	clear := fs.Bool("clear-images", false, "")
	var images stringList
	fs.Var(&images, "image", "")
	if err := fs.Parse(args[1:]); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}

	var patch model.PostPatch
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			patch.Title = title
		case "content":
			patch.Content = content
		case "icon":
			ic := model.MoodIcon(*icon)
			patch.IconPath = &ic
		}
	})
	switch {
	case *clear && len(images) > 0:
		return ErrUsage
	case *clear:
		patch.ImagePaths = []string{}
	case len(images) > 0:
		patch.ImagePaths = images
	}

	return withSession(ctx, cfg, func(app *bootstrap.App, sess model.Session) error {
		if err := app.Journal.Edit(ctx, sess, id, patch); err != nil {
			return err
		}
		fmt.Fprintf(Out, "Updated: %s\n", id)
		return nil
	})
}

type postDeleteCmd struct{}

func (postDeleteCmd) Name() string        { return "post-delete" }
func (postDeleteCmd) Description() string { return "Удалить запись (на сервере при следующей синхронизации)" }
func (postDeleteCmd) Usage() string       { return "post-delete <id>" }
func (postDeleteCmd) Aliases() []string   { return []string{"rm"} }

func (postDeleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	return withSession(ctx, cfg, func(app *bootstrap.App, sess model.Session) error {
		if err := app.Journal.Delete(ctx, sess, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(Out, "Deleted: %s\n", args[0])
		return nil
	})
}

type daysCmd struct{}

func (daysCmd) Name() string        { return "days" }
func (daysCmd) Description() string { return "Дни месяца, за которые есть записи" }
func (daysCmd) Usage() string       { return "days <YYYY-MM>" }

func (daysCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	return withSession(ctx, cfg, func(app *bootstrap.App, sess model.Session) error {
		days, err := app.Journal.PostDaysInMonth(ctx, sess, args[0])
		if err != nil {
			return err
		}
		if len(days) == 0 {
			fmt.Fprintln(Out, "Нет записей")
			return nil
		}
		for _, d := range days {
			fmt.Fprintln(Out, d)
		}
		return nil
	})
}

func moodList() string {
	names := make([]string, 0, len(model.MoodIcons))
	for _, ic := range model.MoodIcons {
		names = append(names, string(ic))
	}
	return strings.Join(names, ", ")
}

func init() {
	register(groupJournal, postsCmd{}, postGetCmd{}, postAddCmd{}, postEditCmd{}, postDeleteCmd{}, daysCmd{})
}
