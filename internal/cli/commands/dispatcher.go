package commands

import (
	"JourFlow/internal/common"
	"JourFlow/internal/config"
	"context"
	"errors"
	"fmt"
	"strings"
)

// Коды выхода jfcli.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// Dispatch выполняет команду из args и возвращает код выхода процесса.
// Глобальные флаги к этому моменту уже разобраны config.Load.
func Dispatch(ctx context.Context, cfg *config.Config, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return exitUsage
	}

	name := strings.ToLower(args[0])
	if name == "help" { // jfcli help [command]
		return help(args[1:])
	}

	c, ok := Get(name)
	if !ok {
		fmt.Fprintf(Out, "Unknown command: %s\n\n", name)
		fmt.Fprint(Out, FormatGlobalUsage())
		return exitUsage
	}
	if wantsHelp(args[1:]) {
		fmt.Fprint(Out, FormatCommandUsage(c))
		return exitOK
	}

	err := c.Run(ctx, cfg, args[1:])
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, ErrUsage):
		fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
		return exitUsage
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrNotFound):
		// ошибки пользователя — без имени команды
		fmt.Fprintf(Out, "Ошибка: %v\n", err)
		return exitError
	default:
		fmt.Fprintf(Out, "%s error: %v\n", c.Name(), err)
		return exitError
	}
}

func help(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return exitOK
	}
	if c, ok := Get(strings.ToLower(args[0])); ok {
		fmt.Fprint(Out, FormatCommandUsage(c))
		return exitOK
	}
	fmt.Fprintf(Out, "Unknown command: %s\n\n", args[0])
	fmt.Fprint(Out, FormatGlobalUsage())
	return exitUsage
}

func wantsHelp(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "-h" || a == "--help" {
			return true
		}
	}
	return false
}
