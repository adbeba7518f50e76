package commands

import (
	"JourFlow/internal/config"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// ErrUsage возвращается командой при неверных аргументах; Dispatch печатает Usage.
var ErrUsage = errors.New("usage")

// Command — подкоманда jfcli.
type Command interface {
	// Name — имя, которое набирает пользователь, например "post-add".
	Name() string
	// Description — короткое описание для help.
	Description() string
	// Usage — строка использования, например "post-get <id>".
	Usage() string
	// Run выполняет команду; args без имени команды.
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

// Aliased реализуют команды, у которых есть короткие имена.
type Aliased interface {
	Aliases() []string
}

// Группы команд в help, в порядке вывода.
const (
	groupAccount = "Аккаунт"
	groupJournal = "Дневник"
	groupSync    = "Синхронизация"
	groupOther   = "Прочее"
)

var groupOrder = []string{groupAccount, groupJournal, groupSync, groupOther}

type entry struct {
	cmd   Command
	group string
}

var (
	registry = map[string]entry{}
	aliases  = map[string]string{}
)

// Out — writer для вывода CLI; в тестах подменяется.
var Out io.Writer = os.Stdout

// RegisterCmd добавляет команду в группу groupOther.
func RegisterCmd(cmd Command) { register(groupOther, cmd) }

func register(group string, cmds ...Command) {
	for _, c := range cmds {
		registry[c.Name()] = entry{cmd: c, group: group}
		if a, ok := c.(Aliased); ok {
			for _, al := range a.Aliases() {
				aliases[al] = c.Name()
			}
		}
	}
}

// Get ищет команду по имени или псевдониму.
func Get(name string) (Command, bool) {
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	e, ok := registry[name]
	return e.cmd, ok
}

// List возвращает команды, отсортированные по группе и имени.
func List() []Command {
	rank := make(map[string]int, len(groupOrder))
	for i, g := range groupOrder {
		rank[g] = i
	}
	list := make([]entry, 0, len(registry))
	for _, e := range registry {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].group != list[j].group {
			return rank[list[i].group] < rank[list[j].group]
		}
		return list[i].cmd.Name() < list[j].cmd.Name()
	})
	out := make([]Command, len(list))
	for i, e := range list {
		out[i] = e.cmd
	}
	return out
}

// FormatGlobalUsage собирает общий help, сгруппированный по разделам.
func FormatGlobalUsage() string {
	var b strings.Builder
	b.WriteString("JourFlow CLI\n\n")
	b.WriteString("Usage:\n  jfcli [--base-url <host:port>] [--config file] <command> [args]\n")
	group := ""
	for _, c := range List() {
		if g := registry[c.Name()].group; g != group {
			group = g
			fmt.Fprintf(&b, "\n%s:\n", group)
		}
		fmt.Fprintf(&b, "  %-28s %s\n", c.Usage(), c.Description())
	}
	return b.String()
}

// FormatCommandUsage — help одной команды, с псевдонимами.
func FormatCommandUsage(c Command) string {
	s := fmt.Sprintf("Usage: %s\n  %s\n", c.Usage(), c.Description())
	if a, ok := c.(Aliased); ok && len(a.Aliases()) > 0 {
		s += fmt.Sprintf("  aliases: %s\n", strings.Join(a.Aliases(), ", "))
	}
	return s
}
