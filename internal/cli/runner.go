package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/Makepad-fr/todos/internal/config"
	"github.com/Makepad-fr/todos/internal/model"
	"github.com/Makepad-fr/todos/internal/store"
	"github.com/Makepad-fr/todos/internal/tui"
	"github.com/Makepad-fr/todos/internal/ui"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Options carries the collaborators a command needs and tunes output.
type Options struct {
	Group  bool // list grouped by pending/done
	Store  *store.Store
	Config config.Config

	Stdout, Stderr io.Writer

	// Interactive runs the terminal UI; nil means tui.Run.
	Interactive func(*store.Store, model.Filter) error
}

func (o *Options) defaults() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Interactive == nil {
		o.Interactive = tui.Run
	}
}

var commands = []string{"help", "add", "ls", "list", "toggle", "done", "rename", "edit", "rm", "remove", "clear", "all", "count", "ui", "config"}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	opt.defaults()
	if len(args) == 0 {
		PrintHelp(opt.Stdout)
		return ExitUsage
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Stdout)
		return ExitOK

	case "config":
		if err := opt.Config.WriteTOML(opt.Stdout); err != nil {
			ui.Fail(opt.Stderr, err.Error())
			return ExitError
		}
		return ExitOK
	}

	if opt.Store == nil {
		ui.Fail(opt.Stderr, "no task store configured")
		return ExitError
	}

	switch cmd {
	case "ls", "list":
		if len(a) > 1 {
			return usage(opt, "todos ls [all|active|completed]")
		}
		f := model.FilterAll
		if len(a) == 1 {
			f = model.ParseFilter(a[0])
		}
		return doList(opt, f)

	case "add":
		if len(a) == 0 {
			return usage(opt, "todos add <title...>")
		}
		return doAdd(opt, strings.Join(a, " "))

	case "toggle", "done":
		if len(a) != 1 {
			return usage(opt, "todos "+cmd+" <ref>")
		}
		return doToggle(opt, a[0])

	case "rename", "edit":
		if len(a) < 2 {
			return usage(opt, "todos "+cmd+" <ref> <title...>")
		}
		return doRename(opt, a[0], strings.Join(a[1:], " "))

	case "rm", "remove":
		if len(a) != 1 {
			return usage(opt, "todos "+cmd+" <ref>")
		}
		return doRemove(opt, a[0])

	case "clear":
		return doClear(opt)

	case "all":
		v := true
		if len(a) == 1 {
			switch a[0] {
			case "on", "done", "true":
			case "off", "undone", "false":
				v = false
			default:
				return usage(opt, "todos all [on|off]")
			}
		} else if len(a) > 1 {
			return usage(opt, "todos all [on|off]")
		}
		return doAll(opt, v)

	case "count":
		fmt.Fprintln(opt.Stdout, opt.Store.RemainingCount())
		return ExitOK

	case "ui":
		f := model.FilterAll
		if len(a) == 1 {
			f = model.ParseFilter(a[0])
		}
		if err := opt.Interactive(opt.Store, f); err != nil {
			ui.Fail(opt.Stderr, "tui: "+err.Error())
			return ExitError
		}
		return ExitOK
	}

	ui.Fail(opt.Stderr, "unknown subcommand: "+cmd)
	if s := suggest(cmd); s != "" {
		ui.Hint(opt.Stderr, fmt.Sprintf("Did you mean `todos %s`?", s))
	}
	fmt.Fprintln(opt.Stderr)
	PrintHelp(opt.Stderr)
	return ExitUsage
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `todos - a tiny task list

Usage:
  todos [flags] <subcommand> [args]

Subcommands:
  add <title...>          Add a new task (title can be multiple words)
  ls [filter]             List tasks; filter is all, active or completed
  toggle <ref>            Toggle completion (alias: done)
  rename <ref> <title...> Change a task's title (alias: edit)
  rm <ref>                Remove a task
  clear                   Remove all completed tasks
  all [on|off]            Mark every task completed (on) or active (off)
  count                   Print the number of tasks left
  ui [filter]             Interactive terminal UI
  config                  Print the effective configuration

A <ref> is the 1-based index shown by ls, a task id, or a unique id prefix.

Examples:
  todos add "Buy milk"
  todos ls active
  todos done 2
  todos rename 1 Buy oat milk
`)
}

func usage(opt Options, line string) int {
	ui.Fail(opt.Stderr, "usage: "+line)
	return ExitUsage
}

// suggest returns the closest known subcommand within edit distance 2.
func suggest(cmd string) string {
	best, bestDist := "", 3
	for _, c := range commands {
		if d := levenshtein.ComputeDistance(cmd, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
