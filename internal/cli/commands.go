package cli

import (
	"fmt"
	"strings"

	"github.com/Makepad-fr/todos/internal/model"
	"github.com/Makepad-fr/todos/internal/ui"
)

const maxTitleWidth = 80

func doList(opt Options, f model.Filter) int {
	s := opt.Store
	t := ui.Current()
	all := s.Tasks()
	left := s.RemainingCount()
	done := len(all) - left

	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d  %s",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), done,
		t.Pending.Render(t.SymPending), left,
		t.Accent.Render("Total"), len(all),
		t.Muted.Render(f.Route()),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, t.Muted.Render(ui.ProgressBar(done, len(all), 28)))
	lines = append(lines, "")

	if opt.Group && f == model.FilterAll {
		lines = append(lines, groupLines(all)...)
	} else {
		lines = append(lines, flatLines(all, f)...)
	}
	lines = append(lines, "")
	footer := t.Muted.Render(ItemsLeft(left))
	if s.AnyCompleted() {
		footer += t.Muted.Render("  ·  `todos clear` removes completed")
	}
	lines = append(lines, footer)
	fmt.Fprintln(opt.Stdout, ui.Panel(lines))
	return ExitOK
}

// ItemsLeft renders the remaining-count footer.
func ItemsLeft(n int) string {
	if n == 1 {
		return "1 item left"
	}
	return fmt.Sprintf("%d items left", n)
}

func doAdd(opt Options, title string) int {
	title = strings.TrimSpace(title)
	if title == "" {
		ui.Fail(opt.Stderr, "add: empty title")
		return ExitUsage
	}
	task := opt.Store.Add(title)
	ui.OK(opt.Stdout, "added "+shortID(task.ID))
	return ExitOK
}

func doToggle(opt Options, ref string) int {
	task, ok := resolve(opt, ref)
	if !ok {
		return ExitUsage
	}
	opt.Store.Toggle(task.ID)
	if task.Completed {
		ui.OK(opt.Stdout, "reopened: "+task.Title)
	} else {
		ui.OK(opt.Stdout, "completed: "+task.Title)
	}
	return ExitOK
}

func doRename(opt Options, ref, title string) int {
	title = strings.TrimSpace(title)
	if title == "" {
		ui.Fail(opt.Stderr, "rename: empty title")
		return ExitUsage
	}
	task, ok := resolve(opt, ref)
	if !ok {
		return ExitUsage
	}
	opt.Store.Rename(task.ID, title)
	ui.OK(opt.Stdout, "renamed")
	return ExitOK
}

func doRemove(opt Options, ref string) int {
	task, ok := resolve(opt, ref)
	if !ok {
		return ExitUsage
	}
	opt.Store.Remove(task.ID)
	ui.OK(opt.Stdout, "removed: "+task.Title)
	return ExitOK
}

func doClear(opt Options) int {
	before := opt.Store.Len()
	opt.Store.ClearCompleted()
	ui.OK(opt.Stdout, fmt.Sprintf("cleared %d completed", before-opt.Store.Len()))
	return ExitOK
}

func doAll(opt Options, v bool) int {
	opt.Store.SetAllCompleted(v)
	if v {
		ui.OK(opt.Stdout, "all completed")
	} else {
		ui.OK(opt.Stdout, "all active")
	}
	return ExitOK
}

func resolve(opt Options, ref string) (model.Task, bool) {
	task, err := ResolveRef(opt.Store.Tasks(), ref)
	if err != nil {
		ui.Fail(opt.Stderr, err.Error())
		ui.Hint(opt.Stderr, "Hint: run `todos ls` to see valid refs")
		return model.Task{}, false
	}
	return task, true
}

// -------------- rendering helpers --------------

// flatLines numbers tasks by their position in the whole collection so the
// index stays a valid ref under any filter.
func flatLines(all []model.Task, f model.Filter) []string {
	t := ui.Current()
	var out []string
	for i, it := range all {
		if !f.Match(it) {
			continue
		}
		title := ui.Truncate(it.Title, maxTitleWidth)
		if it.Completed {
			title = t.Done.Render(title)
		}
		out = append(out, fmt.Sprintf("%s %s %s %s",
			t.Muted.Render(fmt.Sprintf("%2d.", i+1)),
			ui.Checkbox(it.Completed),
			title,
			t.Muted.Render(shortID(it.ID)),
		))
	}
	if len(out) == 0 {
		return []string{t.Muted.Render("no tasks")}
	}
	return out
}

func groupLines(all []model.Task) []string {
	t := ui.Current()
	var lines []string
	lines = append(lines, t.Accent.Render("Pending"))
	lines = append(lines, flatLines(all, model.FilterActive)...)
	lines = append(lines, "")
	lines = append(lines, t.Accent.Render("Done"))
	lines = append(lines, flatLines(all, model.FilterCompleted)...)
	return lines
}
