package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/todos/internal/config"
	"github.com/Makepad-fr/todos/internal/model"
	"github.com/Makepad-fr/todos/internal/storage"
	"github.com/Makepad-fr/todos/internal/store"
	"github.com/Makepad-fr/todos/internal/ui"
)

type harness struct {
	store          *store.Store
	kv             *storage.Memory
	stdout, stderr bytes.Buffer
	interactive    []model.Filter
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ui.SetTheme("mono")
	t.Cleanup(func() { ui.SetTheme("classic") })
	kv := storage.NewMemory()
	return &harness{store: store.Open(kv), kv: kv}
}

func (h *harness) run(args ...string) int {
	h.stdout.Reset()
	h.stderr.Reset()
	return Run(args, Options{
		Store:  h.store,
		Config: config.Config{Storage: config.StorageConfig{Driver: "memory", Key: "tasks"}},
		Stdout: &h.stdout,
		Stderr: &h.stderr,
		Interactive: func(_ *store.Store, f model.Filter) error {
			h.interactive = append(h.interactive, f)
			return nil
		},
	})
}

func (h *harness) out() string { return ansi.Strip(h.stdout.String()) }
func (h *harness) errOut() string { return ansi.Strip(h.stderr.String()) }

func TestNoArgsPrintsHelp(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ExitUsage, h.run())
	require.Contains(t, h.out(), "Usage:")

	require.Equal(t, ExitOK, h.run("help"))
	require.Contains(t, h.out(), "Subcommands:")
}

func TestAddAndList(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, ExitOK, h.run("add", "Buy", "milk"))
	require.Contains(t, h.out(), "added")
	require.Equal(t, ExitOK, h.run("add", "Walk dog"))

	require.Equal(t, ExitOK, h.run("ls"))
	out := h.out()
	require.Less(t, strings.Index(out, "Walk dog"), strings.Index(out, "Buy milk"), "newest first")
	require.Contains(t, out, "2 items left")
	require.Contains(t, out, " 1. [ ] Walk dog")
}

func TestAddRejectsBlank(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ExitUsage, h.run("add", "   "))
	require.Contains(t, h.errOut(), "empty title")
	require.Zero(t, h.store.Len())

	require.Equal(t, ExitUsage, h.run("add"))
	require.Contains(t, h.errOut(), "usage: todos add")
}

func TestToggleFilterAndCount(t *testing.T) {
	h := newHarness(t)
	h.run("add", "Buy milk")
	h.run("add", "Walk dog")

	require.Equal(t, ExitOK, h.run("done", "2"))
	require.Contains(t, h.out(), "completed: Buy milk")

	require.Equal(t, ExitOK, h.run("ls", "active"))
	require.Contains(t, h.out(), "Walk dog")
	require.NotContains(t, h.out(), "Buy milk")
	require.Contains(t, h.out(), "/active")

	require.Equal(t, ExitOK, h.run("ls", "completed"))
	require.Contains(t, h.out(), " 2. [x] Buy milk")
	require.Contains(t, h.out(), "todos clear")

	require.Equal(t, ExitOK, h.run("count"))
	require.Equal(t, "1\n", h.out())

	require.Equal(t, ExitOK, h.run("toggle", "2"))
	require.Contains(t, h.out(), "reopened: Buy milk")
}

func TestRefByIDPrefix(t *testing.T) {
	h := newHarness(t)
	h.store = store.Open(h.kv, store.WithIDGenerator(func() string {
		return "12345678-aaaa-4bbb-8ccc-000000000001"
	}))
	h.run("add", "Buy milk")
	h.run("add", "Walk dog")
	task, ok := h.store.Get("12345678-aaaa-4bbb-8ccc-000000000001")
	require.True(t, ok)

	require.Equal(t, ExitOK, h.run("rename", shortID(task.ID), "Buy", "oat", "milk"))
	got, _ := h.store.Get(task.ID)
	require.Equal(t, "Buy oat milk", got.Title)

	require.Equal(t, ExitOK, h.run("rm", task.ID))
	require.Equal(t, 1, h.store.Len())
}

func TestBadRefs(t *testing.T) {
	h := newHarness(t)
	h.run("add", "only")

	require.Equal(t, ExitUsage, h.run("rm", "5"))
	require.Contains(t, h.errOut(), "index out of range: have 1, got 5")
	require.Contains(t, h.errOut(), "Hint:")

	require.Equal(t, ExitUsage, h.run("toggle", "zzz"))
	require.Contains(t, h.errOut(), `no task matches "zzz"`)
	require.Equal(t, 1, h.store.Len())
}

func TestRenameRejectsBlank(t *testing.T) {
	h := newHarness(t)
	h.run("add", "keep me")
	require.Equal(t, ExitUsage, h.run("rename", "1", "  "))
	require.Equal(t, "keep me", h.store.Tasks()[0].Title)
}

func TestClearAndAll(t *testing.T) {
	h := newHarness(t)
	h.run("add", "a")
	h.run("add", "b")
	h.run("add", "c")

	require.Equal(t, ExitOK, h.run("all"))
	require.Zero(t, h.store.RemainingCount())

	require.Equal(t, ExitOK, h.run("all", "off"))
	require.Equal(t, 3, h.store.RemainingCount())

	require.Equal(t, ExitUsage, h.run("all", "maybe"))

	h.run("done", "1")
	require.Equal(t, ExitOK, h.run("clear"))
	require.Contains(t, h.out(), "cleared 1 completed")
	require.Equal(t, 2, h.store.Len())
}

func TestGroupedList(t *testing.T) {
	h := newHarness(t)
	h.run("add", "open")
	h.run("add", "finished")
	h.run("done", "1")

	h.stdout.Reset()
	code := Run([]string{"ls"}, Options{Group: true, Store: h.store, Stdout: &h.stdout, Stderr: &h.stderr})
	require.Equal(t, ExitOK, code)
	out := h.out()
	require.Less(t, strings.Index(out, "Pending"), strings.Index(out, "open"))
	require.Less(t, strings.Index(out, "Done"), strings.Index(out, "finished"))
}

func TestUnknownCommandSuggests(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ExitUsage, h.run("lst"))
	require.Contains(t, h.errOut(), "unknown subcommand: lst")
	require.Contains(t, h.errOut(), "Did you mean `todos ls`?")

	require.Equal(t, ExitUsage, h.run("frobnicate"))
	require.NotContains(t, h.errOut(), "Did you mean")
}

func TestInteractive(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ExitOK, h.run("ui", "/active"))
	require.Equal(t, []model.Filter{model.FilterActive}, h.interactive)

	code := Run([]string{"ui"}, Options{
		Store:       h.store,
		Stdout:      &h.stdout,
		Stderr:      &h.stderr,
		Interactive: func(*store.Store, model.Filter) error { return errors.New("no tty") },
	})
	require.Equal(t, ExitError, code)
	require.Contains(t, h.errOut(), "tui: no tty")
}

func TestConfigDump(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ExitOK, h.run("config"))
	require.Contains(t, h.out(), `driver = "memory"`)
}

func TestMissingStore(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"ls"}, Options{Stdout: &stdout, Stderr: &stderr})
	require.Equal(t, ExitError, code)
}

func TestPersistsThroughStore(t *testing.T) {
	h := newHarness(t)
	h.run("add", "durable")

	reopened := store.Open(h.kv)
	require.Equal(t, h.store.Tasks(), reopened.Tasks())
}

func TestResolveRef(t *testing.T) {
	tasks := []model.Task{
		{ID: "abc123", Title: "one"},
		{ID: "abd456", Title: "two"},
	}

	got, err := ResolveRef(tasks, "2")
	require.NoError(t, err)
	require.Equal(t, "two", got.Title)

	got, err = ResolveRef(tasks, "abc")
	require.NoError(t, err)
	require.Equal(t, "one", got.Title)

	_, err = ResolveRef(tasks, "ab")
	require.ErrorContains(t, err, "ambiguous")

	_, err = ResolveRef(tasks, "0")
	require.ErrorContains(t, err, "out of range")

	_, err = ResolveRef(tasks, " ")
	require.Error(t, err)
}

func TestResolveRefNumericIDPrefix(t *testing.T) {
	tasks := []model.Task{
		{ID: "12345678-aaaa-4bbb-8ccc-000000000001", Title: "digits"},
		{ID: "2abcdef0-aaaa-4bbb-8ccc-000000000002", Title: "letters"},
	}

	got, err := ResolveRef(tasks, shortID(tasks[0].ID))
	require.NoError(t, err)
	require.Equal(t, "digits", got.Title)

	got, err = ResolveRef(tasks, "1234")
	require.NoError(t, err)
	require.Equal(t, "digits", got.Title)

	// "2" is the second index and a prefix of the second id.
	got, err = ResolveRef(tasks, "2")
	require.NoError(t, err)
	require.Equal(t, "letters", got.Title)

	// "1" is the first index but a prefix of the first id only, same task.
	got, err = ResolveRef(tasks, "1")
	require.NoError(t, err)
	require.Equal(t, "digits", got.Title)

	_, err = ResolveRef(tasks, "99999999")
	require.ErrorContains(t, err, "index out of range")
}

func TestResolveRefIndexAndPrefixConflict(t *testing.T) {
	tasks := []model.Task{
		{ID: "2aaa", Title: "one"},
		{ID: "bbbb", Title: "two"},
	}
	_, err := ResolveRef(tasks, "2")
	require.ErrorContains(t, err, "ambiguous")
}

func TestItemsLeft(t *testing.T) {
	require.Equal(t, "0 items left", ItemsLeft(0))
	require.Equal(t, "1 item left", ItemsLeft(1))
	require.Equal(t, "7 items left", ItemsLeft(7))
}
