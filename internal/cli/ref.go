package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Makepad-fr/todos/internal/model"
)

const shortIDLen = 8

// ResolveRef finds the task a command-line reference points at: an exact
// id, a prefix matching exactly one id, or a 1-based index into tasks. A
// numeric ref that is both an index and an id prefix is ambiguous unless
// both name the same task.
func ResolveRef(tasks []model.Task, ref string) (model.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Task{}, fmt.Errorf("empty ref")
	}

	var match []model.Task
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			match = append(match, t)
		}
	}

	n, err := strconv.Atoi(ref)
	if err == nil && n >= 1 && n <= len(tasks) {
		byIndex := tasks[n-1]
		if len(match) == 0 || (len(match) == 1 && match[0].ID == byIndex.ID) {
			return byIndex, nil
		}
		return model.Task{}, fmt.Errorf("ambiguous ref %q: index %d and %d id prefix match(es)", ref, n, len(match))
	}

	switch len(match) {
	case 0:
		if err == nil {
			return model.Task{}, fmt.Errorf("index out of range: have %d, got %d", len(tasks), n)
		}
		return model.Task{}, fmt.Errorf("no task matches %q", ref)
	case 1:
		return match[0], nil
	default:
		return model.Task{}, fmt.Errorf("ambiguous ref %q matches %d tasks", ref, len(match))
	}
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}
