package model

// Task is the domain model for a todo entry.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Active reports whether the task is still pending.
func (t Task) Active() bool { return !t.Completed }
