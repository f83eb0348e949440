package story

// Progress returns the number of completed tasks and the total.
func Progress(tasks []Task) (done, total int) {
	total = len(tasks)
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	return done, total
}

// DeriveStatus computes a story status from its checklist.
// It depends only on counts, never on order, and never yields StatusReview.
func DeriveStatus(tasks []Task) Status {
	done, total := Progress(tasks)
	switch {
	case total == 0 || done == 0:
		return StatusTodo
	case done == total:
		return StatusDone
	default:
		return StatusInProgress
	}
}
