package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	open := Task{Description: "open"}
	done := Task{Description: "done", Completed: true}

	tests := []struct {
		name  string
		tasks []Task
		want  Status
	}{
		{name: "nil", tasks: nil, want: StatusTodo},
		{name: "empty", tasks: []Task{}, want: StatusTodo},
		{name: "none done", tasks: []Task{open, open}, want: StatusTodo},
		{name: "some done", tasks: []Task{open, done}, want: StatusInProgress},
		{name: "some done reversed", tasks: []Task{done, open}, want: StatusInProgress},
		{name: "all done", tasks: []Task{done, done, done}, want: StatusDone},
		{name: "single done", tasks: []Task{done}, want: StatusDone},
		{name: "pr link does not count", tasks: []Task{{Description: "x", PRNumber: 4}}, want: StatusTodo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.tasks))
		})
	}
}

func TestDeriveStatusNeverReview(t *testing.T) {
	for n := 0; n <= 4; n++ {
		for k := 0; k <= n; k++ {
			tasks := make([]Task, n)
			for i := 0; i < k; i++ {
				tasks[i].Completed = true
			}
			assert.NotEqual(t, StatusReview, DeriveStatus(tasks), "n=%d k=%d", n, k)
		}
	}
}

func TestProgress(t *testing.T) {
	done, total := Progress([]Task{{Completed: true}, {}, {Completed: true}})
	assert.Equal(t, 2, done)
	assert.Equal(t, 3, total)

	done, total = Progress(nil)
	assert.Zero(t, done)
	assert.Zero(t, total)
}
