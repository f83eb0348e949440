package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, in := range []string{"in-progress", "In_Progress", " doing "} {
		s, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, StatusInProgress, s)
	}
	for _, s := range Statuses() {
		got, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseStatus("blocked")
	assert.ErrorContains(t, err, "invalid status")
}

func TestParseType(t *testing.T) {
	cases := map[string]Type{
		"user-stories": TypeUserStory,
		"story":        TypeUserStory,
		"Tasks":        TypeTask,
		"bug":          TypeBug,
	}
	for in, want := range cases {
		got, err := ParseType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseType("epic")
	assert.Error(t, err)
}

func TestStoryAddTask(t *testing.T) {
	s := &Story{ID: "1", Status: StatusTodo}

	task, err := s.AddTask("  write tests  ")
	require.NoError(t, err)
	assert.Equal(t, Task{ID: 1, Description: "write tests"}, task)
	assert.Equal(t, StatusTodo, s.Status)

	_, err = s.AddTask("")
	assert.Error(t, err)
	_, err = s.AddTask("two\nlines")
	assert.Error(t, err)
	assert.Len(t, s.Tasks, 1)
}

func TestStoryAddTaskPRSuffix(t *testing.T) {
	s := &Story{ID: "1"}

	task, err := s.AddTask("Ship it (#12)")
	require.NoError(t, err)
	assert.Equal(t, Task{ID: 1, Description: "Ship it", PRNumber: 12}, task)

	doc := "## Tasks\n"
	merged, err := MergeTasks(doc, s.Tasks)
	require.NoError(t, err)
	assert.Equal(t, s.Tasks, DecodeTasks(merged))

	_, err = s.AddTask("(#3)")
	assert.Error(t, err)
	assert.Len(t, s.Tasks, 1)
}

func TestStorySetCompleted(t *testing.T) {
	s := &Story{ID: "1", Tasks: []Task{{ID: 1, Description: "a"}, {ID: 2, Description: "b"}}}

	require.NoError(t, s.SetCompleted(1, true))
	assert.Equal(t, StatusInProgress, s.Status)
	require.NoError(t, s.SetCompleted(2, true))
	assert.Equal(t, StatusDone, s.Status)
	require.NoError(t, s.SetCompleted(1, false))
	assert.Equal(t, StatusInProgress, s.Status)

	assert.ErrorContains(t, s.SetCompleted(3, true), "task 3 not found")
	assert.Error(t, s.SetCompleted(0, true))
}

func TestStoryLinkPR(t *testing.T) {
	s := &Story{ID: "1", Tasks: []Task{{ID: 1, Description: "a"}}}
	require.NoError(t, s.LinkPR(1, 12))
	assert.Equal(t, 12, s.Tasks[0].PRNumber)
	assert.Error(t, s.LinkPR(2, 12))
	assert.Error(t, s.LinkPR(1, -1))
}

func TestStoryOpenTasks(t *testing.T) {
	s := &Story{Tasks: []Task{{ID: 1, Completed: true}, {ID: 2}, {ID: 3}}}
	open := s.OpenTasks()
	require.Len(t, open, 2)
	assert.Equal(t, 2, open[0].ID)
	assert.Nil(t, (&Story{}).OpenTasks())
}
