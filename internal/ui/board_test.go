package ui

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/storykit/internal/story"
)

type fakeLister struct {
	stories []story.Story
	err     error
	calls   int
}

func (f *fakeLister) List(context.Context) ([]story.Story, error) {
	f.calls++
	return f.stories, f.err
}

func boardStories() []story.Story {
	mk := func(id, title string, typ story.Type, tasks ...story.Task) story.Story {
		return story.Story{ID: id, Title: title, Type: typ, Tasks: tasks, Status: story.DeriveStatus(tasks)}
	}
	return []story.Story{
		mk("1", "Sign up", story.TypeUserStory, story.Task{ID: 1, Completed: true}),
		mk("2", "Checkout flow", story.TypeUserStory, story.Task{ID: 1, Completed: true}, story.Task{ID: 2}),
		mk("9", "Rotate keys", story.TypeTask),
		mk("42", "Crash on save", story.TypeBug, story.Task{ID: 1}),
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBoardGroupsByStatus(t *testing.T) {
	lister := &fakeLister{stories: boardStories()}
	m := newBoardModel(context.Background(), lister)
	require.NotNil(t, m.Init())
	assert.Equal(t, 1, lister.calls)

	assert.Len(t, m.columns[story.StatusTodo], 2)
	assert.Len(t, m.columns[story.StatusInProgress], 1)
	assert.Len(t, m.columns[story.StatusDone], 1)
	assert.Empty(t, m.columns[story.StatusReview])

	view := m.View()
	assert.Contains(t, view, "Todo: 2  In progress: 1  Review: 0  Done: 1")
	assert.Contains(t, view, "S 2 Checkout flow")
	assert.Contains(t, view, "B 42 Crash on save")
	assert.Contains(t, view, "nothing here")
}

func TestBoardKeys(t *testing.T) {
	lister := &fakeLister{stories: boardStories()}
	m := newBoardModel(context.Background(), lister)
	m.Init()

	m.Update(key("2"))
	assert.Equal(t, story.StatusInProgress, m.filter)
	assert.Equal(t, []story.Status{story.StatusInProgress}, m.visibleStatuses())
	view := m.View()
	assert.Contains(t, view, "Filter: status in-progress")
	assert.NotContains(t, view, "Rotate keys")

	m.Update(key("0"))
	assert.Empty(t, m.filter)

	m.Update(key("t"))
	assert.Equal(t, story.TypeUserStory, m.typeFilter)
	assert.NotContains(t, m.View(), "Crash on save")
	m.Update(key("t"))
	m.Update(key("t"))
	assert.Equal(t, story.TypeBug, m.typeFilter)
	m.Update(key("t"))
	assert.Empty(t, m.typeFilter)

	m.Update(key("?"))
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	calls := lister.calls
	m.Update(key("r"))
	assert.Equal(t, calls+1, lister.calls)

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestBoardTickRefreshes(t *testing.T) {
	lister := &fakeLister{stories: boardStories()}
	m := newBoardModel(context.Background(), lister, WithRefreshInterval(time.Minute))
	m.Init()
	_, cmd := m.Update(tickMsg(time.Now()))
	assert.NotNil(t, cmd)
	assert.Equal(t, 2, lister.calls)
	assert.Contains(t, m.View(), "Refreshing every 1m0s")
}

func TestBoardLoadError(t *testing.T) {
	lister := &fakeLister{err: errors.New("permission denied")}
	m := newBoardModel(context.Background(), lister, WithTypeFilter(story.TypeBug))
	m.Init()
	view := m.View()
	assert.Contains(t, view, "Error loading records:")
	assert.Contains(t, view, "permission denied")
	assert.Contains(t, view, "type bug")
}

func TestBoardColumnWidth(t *testing.T) {
	m := newBoardModel(context.Background(), &fakeLister{})
	assert.Equal(t, defaultColumnWidth, m.columnWidth(4))
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 26, m.columnWidth(4))
	m.Update(tea.WindowSizeMsg{Width: 20, Height: 40})
	assert.Equal(t, 12, m.columnWidth(4))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a long...", truncate("a long title", 9))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "", truncate("abc", 0))
	assert.Equal(t, "héll...", truncate("héllo wörld", 7))
}

func TestStatusLabels(t *testing.T) {
	for _, s := range story.Statuses() {
		assert.Contains(t, StatusBadge(s), string(s))
		assert.NotEmpty(t, StatusLabel(s))
	}
	assert.Equal(t, "weird", StatusLabel("weird"))
}

func TestIsTTY(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
	assert.Equal(t, "?", typeMarker("epic"))
}
