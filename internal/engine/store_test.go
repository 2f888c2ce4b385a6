package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskdeck/internal/task"
)

func ids(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestStore_ReplaceSkipsMissingAndDuplicateIDs(t *testing.T) {
	s := newStore()
	s.Replace([]task.Task{
		{ID: "1", Title: "a"},
		{ID: "", Title: "no id"},
		{ID: "2", Title: "b"},
		{ID: "1", Title: "dup"},
	})

	assert.Equal(t, []string{"1", "2"}, ids(s.Tasks()))
	got, ok := s.Get("1")
	assert.True(t, ok)
	assert.Equal(t, "a", got.Title)
}

func TestStore_ReplaceKeepsVersionsOfSurvivors(t *testing.T) {
	s := newStore()
	s.Replace([]task.Task{{ID: "1"}, {ID: "2"}})
	s.SetStatus("1", task.StatusCompleted)
	s.SetStatus("2", task.StatusCompleted)
	s.SetStatus("2", task.StatusEmpty)

	s.Replace([]task.Task{{ID: "2"}, {ID: "3"}})

	assert.Equal(t, uint64(0), s.Version("1"))
	assert.Equal(t, uint64(2), s.Version("2"))
	assert.Equal(t, uint64(0), s.Version("3"))
	assert.Equal(t, []string{"2", "3"}, ids(s.Tasks()))
}

func TestStore_AppendExistingIDReplacesInPlace(t *testing.T) {
	s := newStore()
	s.Append(task.Task{ID: "1", Title: "a"})
	s.Append(task.Task{ID: "2", Title: "b"})
	s.Append(task.Task{ID: "1", Title: "a2"})

	assert.Equal(t, 2, s.Len())
	first, _ := s.At(0)
	assert.Equal(t, "a2", first.Title)
}

func TestStore_RemoveAndAt(t *testing.T) {
	s := newStore()
	s.Replace([]task.Task{{ID: "1"}, {ID: "2"}, {ID: "3"}})

	assert.True(t, s.Remove("2"))
	assert.False(t, s.Remove("2"))
	assert.Equal(t, []string{"1", "3"}, ids(s.Tasks()))

	_, ok := s.At(2)
	assert.False(t, ok)
	_, ok = s.At(-1)
	assert.False(t, ok)
	last, ok := s.At(1)
	assert.True(t, ok)
	assert.Equal(t, "3", last.ID)
}

func TestStore_PutUnknownID(t *testing.T) {
	s := newStore()
	assert.False(t, s.Put(task.Task{ID: "9"}))
	assert.False(t, s.SetStatus("9", task.StatusCompleted))
	assert.Equal(t, 0, s.Len())
}
