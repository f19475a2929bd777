package service

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnowledgeBaseDefaultAnswers(t *testing.T) {
	kb, err := NewKnowledgeBase("")
	require.NoError(t, err)
	assert.Greater(t, kb.Size(), 0)

	answer := kb.Ask("My dog ate CHOCOLATE, is that toxic?")
	assert.True(t, answer.Found)
	assert.Equal(t, "toxic-food", answer.EntryID)
	assert.ElementsMatch(t, []string{"chocolate", "toxic"}, answer.Matched)

	miss := kb.Ask("What is the meaning of life?")
	assert.False(t, miss.Found)
	assert.NotEmpty(t, miss.Answer)
}

func TestKnowledgeBaseReloadSwapsSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.json")
	write := func(answer string) {
		body := `{"fallback":"none","entries":[{"id":"a","topic":"T","keywords":["bath"],"answer":"` + answer + `"}]}`
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}

	write("monthly")
	kb, err := NewKnowledgeBase(path)
	require.NoError(t, err)
	assert.Equal(t, "monthly", kb.Ask("how often bath").Answer)

	write("weekly")
	require.NoError(t, kb.Reload())
	assert.Equal(t, "weekly", kb.Ask("how often bath").Answer)
}

func TestKnowledgeBaseReloadKeepsOldSnapshotOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"entries":[{"id":"a","keywords":["bath"],"answer":"ok"}]}`), 0o600))

	kb, err := NewKnowledgeBase(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))
	assert.Error(t, kb.Reload())
	assert.Equal(t, "ok", kb.Ask("bath").Answer)
}

func TestKnowledgeBaseConcurrentAskAndReload(t *testing.T) {
	kb, err := NewKnowledgeBase("")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			kb.Ask("vaccine booster")
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, kb.Reload())
		}()
	}
	wg.Wait()
}
