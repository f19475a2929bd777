package service

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"unicode"

	"github.com/goccy/go-json"
)

//go:embed knowledge_base.json
var defaultKnowledge []byte

type KnowledgeEntry struct {
	ID       string   `json:"id"`
	Topic    string   `json:"topic"`
	Keywords []string `json:"keywords"`
	Answer   string   `json:"answer"`
}

type knowledgeFile struct {
	Fallback string           `json:"fallback"`
	Entries  []KnowledgeEntry `json:"entries"`
}

// knowledgeSnapshot is never mutated after it is built.
type knowledgeSnapshot struct {
	fallback string
	entries  []KnowledgeEntry
	index    map[string][]int
}

type KnowledgeAnswer struct {
	Answer  string   `json:"answer"`
	Topic   string   `json:"topic,omitempty"`
	EntryID string   `json:"entry_id,omitempty"`
	Matched []string `json:"matched_keywords,omitempty"`
	Found   bool     `json:"found"`
}

// KnowledgeBase answers chatbot questions from a keyword-indexed snapshot.
// Reload swaps in a new snapshot; in-flight Ask calls keep the one they started with.
type KnowledgeBase struct {
	path     string
	snapshot atomic.Pointer[knowledgeSnapshot]
}

// NewKnowledgeBase loads path, or the built-in knowledge when path is empty.
func NewKnowledgeBase(path string) (*KnowledgeBase, error) {
	kb := &KnowledgeBase{path: path}
	if err := kb.Reload(); err != nil {
		return nil, err
	}
	return kb, nil
}

func (kb *KnowledgeBase) Reload() error {
	raw := defaultKnowledge
	if kb.path != "" {
		data, err := os.ReadFile(kb.path)
		if err != nil {
			return fmt.Errorf("failed to read knowledge base %s: %w", kb.path, err)
		}
		raw = data
	}

	snap, err := buildSnapshot(raw)
	if err != nil {
		return err
	}
	kb.snapshot.Store(snap)
	return nil
}

func (kb *KnowledgeBase) Size() int {
	return len(kb.snapshot.Load().entries)
}

func buildSnapshot(raw []byte) (*knowledgeSnapshot, error) {
	var file knowledgeFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge base: %w", err)
	}
	if len(file.Entries) == 0 {
		return nil, fmt.Errorf("knowledge base has no entries")
	}

	snap := &knowledgeSnapshot{
		fallback: file.Fallback,
		entries:  file.Entries,
		index:    make(map[string][]int),
	}
	for i, entry := range file.Entries {
		for _, kw := range entry.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				snap.index[kw] = append(snap.index[kw], i)
			}
		}
	}
	return snap, nil
}

// Ask returns the entry sharing the most keywords with the question. Ties go to
// the entry listed first.
func (kb *KnowledgeBase) Ask(question string) KnowledgeAnswer {
	snap := kb.snapshot.Load()

	scores := make(map[int][]string)
	seen := make(map[string]bool)
	for _, word := range tokenize(question) {
		if seen[word] {
			continue
		}
		seen[word] = true
		for _, i := range snap.index[word] {
			scores[i] = append(scores[i], word)
		}
	}

	best := -1
	for i := range snap.entries {
		if len(scores[i]) == 0 {
			continue
		}
		if best < 0 || len(scores[i]) > len(scores[best]) {
			best = i
		}
	}

	if best < 0 {
		return KnowledgeAnswer{Answer: snap.fallback}
	}
	entry := snap.entries[best]
	return KnowledgeAnswer{
		Answer:  entry.Answer,
		Topic:   entry.Topic,
		EntryID: entry.ID,
		Matched: scores[best],
		Found:   true,
	}
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
