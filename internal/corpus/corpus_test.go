package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typetest/internal/generator"
	"github.com/verte-zerg/typetest/internal/session"
)

func TestDefaultPassages(t *testing.T) {
	p := Default(generator.NewWithSeed(1))
	require.Greater(t, p.Len(), 5)
	text, err := p.Passage()
	require.NoError(t, err)
	assert.NotEmpty(t, text)
	assert.Equal(t, strings.TrimSpace(text), text)
}

func TestLoadFileSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n  only line here  \n\n"), 0o644))

	p, err := LoadFile(path, generator.NewWithSeed(1))
	require.NoError(t, err)
	text, err := p.Passage()
	require.NoError(t, err)
	assert.Equal(t, "only line here", text)
}

func TestEmptyFileIsEmptyCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n\n"), 0o644))

	p, err := LoadFile(path, generator.NewWithSeed(1))
	require.NoError(t, err)
	_, err = session.New(p)
	assert.ErrorIs(t, err, session.ErrEmptyCorpus)
}

func TestMissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.txt"), generator.NewWithSeed(1))
	assert.Error(t, err)
}

func TestNormalizeComposes(t *testing.T) {
	p := NewLines([]string{"cafe\u0301"}, generator.NewWithSeed(1))
	text, err := p.Passage()
	require.NoError(t, err)
	assert.Equal(t, "caf\u00e9", text)
	assert.Len(t, []rune(text), 4)
}

func TestWordsPassage(t *testing.T) {
	p := NewWords([]string{"red", "green", "two words", ""}, WordsConfig{Count: 5}, generator.NewWithSeed(3))
	text, err := p.Passage()
	require.NoError(t, err)
	words := strings.Split(text, " ")
	assert.Len(t, words, 5)
	for _, w := range words {
		assert.Contains(t, []string{"red", "green"}, w)
	}

	p.SetWeakSet(map[rune]struct{}{'g': {}})
	text, err = p.Passage()
	require.NoError(t, err)
	assert.Len(t, strings.Split(text, " "), 5)

	_, err = NewWords(nil, WordsConfig{Count: 5}, generator.NewWithSeed(3)).Passage()
	assert.ErrorIs(t, err, session.ErrEmptyCorpus)
}
