package dashboard_test

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"hris-admin/internal/dashboard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var phrasePattern = regexp.MustCompile(`^Delete Ann [a-z0-9]{6}$`)

func TestGate_PhraseFormat(t *testing.T) {
	gate := dashboard.NewGate()

	phrase, err := gate.Phrase(dashboard.EmployeeRecord{ID: "1", Name: "Ann"})
	require.NoError(t, err)
	assert.Regexp(t, phrasePattern, phrase)

	phrase, err = gate.Phrase(dashboard.EmployeeRecord{ID: "2", Email: "bo@example.com"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(phrase, "Delete bo@example.com "))
}

func TestGate_DeterministicSource(t *testing.T) {
	// byte 0 -> 'a', byte 1 -> 'b' (alphabet a-z0-9)
	gate := dashboard.NewGate(dashboard.WithRandomSource(bytes.NewReader([]byte{0, 1, 2, 3, 4, 5})))

	phrase, err := gate.Phrase(dashboard.EmployeeRecord{Name: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "Delete Ann abcdef", phrase)
}

func TestGate_SourceExhausted(t *testing.T) {
	gate := dashboard.NewGate(dashboard.WithRandomSource(bytes.NewReader(nil)))

	_, err := gate.Phrase(dashboard.EmployeeRecord{Name: "Ann"})
	assert.Error(t, err)
}

func TestPendingDeletion_OnlyExactMatchConfirms(t *testing.T) {
	phrase := "Delete Ann x7k2p9"
	p := dashboard.PendingDeletion{Phrase: phrase}

	assert.False(t, p.Confirmed(), "empty input")

	for i := 0; i < len(phrase); i++ {
		p.Entered = phrase[:i]
		assert.False(t, p.Confirmed(), "prefix %q", p.Entered)
	}
	for i := 1; i <= len(phrase); i++ {
		p.Entered = phrase[i:]
		assert.False(t, p.Confirmed(), "suffix %q", p.Entered)
	}

	for _, variant := range []string{
		strings.ToUpper(phrase),
		strings.ToLower(phrase),
		"delete Ann x7k2p9",
		"Delete Ann X7K2P9",
		phrase + " ",
		" " + phrase,
	} {
		p.Entered = variant
		assert.False(t, p.Confirmed(), "variant %q", variant)
	}

	p.Entered = phrase
	assert.True(t, p.Confirmed())
}

func TestPendingDeletion_EmptyPhraseNeverConfirms(t *testing.T) {
	p := dashboard.PendingDeletion{}
	assert.False(t, p.Confirmed())
}
