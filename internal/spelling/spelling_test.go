package spelling_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethanolivertroy/dep-inventory/internal/spelling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_KnownWords(t *testing.T) {
	d := spelling.Default()
	assert.Greater(t, d.Len(), 30000)

	for _, w := range []string{
		"this", "sentence", "is", "spelt", "correctly", "not", "This", "SENTENCE",
		"running", "yesterday", "walked", "cats", "customers", "email", "address",
		"invoice", "shipping", "delivered", "happily", "I'm", "don't",
	} {
		assert.True(t, d.Known(w), w)
	}
	for _, w := range []string{"sentnence", "splet", "corectly", "adress", "yesterdy", "", "nan", "this sentence"} {
		assert.False(t, d.Known(w), w)
	}
}

func TestDictionary_Exemptions(t *testing.T) {
	d := spelling.New([]string{"word"})

	tests := []struct {
		text  string
		known bool
	}{
		{".", true},
		{"$", true},
		{"-", true},
		{"..", false},
		{"42", true},
		{"3.14", true},
		{"-7", true},
		{"1e10", true},
		{"NaN", false},
		{"12345678901", false},
		{"word", true},
		{"Word", true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.known, d.Known(tt.text))
		})
	}
}

func TestDictionary_CaseSensitive(t *testing.T) {
	d := spelling.New([]string{"Paris", "city"}, spelling.CaseSensitive())

	assert.True(t, d.Known("Paris"))
	assert.False(t, d.Known("paris"))
	assert.True(t, d.Known("city"))
	assert.False(t, d.Known("City"))
}

func TestDictionary_UnicodeFolding(t *testing.T) {
	d := spelling.New([]string{"Straße", "ΣΟΦΙΑ"})

	assert.True(t, d.Known("STRASSE"))
	assert.True(t, d.Known("straße"))
	assert.True(t, d.Known("σοφια"))
}

func TestDictionary_Unknown(t *testing.T) {
	d := spelling.New([]string{"this", "is"})
	assert.Equal(t, []string{"sentnence", "splet"}, d.Unknown("This", "sentnence", "is", "splet", "!"))
	assert.Empty(t, d.Unknown("this"))
}

func TestLoad(t *testing.T) {
	content := "# custom words\nkubernetes 1200\n\nGrafana\tcount\n"
	d, err := spelling.Load(strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, 2, d.Len())
	assert.True(t, d.Known("Kubernetes"))
	assert.True(t, d.Known("grafana"))
	assert.False(t, d.Known("1200x"))
	assert.True(t, d.Contains("GRAFANA"))
	assert.False(t, d.Contains("42"))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("alpha\nbeta\n"), 0o644))

	d, err := spelling.LoadFile(path)
	require.NoError(t, err)
	assert.True(t, d.Known("beta"))

	_, err = spelling.LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
