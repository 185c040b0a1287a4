// Package spelling answers whether a piece of text is a known word.
//
// A Dictionary treats each value as a single word. Lookups fold case unless
// the dictionary is case sensitive; lone punctuation characters and numbers
// are always known.
package spelling

import (
	"bufio"
	"bytes"
	_ "embed"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
	"go.trai.ch/zerr"
	"golang.org/x/text/cases"
)

// Checker reports whether text contains no unknown words.
//
//go:generate go run go.uber.org/mock/mockgen -source=spelling.go -destination=mocks/mock_checker.go -package=mocks
type Checker interface {
	Known(text string) bool
}

// punctuation is the set of characters that are known on their own
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// defaultWords is about 40k English words, most frequent first
//
//go:embed words.txt.gz
var defaultWords []byte

// Dictionary is an in-memory word list
type Dictionary struct {
	words         map[string]struct{}
	caseSensitive bool
	longest       int
}

// Option configures a Dictionary
type Option func(*Dictionary)

// CaseSensitive disables case folding for both the word list and lookups
func CaseSensitive() Option {
	return func(d *Dictionary) {
		d.caseSensitive = true
	}
}

// New builds a dictionary from words
func New(words []string, opts ...Option) *Dictionary {
	d := &Dictionary{words: make(map[string]struct{}, len(words))}
	for _, opt := range opts {
		opt(d)
	}
	for _, w := range words {
		d.add(w)
	}
	return d
}

// Default returns the embedded English word list
func Default(opts ...Option) *Dictionary {
	zr, err := gzip.NewReader(bytes.NewReader(defaultWords))
	if err != nil {
		panic(zerr.Wrap(err, "embedded word list is corrupt"))
	}
	defer zr.Close()

	d, err := Load(zr, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// Load reads one word per line. A second whitespace-separated column, such as
// a frequency count, is ignored. Blank lines and lines starting with # are
// skipped.
func Load(r io.Reader, opts ...Option) (*Dictionary, error) {
	d := New(nil, opts...)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		d.add(strings.Fields(line)[0])
	}
	if err := sc.Err(); err != nil {
		return nil, zerr.Wrap(err, "failed to read word list")
	}
	return d, nil
}

// LoadFile reads a word list from path
func LoadFile(path string, opts ...Option) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open word list"), "path", path)
	}
	defer f.Close()

	d, err := Load(f, opts...)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return d, nil
}

func (d *Dictionary) add(word string) {
	w := d.normalize(word)
	if w == "" {
		return
	}
	d.words[w] = struct{}{}
	d.longest = max(d.longest, utf8.RuneCountInString(w))
}

func (d *Dictionary) normalize(s string) string {
	if d.caseSensitive {
		return s
	}
	return cases.Fold().String(s)
}

// Len returns the number of distinct words
func (d *Dictionary) Len() int {
	return len(d.words)
}

// Contains reports whether word is in the list, without the punctuation and
// number exemptions of Known
func (d *Dictionary) Contains(word string) bool {
	_, ok := d.words[d.normalize(word)]
	return ok
}

// Known reports whether text, taken as one word, is spelt correctly
func (d *Dictionary) Known(text string) bool {
	return len(d.Unknown(text)) == 0
}

// Unknown returns the words that are neither in the list nor exempt
func (d *Dictionary) Unknown(words ...string) []string {
	var unknown []string
	for _, w := range words {
		n := d.normalize(w)
		if _, ok := d.words[n]; ok {
			continue
		}
		if !d.shouldCheck(n) {
			continue
		}
		unknown = append(unknown, n)
	}
	return unknown
}

// shouldCheck reports false for words that are exempt from the lookup
func (d *Dictionary) shouldCheck(word string) bool {
	if len(word) == 1 && strings.Contains(punctuation, word) {
		return false
	}
	if utf8.RuneCountInString(word) > d.longest+3 {
		return true
	}
	if strings.EqualFold(word, "nan") {
		return true
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(word), 64); err == nil {
		return false
	}
	return true
}
