// Package moderation masks censored words in outgoing text before it
// leaves the client. The room service sanitizes server-side as well;
// this filter only keeps the local participant from sending them at all.
package moderation

import (
	"chat-client/errors"
	"unicode"

	"github.com/abadojack/whatlanggo"
	goahocorasick "github.com/anknown/ahocorasick"
)

// Filter matches censored words with an Aho-Corasick automaton over a
// case- and separator-folded view of the text, so "b a.d" still matches
// the pattern "bad".
type Filter struct {
	machine     *goahocorasick.Machine
	replacement rune
	languages   map[whatlanggo.Lang]struct{}
}

// NewFilter builds the automaton from the censored word list. When one or
// more languages are given, text detected as any other language passes
// through untouched to avoid false positives on foreign scripts.
func NewFilter(words []string, replacement rune, languages ...whatlanggo.Lang) (*Filter, error) {
	if len(words) == 0 {
		return nil, errors.ErrEmptyWords
	}

	patterns := make([][]rune, 0, len(words))
	for _, word := range words {
		folded, _ := fold(word)
		if len(folded) == 0 {
			continue
		}
		patterns = append(patterns, folded)
	}
	if len(patterns) == 0 {
		return nil, errors.ErrEmptyWords
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}

	langs := make(map[whatlanggo.Lang]struct{}, len(languages))
	for _, lang := range languages {
		langs[lang] = struct{}{}
	}
	return &Filter{machine: machine, replacement: replacement, languages: langs}, nil
}

// Apply masks every censored word occurrence and reports whether any
// masking happened. Spacing and untouched characters are preserved.
func (f *Filter) Apply(text string) (string, bool) {
	if len(f.languages) > 0 {
		detected := whatlanggo.Detect(text)
		if _, supported := f.languages[detected.Lang]; !supported {
			return text, false
		}
	}

	folded, origIdx := fold(text)
	if len(folded) == 0 {
		return text, false
	}

	spans := f.machine.MultiPatternSearch(folded, false)
	if len(spans) == 0 {
		return text, false
	}

	runes := []rune(text)
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		for i := origIdx[start]; i <= origIdx[end-1]; i++ {
			runes[i] = f.replacement
		}
	}
	return string(runes), true
}

// fold lowercases the input and drops separators, keeping for each kept
// rune its index in the original text so matches map back onto it.
func fold(text string) ([]rune, []int) {
	original := []rune(text)
	folded := make([]rune, 0, len(original))
	origIdx := make([]int, 0, len(original))

	for i, r := range original {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			continue
		}
		folded = append(folded, unicode.ToLower(r))
		origIdx = append(origIdx, i)
	}
	return folded, origIdx
}
