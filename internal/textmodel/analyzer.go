package textmodel

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultTokenPattern is the token pattern used by scikit-learn vectorizers:
// runs of two or more word characters.
const DefaultTokenPattern = `(?u)\b\w\w+\b`

// Accent stripping modes.
const (
	StripAccentsNone    = ""
	StripAccentsUnicode = "unicode"
	StripAccentsASCII   = "ascii"
)

// analyzer turns raw text into the list of terms counted by the vectorizer.
// It is immutable after construction.
type analyzer struct {
	lowercase    bool
	stripAccents string
	pattern      *regexp.Regexp // nil means the Unicode word scanner
	minTokenLen  int            // shortest token kept by the word scanner
	stopWords    map[string]struct{}
	minN, maxN   int
}

// newAnalyzer validates the preprocessing settings and builds an analyzer.
func newAnalyzer(spec VectorizerSpec) (*analyzer, error) {
	a := &analyzer{
		lowercase:    spec.Lowercase,
		stripAccents: spec.StripAccents,
		minTokenLen:  2,
		minN:         spec.NgramRange[0],
		maxN:         spec.NgramRange[1],
	}

	switch a.stripAccents {
	case StripAccentsNone, StripAccentsUnicode, StripAccentsASCII:
	default:
		return nil, fmt.Errorf("%w: unsupported strip_accents %q", ErrInvalidArtifact, spec.StripAccents)
	}

	if a.minN < 1 || a.maxN < a.minN {
		return nil, fmt.Errorf("%w: invalid ngram_range [%d, %d]", ErrInvalidArtifact, a.minN, a.maxN)
	}

	if spec.TokenPattern != "" && spec.TokenPattern != DefaultTokenPattern {
		if n, ok := wordRunLength(spec.TokenPattern); ok {
			a.minTokenLen = n
		} else {
			re, err := compileTokenPattern(spec.TokenPattern)
			if err != nil {
				return nil, fmt.Errorf("%w: token_pattern %q: %w", ErrInvalidArtifact, spec.TokenPattern, err)
			}
			a.pattern = re
		}
	}

	if len(spec.StopWords) > 0 {
		a.stopWords = make(map[string]struct{}, len(spec.StopWords))
		for _, w := range spec.StopWords {
			a.stopWords[w] = struct{}{}
		}
	}

	return a, nil
}

// analyze runs preprocessing, tokenization, stop-word removal and n-gram
// generation.
func (a *analyzer) analyze(text string) []string {
	tokens := a.tokenize(a.preprocess(text))

	if a.stopWords != nil {
		kept := tokens[:0]
		for _, tok := range tokens {
			if _, stop := a.stopWords[tok]; !stop {
				kept = append(kept, tok)
			}
		}
		tokens = kept
	}

	return ngrams(tokens, a.minN, a.maxN)
}

// preprocess lowercases and strips accents, in that order.
// Casers and transformers are stateful, so fresh ones are built per call.
func (a *analyzer) preprocess(text string) string {
	if a.lowercase {
		text = cases.Lower(language.Und).String(text)
	}

	switch a.stripAccents {
	case StripAccentsUnicode:
		t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
		if out, _, err := transform.String(t, text); err == nil {
			text = out
		}
	case StripAccentsASCII:
		t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
			return r > unicode.MaxASCII
		})))
		if out, _, err := transform.String(t, text); err == nil {
			text = out
		}
	}

	return text
}

// tokenize splits preprocessed text into tokens.
func (a *analyzer) tokenize(text string) []string {
	if a.pattern != nil {
		return a.pattern.FindAllString(text, -1)
	}
	return wordTokens(text, a.minTokenLen)
}

// wordRunQuantifier matches the body of a \b\w{N,}\b pattern.
var wordRunQuantifier = regexp.MustCompile(`^\\w\{([1-9][0-9]*),\}$`)

// wordRunLength reports whether pattern selects whole runs of word characters
// of some minimum length, such as (?u)\b\w\w+\b or \b\w{3,}\b, and returns
// that length. Such patterns are served by the Unicode word scanner.
func wordRunLength(pattern string) (int, bool) {
	p := strings.TrimPrefix(pattern, "(?u)")
	if len(p) < 4 || !strings.HasPrefix(p, `\b`) || !strings.HasSuffix(p, `\b`) {
		return 0, false
	}
	inner := p[2 : len(p)-2]

	if m := wordRunQuantifier.FindStringSubmatch(inner); m != nil {
		n, err := strconv.Atoi(m[1])
		return n, err == nil
	}

	body, ok := strings.CutSuffix(inner, "+")
	if !ok || body == "" || len(body)%2 != 0 {
		return 0, false
	}
	n := len(body) / 2
	if body != strings.Repeat(`\w`, n) {
		return 0, false
	}
	return n, true
}

// compileTokenPattern compiles a Python-style token pattern with RE2.
// RE2 classes are ASCII-only, so \w, \W, \d and \D are rewritten to their
// Unicode equivalents. Word boundaries have no Unicode form in RE2 and are
// rejected.
func compileTokenPattern(pattern string) (*regexp.Regexp, error) {
	p := strings.TrimPrefix(pattern, "(?u)")

	var b strings.Builder
	inClass := false
	for i := 0; i < len(p); i++ {
		c := p[i]
		switch {
		case c == '\\' && i+1 < len(p):
			i++
			switch esc := p[i]; esc {
			case 'w':
				if inClass {
					b.WriteString(`\p{L}\p{N}_`)
				} else {
					b.WriteString(`[\p{L}\p{N}_]`)
				}
			case 'W':
				if inClass {
					return nil, errors.New(`\W inside a character class is not supported`)
				}
				b.WriteString(`[^\p{L}\p{N}_]`)
			case 'd':
				b.WriteString(`\p{Nd}`)
			case 'D':
				b.WriteString(`\P{Nd}`)
			case 'b', 'B':
				return nil, fmt.Errorf(`\%c is ASCII-only in Go regular expressions`, esc)
			default:
				b.WriteByte('\\')
				b.WriteByte(esc)
			}
		case c == '[' && !inClass:
			inClass = true
			b.WriteByte(c)
			if i+1 < len(p) && p[i+1] == '^' {
				i++
				b.WriteByte('^')
			}
			if i+1 < len(p) && p[i+1] == ']' {
				i++
				b.WriteByte(']')
			}
		case c == ']' && inClass:
			inClass = false
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}

	return regexp.Compile(b.String())
}

// wordTokens returns the runs of Unicode letters, digits and underscores that
// are at least minLen runes long. With minLen 2 it is the Unicode-aware
// equivalent of DefaultTokenPattern.
func wordTokens(text string, minLen int) []string {
	var (
		tokens []string
		start  = -1
		length int
	)

	flush := func(end int) {
		if start >= 0 && length >= minLen {
			tokens = append(tokens, text[start:end])
		}
		start = -1
		length = 0
	}

	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			length++
			continue
		}
		flush(i)
	}
	flush(len(text))

	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// ngrams returns all word n-grams with minN <= n <= maxN, joined by a space.
func ngrams(tokens []string, minN, maxN int) []string {
	if minN == 1 && maxN == 1 {
		return tokens
	}

	var out []string
	for n := minN; n <= maxN; n++ {
		if n == 1 {
			out = append(out, tokens...)
			continue
		}
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}
