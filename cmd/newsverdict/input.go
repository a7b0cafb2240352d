package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/nao1215/newsverdict/internal/crawler"
	"github.com/nao1215/newsverdict/internal/textmodel"
)

// maxInputBytes bounds text read from files, stdin and web pages.
const maxInputBytes = 4 << 20

var (
	// errNoInput is returned when classify gets no text source at all.
	errNoInput = errors.New("no input provided (pass text as arguments, --file or --url)")

	// errInputTooLarge is returned when the input exceeds maxInputBytes.
	errInputTooLarge = fmt.Errorf("input too large: the limit is %d bytes", maxInputBytes)

	// errConflictingInputs is returned when more than one text source is given.
	errConflictingInputs = errors.New("conflicting inputs: use only one of text arguments, --file and --url")
)

// textSource describes where classify reads its text from.
type textSource struct {
	args []string
	file string
	html bool
	url  string
}

// read returns the text to classify. Markup is removed from HTML files and
// web pages; web pages are also reduced to their main article.
func (s textSource) read(ctx context.Context, stdin io.Reader, client *http.Client) (string, error) {
	given := 0
	for _, set := range []bool{len(s.args) > 0, s.file != "", s.url != ""} {
		if set {
			given++
		}
	}
	switch {
	case given == 0:
		return "", errNoInput
	case given > 1:
		return "", errConflictingInputs
	}

	switch {
	case s.url != "":
		return fetchArticle(ctx, client, s.url)
	case s.file != "":
		return readFile(s.file, s.html, stdin)
	default:
		return strings.Join(s.args, " "), nil
	}
}

// readFile reads path ("-" for stdin), extracting visible text when isHTML.
func readFile(path string, isHTML bool, stdin io.Reader) (string, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path) //nolint:gosec // User-provided input path is intentional
		if err != nil {
			return "", fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(io.LimitReader(r, maxInputBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if len(data) > maxInputBytes {
		return "", errInputTooLarge
	}

	if isHTML {
		return textmodel.PlainText(bytes.NewReader(data))
	}
	return string(data), nil
}

// fetchArticle downloads a web page and returns the text of its main
// article.
func fetchArticle(ctx context.Context, client *http.Client, rawURL string) (string, error) {
	reader := crawler.NewReader(client,
		crawler.WithUserAgent("newsverdict/"+getVersion()),
		crawler.WithMaxBodySize(maxInputBytes),
	)
	article, err := reader.Read(ctx, rawURL)
	if errors.Is(err, crawler.ErrTooLarge) {
		return "", fmt.Errorf("%w: %w", errInputTooLarge, err)
	}
	if err != nil {
		return "", err
	}
	return article.Text, nil
}
