package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

var (
	// ErrInvalidURL is returned for URLs that are not absolute http(s) URLs.
	ErrInvalidURL = errors.New("invalid article URL: must be an absolute http or https URL")

	// ErrUnexpectedStatus is returned when the page does not answer 200.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrNotHTML is returned when the page is not an HTML document.
	ErrNotHTML = errors.New("page is not HTML")

	// ErrTooLarge is returned when the page exceeds the maximum body size.
	ErrTooLarge = errors.New("page exceeds the maximum body size")

	// ErrNoArticle is returned when no article text could be extracted.
	ErrNoArticle = errors.New("no article text found")
)

// Article is the main content of a web page.
type Article struct {
	// URL is the requested page URL.
	URL string

	// Title is the article headline.
	Title string

	// Byline is the author line, if any.
	Byline string

	// SiteName is the publisher name, if any.
	SiteName string

	// Text is the plain article text.
	Text string
}

// Reader fetches pages and extracts their article.
type Reader struct {
	// client performs the requests.
	client *http.Client

	// userAgent is the User-Agent header to use.
	userAgent string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) ReaderOption {
	return func(r *Reader) {
		r.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) ReaderOption {
	return func(r *Reader) {
		r.maxBodySize = size
	}
}

// NewReader creates a Reader that uses client for requests.
func NewReader(client *http.Client, opts ...ReaderOption) *Reader {
	r := &Reader{
		client:      client,
		userAgent:   "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0",
		maxBodySize: 10 * 1024 * 1024, // 10MB
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.client == nil {
		r.client = http.DefaultClient
	}
	return r
}

// Read downloads pageURL and returns its main article.
func (r *Reader) Read(ctx context.Context, pageURL string) (*Article, error) {
	u, err := url.Parse(pageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return nil, fmt.Errorf("%w: %s", ErrNotHTML, ct)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read article: %w", err)
	}
	if int64(len(data)) > r.maxBodySize {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, r.maxBodySize)
	}

	parsed, err := readability.FromReader(bytes.NewReader(data), u)
	if err != nil {
		return nil, fmt.Errorf("failed to extract article: %w", err)
	}

	article := &Article{
		URL:      pageURL,
		Title:    strings.TrimSpace(parsed.Title),
		Byline:   strings.TrimSpace(parsed.Byline),
		SiteName: strings.TrimSpace(parsed.SiteName),
		Text:     strings.TrimSpace(parsed.TextContent),
	}
	if article.Text == "" {
		return nil, ErrNoArticle
	}
	return article, nil
}
