// Package crawler fetches news web pages and extracts their main article.
//
// The Reader downloads one page and reduces it to the article text with
// go-readability, dropping navigation, footers, scripts and ads. The
// classifier was trained on article text, so feeding it a whole page would
// skew the verdict.
//
// Design decision: We require an external http.Client because:
//  1. Timeouts are owned by the command configuration
//  2. Allows for different configurations in tests
//
// # Usage
//
//	reader := crawler.NewReader(&http.Client{Timeout: 30 * time.Second})
//	article, err := reader.Read(ctx, "https://example.com/news/story")
package crawler
