// Package log provides secure logging built on the standard slog package.
//
// The SecureHandler masks credentials before a record reaches the
// underlying handler:
//   - attributes named like credentials (key, api_key, token, authorization)
//   - values that look like credentials (Google API keys, JWTs, bearer tokens)
//   - credential query parameters inside URLs and error messages, e.g.
//     "...:generateContent?key=AIza..." becomes "...?key=***REDACTED***"
//
// Even in verbose mode the API key never appears in log output.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Warn("request failed", "url", requestURL, "error", err)
//	slog.SetDefault(logger)
package log
