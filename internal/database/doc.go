// Package database provides SQLite-based storage for model bundles.
//
// A bundle is a single SQLite file that packs the fitted vectorizer and
// classifier artifacts together. Each payload is stored with its BLAKE2b-256
// checksum, which is verified on every read, so a bundle is either loaded
// completely and intact or not at all.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of a
// plain archive format because:
// 1. No external dependencies - the bundle is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Artifacts can be replaced one at a time with an atomic upsert
// 4. Metadata (checksum, size, stored time) can be listed without reading payloads
package database
