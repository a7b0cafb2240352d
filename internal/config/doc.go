// Package config provides configuration structures and utilities for
// newsverdict: the generative endpoint settings, model artifact locations,
// and report preferences.
package config
