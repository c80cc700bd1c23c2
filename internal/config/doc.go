// Package config loads and live-reloads toolkit settings.
//
// Settings come from a TOML file; a missing file yields the defaults. A
// Watcher built on fsnotify reloads the file on change, debouncing rapid
// writes, and hands the parsed Settings to a callback. Invalid content is
// reported through the error callback and the previous settings stay in
// effect.
package config
