package common

import "log/slog"

// SlogResetLevel temporarily raises the default slog logger's level and
// returns a func that restores it, pairing with defer so a test that
// exercises a noisy code path (e.g. collection's per-load-batch commit
// log line) doesn't spam its own output. Use like:
//
//	func TestSomething(t *testing.T) {
//	    defer common.SlogResetLevel(slog.Level(slog.LevelWarn + 1))()
func SlogResetLevel(level slog.Level) (reset func()) {
	oldLevel := slog.SetLogLoggerLevel(level)
	return func() {
		slog.SetLogLoggerLevel(oldLevel)
	}
}
