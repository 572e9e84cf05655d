package tests

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func Check(tb testing.TB, err error) {
	if err == nil {
		return
	}

	tb.Helper()
	tb.Fatalf("fatal error:\n\n%s\n", err)
}

func Checkf(tb testing.TB, err error, format string, args ...any) {
	if err == nil {
		return
	}

	tb.Helper()
	tb.Fatalf("fatal error:\n\n%s: %s\n", fmt.Sprintf(format, args...), err)
}

// RomsPath returns the path to the nes-test-roms directory (from
// https://github.com/christopherpow/nes-test-roms), located next to this
// package or pointed to by NES_TEST_ROMS. The test is skipped if the
// directory is missing.
func RomsPath(tb testing.TB) string {
	tb.Helper()

	dir := os.Getenv("NES_TEST_ROMS")
	if dir == "" {
		_, b, _, _ := runtime.Caller(0)
		dir = filepath.Join(filepath.Dir(b), "nes-test-roms")
	}
	if _, err := os.Stat(dir); err != nil {
		tb.Skipf("nes-test-roms not available: %v", err)
	}
	return dir
}
