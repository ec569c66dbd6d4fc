package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDumpPlainFilePassesThrough(t *testing.T) {
	dir := t.TempDir()
	path := writeDump(t, dir, "db.sql.gz", time.Now())

	got, err := Dump(dir, "db.sql.gz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != path {
		t.Fatalf("got %q, want %q", got, path)
	}
}

func TestDumpMissingFilePassesThrough(t *testing.T) {
	dir := t.TempDir()

	got, err := Dump(dir, "absent.sql.gz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != filepath.Join(dir, "absent.sql.gz") {
		t.Fatalf("got %q", got)
	}
}

func TestDumpAbsolutePathIgnoresRoot(t *testing.T) {
	dir := t.TempDir()
	path := writeDump(t, dir, "db.sql.gz", time.Now())

	got, err := Dump("/some/other/root", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != path {
		t.Fatalf("got %q, want %q", got, path)
	}
}

func TestDumpDirectoryPicksNewest(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	writeDump(t, dir, "old.sql.gz", base)
	want := writeDump(t, dir, "new.sql.gz", base.Add(30*time.Minute))
	writeDump(t, dir, "notes.txt", base.Add(45*time.Minute))

	got, err := Dump(dir, ".")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDumpDirectoryModTimeTieBreaksOnName(t *testing.T) {
	dir := t.TempDir()
	stamp := time.Now().Add(-time.Hour)
	writeDump(t, dir, "site-20240101.sql.gz", stamp)
	want := writeDump(t, dir, "site-20240102.sql.gz", stamp)

	got, err := Dump(dir, ".")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDumpGlobPattern(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	writeDump(t, dir, "site-a.sql.gz", base)
	want := writeDump(t, dir, "site-b.sql.gz", base.Add(time.Minute))
	writeDump(t, dir, "unrelated.gz", base.Add(time.Hour))

	got, err := Dump(dir, "site-*.sql.gz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDumpEmptyDirectory(t *testing.T) {
	dir := t.TempDir()

	_, err := Dump(dir, ".")
	if !errors.Is(err, ErrNoDump) {
		t.Fatalf("expected ErrNoDump, got %v", err)
	}
}

func TestDumpGlobWithoutMatches(t *testing.T) {
	dir := t.TempDir()

	_, err := Dump(dir, "*.sql.gz")
	if !errors.Is(err, ErrNoDump) {
		t.Fatalf("expected ErrNoDump, got %v", err)
	}
}

func TestDumpEmptyInput(t *testing.T) {
	if _, err := Dump(t.TempDir(), ""); !errors.Is(err, ErrNoDump) {
		t.Fatalf("expected ErrNoDump, got %v", err)
	}
}

func writeDump(t *testing.T, dir, name string, mod time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("dump"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("chtimes %s: %v", name, err)
	}
	return path
}
