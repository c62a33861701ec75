package sink

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFile_Store(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(filepath.Join(dir, "public"))
	if err != nil {
		t.Fatalf("NewFile() error: %v", err)
	}

	ctx := context.Background()
	if err := f.Store(ctx, "calendar.ics", []byte("first")); err != nil {
		t.Fatalf("Store() error: %v", err)
	}
	if err := f.Store(ctx, "calendar.ics", []byte("second")); err != nil {
		t.Fatalf("Store() overwrite error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "public", "calendar.ics"))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("stored data = %q, want second", data)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "public"))
	if err != nil {
		t.Fatalf("ReadDir() error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (temp files left behind?)", len(entries))
	}
}

func TestFile_StoreNestedKey(t *testing.T) {
	f, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("NewFile() error: %v", err)
	}
	if err := f.Store(context.Background(), "jleague/kobe.ics", []byte("x")); err != nil {
		t.Fatalf("Store() error: %v", err)
	}
	path, _ := f.Path("jleague/kobe.ics")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("nested file not written: %v", err)
	}
}

func TestFile_InvalidKey(t *testing.T) {
	f, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("NewFile() error: %v", err)
	}

	for _, key := range []string{"", ".", "..", "../escape.ics", "/etc/passwd"} {
		t.Run(key, func(t *testing.T) {
			if err := f.Store(context.Background(), key, []byte("x")); !errors.Is(err, ErrInvalidKey) {
				t.Errorf("Store(%q) error = %v, want ErrInvalidKey", key, err)
			}
		})
	}
}

func TestWriter_Store(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	if err := w.Store(context.Background(), "calendar.ics", []byte("BEGIN:VCALENDAR\r\n")); err != nil {
		t.Fatalf("Store() error: %v", err)
	}
	if buf.String() != "BEGIN:VCALENDAR\r\n" {
		t.Errorf("written = %q", buf.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Store(ctx, "calendar.ics", []byte("more")); err == nil {
		t.Error("Store() with canceled context expected an error")
	}
}
