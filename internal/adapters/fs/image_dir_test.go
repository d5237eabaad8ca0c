package fs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mansidodiya01/babymonitorwithlora/internal/domain"
)

func TestImageDir_PutReadExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "received_images")
	d := NewImageDir(dir)

	if d.Exists("foo.jpg") {
		t.Fatal("foo.jpg should not exist yet")
	}
	data := []byte{0xff, 0xd8, 0xff, 0xe0}
	if err := d.Put("foo.jpg", data); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !d.Exists("foo.jpg") {
		t.Fatal("foo.jpg should exist")
	}
	got, err := d.Read("foo.jpg")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("Read = %x, want %x", got, data)
	}
	if _, err := os.Stat(filepath.Join(dir, "foo.jpg.tmp")); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

func TestImageDir_RejectsEscapingNames(t *testing.T) {
	d := NewImageDir(t.TempDir())
	for _, name := range []string{"", "..", "../x.jpg", "a/b.jpg", `a\b.jpg`} {
		if err := d.Put(name, []byte("x")); !errors.Is(err, domain.ErrInvalidImageName) {
			t.Errorf("Put(%q) error = %v, want ErrInvalidImageName", name, err)
		}
		if d.Exists(name) {
			t.Errorf("Exists(%q) = true", name)
		}
	}
}

func TestImageDir_AcceptsDoubleDotInsideName(t *testing.T) {
	d := NewImageDir(t.TempDir())
	if err := d.Put("baby..jpg", []byte("x")); err != nil {
		t.Fatalf("Put(baby..jpg) = %v", err)
	}
	if !d.Exists("baby..jpg") {
		t.Error("baby..jpg should exist")
	}
}

func TestImageDir_FailedRenameRemovesTempFile(t *testing.T) {
	root := t.TempDir()
	// a non-empty directory in the way makes the rename fail
	if err := os.MkdirAll(filepath.Join(root, "x.jpg", "inner"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := NewImageDir(root).Put("x.jpg", []byte("data")); err == nil {
		t.Fatal("Put over a directory should fail")
	}
	if _, err := os.Stat(filepath.Join(root, "x.jpg.tmp")); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestImageDir_DirectoryIsNotAnImage(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "sub.jpg"), 0o755); err != nil {
		t.Fatal(err)
	}
	if NewImageDir(root).Exists("sub.jpg") {
		t.Error("directory reported as image")
	}
}

func TestRowFile_AppendVerbatim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "received_data.csv")
	r := NewRowFile(path)
	for _, row := range []string{"A,B,C,none", "A,B,C,none", "x"} {
		if err := r.Append(row); err != nil {
			t.Fatal(err)
		}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "A,B,C,none\nA,B,C,none\nx\n" {
		t.Errorf("received ledger = %q", string(b))
	}
}
