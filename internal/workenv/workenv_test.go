package workenv

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/storynode/player/pkg/snpk/archive"
)

func testLogger(t *testing.T) hclog.Logger {
	t.Helper()
	return hclog.New(&hclog.LoggerOptions{
		Name:  t.Name(),
		Level: hclog.Trace,
	})
}

func buildZip(t *testing.T, files map[string]string, order ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := io.WriteString(w, files[name]); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func newTestWorkenv(t *testing.T) *Workenv {
	t.Helper()
	return New(Options{Dir: filepath.Join(t.TempDir(), "storynode_game")}, testLogger(t))
}

func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	tree := map[string]string{}
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		if info.IsDir() {
			tree[filepath.ToSlash(rel)+"/"] = ""
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		tree[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
	return tree
}

func TestNewDefaults(t *testing.T) {
	w := New(Options{}, nil)
	if w.Path() != DefaultPath() {
		t.Errorf("path: got %s, want %s", w.Path(), DefaultPath())
	}
	if filepath.Base(w.Path()) != DefaultDirName {
		t.Errorf("dir name: got %s", filepath.Base(w.Path()))
	}
	if w.LockPath() != w.Path()+LockSuffix {
		t.Errorf("lock path: got %s", w.LockPath())
	}
	if w.lockTimeout != DefaultLockTimeout || w.multiplier != DefaultDiskSpaceMultiplier {
		t.Errorf("defaults not applied: timeout=%s multiplier=%d", w.lockTimeout, w.multiplier)
	}
}

func TestExtract(t *testing.T) {
	w := newTestWorkenv(t)
	files := map[string]string{
		"project.json":       `{"name":"Demo"}`,
		"assets/":            "",
		"assets/img/bg.png":  "png",
		"stages/a/scene.txt": "hello",
	}
	data := buildZip(t, files, "project.json", "assets/", "assets/img/bg.png", "stages/a/scene.txt")

	dir, err := w.Extract(data)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if dir != w.Path() {
		t.Errorf("dir: got %s, want %s", dir, w.Path())
	}
	if !w.Exists() {
		t.Error("working directory should exist")
	}

	tree := readTree(t, dir)
	for name, body := range files {
		got, ok := tree[name]
		if !ok {
			t.Errorf("%s missing", name)
			continue
		}
		if got != body {
			t.Errorf("%s: got %q, want %q", name, got, body)
		}
	}
	// parent directories without their own entry are created
	if _, ok := tree["stages/a/"]; !ok {
		t.Error("implicit parent directory stages/a missing")
	}

	if _, err := os.Stat(w.LockPath()); err != nil {
		t.Errorf("lock file should sit next to the working directory: %v", err)
	}
	if _, ok := tree[filepath.Base(w.LockPath())]; ok {
		t.Error("lock file must not be inside the working directory")
	}
}

func TestExtractFilePermissions(t *testing.T) {
	if os.PathSeparator == '\\' {
		t.Skip("permission bits are not meaningful on Windows")
	}
	w := newTestWorkenv(t)
	data := buildZip(t, map[string]string{"a/b.txt": "x"}, "a/b.txt")

	dir, err := w.Extract(data)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, "a", "b.txt"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		t.Errorf("file is accessible to others: %o", perm)
	}
}

func TestExtractReplacesPreviousContents(t *testing.T) {
	w := newTestWorkenv(t)
	first := buildZip(t, map[string]string{"old.txt": "old", "keep.txt": "v1"}, "old.txt", "keep.txt")
	second := buildZip(t, map[string]string{"keep.txt": "v2"}, "keep.txt")

	if _, err := w.Extract(first); err != nil {
		t.Fatalf("first Extract: %v", err)
	}
	if err := os.WriteFile(filepath.Join(w.Path(), "stray.txt"), []byte("stray"), 0o600); err != nil {
		t.Fatalf("write stray: %v", err)
	}

	dir, err := w.Extract(second)
	if err != nil {
		t.Fatalf("second Extract: %v", err)
	}

	tree := readTree(t, dir)
	want := map[string]string{"./": "", "keep.txt": "v2"}
	if len(tree) != len(want) {
		t.Fatalf("tree: got %v, want %v", tree, want)
	}
	for name, body := range want {
		if tree[name] != body {
			t.Errorf("%s: got %q, want %q", name, tree[name], body)
		}
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	w := newTestWorkenv(t)
	data := buildZip(t, map[string]string{"a.txt": "1", "b/c.txt": "2"}, "a.txt", "b/c.txt")

	if _, err := w.Extract(data); err != nil {
		t.Fatalf("first Extract: %v", err)
	}
	before := readTree(t, w.Path())
	if _, err := w.Extract(data); err != nil {
		t.Fatalf("second Extract: %v", err)
	}
	after := readTree(t, w.Path())

	if len(before) != len(after) {
		t.Fatalf("trees differ: %v vs %v", before, after)
	}
	for name, body := range before {
		if after[name] != body {
			t.Errorf("%s changed between extractions", name)
		}
	}
}

func TestExtractErrors(t *testing.T) {
	testCases := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{name: "empty", data: nil, wantErr: archive.ErrUnknownFormat},
		{name: "not an archive", data: []byte("this is not a zip file"), wantErr: archive.ErrUnknownFormat},
		{name: "truncated zip", data: append([]byte("PK\x03\x04"), make([]byte, 40)...)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := newTestWorkenv(t)
			_, err := w.Extract(tc.data)
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestExtractRejectsEscapingEntries(t *testing.T) {
	for _, name := range []string{"../evil.txt", "a/../../evil.txt"} {
		t.Run(name, func(t *testing.T) {
			w := newTestWorkenv(t)
			data := buildZip(t, map[string]string{"ok.txt": "ok", name: "evil"}, "ok.txt", name)

			_, err := w.Extract(data)
			if !errors.Is(err, archive.ErrUnsafePath) {
				t.Fatalf("got %v, want ErrUnsafePath", err)
			}
			if w.Exists() {
				t.Error("partial extraction left in the working directory")
			}
			if _, err := os.Stat(filepath.Join(filepath.Dir(w.Path()), "evil.txt")); !os.IsNotExist(err) {
				t.Error("escaping entry was written outside the working directory")
			}
		})
	}
}

func TestExtractCorruptStreamRemovesPartialTree(t *testing.T) {
	w := newTestWorkenv(t)
	good := buildZip(t, map[string]string{"a.txt": "a"}, "a.txt")
	if _, err := w.Extract(good); err != nil {
		t.Fatalf("first Extract: %v", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{"ok.txt", "broken.txt"} {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			t.Fatal(err)
		}
		io.WriteString(fw, strings.Repeat(name, 200))
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()

	// flip the compressed bytes of the second entry only
	second := bytes.Index(data[4:], []byte("PK\x03\x04")) + 4
	start := second + 30 + len("broken.txt")
	end := bytes.Index(data[start:], []byte("PK\x07\x08"))
	if second < 4 || end < 0 {
		t.Fatal("unexpected zip layout")
	}
	for i := start; i < start+end; i++ {
		data[i] ^= 0xff
	}

	_, err := w.Extract(data)
	if err == nil || !strings.Contains(err.Error(), "broken.txt") {
		t.Fatalf("got %v, want an error naming broken.txt", err)
	}
	if w.Exists() {
		t.Error("working directory should be removed after a failed walk")
	}
}

func TestExtractConcurrent(t *testing.T) {
	w := newTestWorkenv(t)
	data := buildZip(t, map[string]string{"project.json": "{}", "x/y.txt": "y"}, "project.json", "x/y.txt")

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := w.Extract(data)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent Extract: %v", err)
		}
	}
	tree := readTree(t, w.Path())
	if tree["project.json"] != "{}" || tree["x/y.txt"] != "y" {
		t.Errorf("unexpected tree after concurrent extraction: %v", tree)
	}
}

func TestExtractLockTimeout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "storynode_game")
	holder := New(Options{Dir: dir}, testLogger(t))
	waiter := New(Options{Dir: dir, LockTimeout: 250 * time.Millisecond}, testLogger(t))

	release, err := holder.acquire()
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer release()

	data := buildZip(t, map[string]string{"a.txt": "a"}, "a.txt")
	if _, err := waiter.Extract(data); !errors.Is(err, ErrLockTimeout) {
		t.Errorf("got %v, want ErrLockTimeout", err)
	}
}

func TestCheckDiskSpace(t *testing.T) {
	w := newTestWorkenv(t)
	if err := os.MkdirAll(filepath.Dir(w.Path()), DirPerms); err != nil {
		t.Fatal(err)
	}
	if err := w.checkDiskSpace(1); err != nil {
		t.Errorf("one byte should fit: %v", err)
	}
	if _, err := getAvailableDiskSpace(filepath.Dir(w.Path())); err == nil {
		if err := w.checkDiskSpace(1 << 60); err == nil {
			t.Error("expected insufficient disk space error")
		}
	}
}
