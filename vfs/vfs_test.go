package vfs

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
)

func writeZip(t *testing.T, path string, files map[string][]byte) {
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, data := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestCollectFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cards.bc")
	if err := os.WriteFile(path, []byte("PTEX data"), 0644); err != nil {
		t.Fatal(err)
	}

	inputs, err := Collect(path, []string{"assets/DATA001.BIN"})
	if err != nil {
		t.Fatal(err)
	}
	if len(inputs) != 1 || inputs[0].Name() != path || inputs[0].Dir() != dir || inputs[0].Size() != 9 {
		t.Fatalf("Collect(file)=%v", inputs)
	}
	data, err := inputs[0].Read()
	if err != nil || string(data) != "PTEX data" {
		t.Errorf("Read()=%q,%v", data, err)
	}
}

func TestCollectApk(t *testing.T) {
	dir := t.TempDir()
	apk := filepath.Join(dir, "game.apk")
	payload := bytes.Repeat([]byte("TEX"), 100)
	writeZip(t, apk, map[string][]byte{
		"assets/DATA001.BIN": payload,
		"classes.dex":        []byte("dex"),
	})

	inputs, err := Collect(apk, []string{"assets/DATA001.BIN", "assets/DATA002.BIN"})
	if err != nil {
		t.Fatal(err)
	}
	if len(inputs) != 1 {
		t.Fatalf("len(inputs)=%d; expected 1", len(inputs))
	}
	in := inputs[0]
	if in.Name() != apk+"!assets/DATA001.BIN" || in.Dir() != dir || in.Size() != int64(len(payload)) {
		t.Errorf("input=%s %s %d", in.Name(), in.Dir(), in.Size())
	}
	data, err := in.Read()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("member data differs")
	}

	if _, err := Collect(apk, []string{"nothing/here"}); err == nil {
		t.Errorf("Collect(apk without member) err=nil")
	}
}

func TestCollectDirectory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{filepath.Join(dir, "b.bc"), filepath.Join(sub, "a.bc"), filepath.Join(dir, "empty")} {
		if err := os.WriteFile(p, nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	writeZip(t, filepath.Join(dir, "broken.apk"), map[string][]byte{"other": nil})

	inputs, err := Collect(dir, []string{"assets/DATA001.BIN"})
	if err != nil {
		t.Fatal(err)
	}
	expected := []string{filepath.Join(dir, "b.bc"), filepath.Join(dir, "empty"), filepath.Join(sub, "a.bc")}
	if len(inputs) != len(expected) {
		t.Fatalf("inputs=%v; expected %v", inputs, expected)
	}
	for i, in := range inputs {
		if in.Name() != expected[i] {
			t.Errorf("input %d=%q; expected %q", i, in.Name(), expected[i])
		}
	}
}

func TestCollectMissing(t *testing.T) {
	if _, err := Collect(filepath.Join(t.TempDir(), "nope"), nil); err == nil {
		t.Errorf("Collect(missing) err=nil")
	}
}
