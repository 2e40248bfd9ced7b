package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mogaika/pad_texture_tool/tex/pixel"
	"github.com/mogaika/pad_texture_tool/tex/textest"
)

func TestDumpPayloads(t *testing.T) {
	payload := bytes.Repeat([]byte{1, 2, 3, 4}, 16)
	buf := textest.Table(
		textest.Record{Name: "MONS_1.PNG", Format: pixel.RGBA8888, Width: 4, Height: 4, Data: payload, Compress: true},
		textest.Record{Name: "BROKEN", Format: pixel.L8, Width: 4, Height: 4, Data: make([]byte, 16),
			Compress: true, Stored: []byte{0x10}},
	)
	dir := filepath.Join(t.TempDir(), "dump")

	n, err := dumpPayloads(buf, dir)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("dumpPayloads=%d; expected 1", n)
	}
	got, err := os.ReadFile(filepath.Join(dir, "0000_MONS_1.PNG_RGBA8888.bin"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("dumped payload differs")
	}
}
