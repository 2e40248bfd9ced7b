package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/mogaika/pad_texture_tool/readat"
	"github.com/mogaika/pad_texture_tool/tex"
	"github.com/mogaika/pad_texture_tool/tex/lz"
)

// dumpPayloads writes decompressed payload of every record as "<index>_<name>_<format>.bin".
// Returns count of written files, broken records are logged.
func dumpPayloads(buf []byte, outDir string) (int, error) {
	data, err := tex.Unwrap(buf)
	if err != nil {
		return 0, err
	}
	table, err := tex.Scan(data)
	if err != nil {
		return 0, err
	}
	for _, p := range table.Problems {
		log.Printf("%v", p)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return 0, errors.Wrapf(err, "Cannot create out dir")
	}

	r := readat.NewReader(data)
	written := 0
	for i := range table.Records {
		h := &table.Records[i]
		raw, err := r.Slice(int(h.ByteOffset), int(h.StoredLength))
		if err == nil {
			raw, err = lz.Decompress(raw, int(h.DecompressedLength), h.Compressed)
		}
		if err != nil {
			log.Printf("%v: %v", h, err)
			continue
		}

		name := fmt.Sprintf("%.4d_%s_%v.bin", h.Index, filepath.Base(h.Name), h.Format)
		if err := os.WriteFile(filepath.Join(outDir, name), raw, 0644); err != nil {
			return written, errors.Wrapf(err, "Cannot write %q", name)
		}
		written++
	}
	return written, nil
}

func main() {
	var outDir string
	pflag.StringVarP(&outDir, "outdir", "o", "payloads", "Output directory")
	pflag.Parse()

	if pflag.NArg() != 1 {
		pflag.PrintDefaults()
		os.Exit(1)
	}

	buf, err := os.ReadFile(pflag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	n, err := dumpPayloads(buf, outDir)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("%d payloads written to %s", n, outDir)
}
