// Package extractor runs a container through scanning, decompression,
// pixel decoding and tile assembly.
package extractor

import (
	"context"
	"log"
	"sort"

	"github.com/pkg/errors"

	"github.com/mogaika/pad_texture_tool/readat"
	"github.com/mogaika/pad_texture_tool/tex"
	"github.com/mogaika/pad_texture_tool/tex/atlas"
	"github.com/mogaika/pad_texture_tool/tex/lz"
	"github.com/mogaika/pad_texture_tool/tex/pixel"
)

type Result struct {
	Report *Report
	Table  *tex.Table
	Images []*atlas.LogicalImage
}

// Image returns first logical image with given name
func (r *Result) Image(name string) *atlas.LogicalImage {
	for _, img := range r.Images {
		if img.Name == name {
			return img
		}
	}
	return nil
}

// DecodeRecord produces pixels of one record from the unwrapped container
func DecodeRecord(r *readat.Reader, h *tex.RecordHeader) (*pixel.Buffer, error) {
	raw, err := r.Slice(int(h.ByteOffset), int(h.StoredLength))
	if err != nil {
		return nil, errors.Wrapf(err, "record data")
	}
	payload, err := lz.Decompress(raw, int(h.DecompressedLength), h.Compressed)
	if err != nil {
		return nil, errors.Wrapf(err, "decompress")
	}
	buf, err := pixel.Decode(payload, int(h.Width), int(h.Height), h.Format)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %v", h.Format)
	}
	return buf, nil
}

// Extract decodes every texture of the container.
// Only an empty or unreadable container is an error, record failures go to the report.
// Cancellation is checked between records.
func Extract(ctx context.Context, source string, buf []byte, opts ...tex.Option) (*Result, error) {
	data, err := tex.Unwrap(buf)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", source)
	}
	table, err := tex.Scan(data, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", source)
	}

	report := &Report{Source: source, Layout: table.Layout.String()}
	entries := make([]Outcome, 0, len(table.Records)+len(table.Problems))
	for _, p := range table.Problems {
		entries = append(entries, skipped(p.Index, p.Name, p))
	}

	r := readat.NewReader(data)
	tiles := make([]atlas.Tile, 0, len(table.Records))

	for i := range table.Records {
		h := &table.Records[i]
		if err := ctx.Err(); err != nil {
			entries = append(entries, skipped(h.Index, h.Name, err))
			continue
		}
		pix, err := DecodeRecord(r, h)
		if err != nil {
			log.Printf("[extractor] %s: skipping %v: %v", source, h, err)
			entries = append(entries, skipped(h.Index, h.Name, err))
			continue
		}
		entries = append(entries, Outcome{Index: h.Index, Name: h.Name, Status: Success})
		tiles = append(tiles, atlas.Tile{Record: *h, Buffer: pix})
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Index < entries[j].Index })
	report.Entries = entries

	images := atlas.Assemble(tiles)
	for _, img := range images {
		for _, w := range img.Warnings {
			report.Warnings = append(report.Warnings, w.Error())
		}
	}

	return &Result{Report: report, Table: table, Images: images}, nil
}
