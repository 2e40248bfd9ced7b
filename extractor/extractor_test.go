package extractor

import (
	"bytes"
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/mogaika/pad_texture_tool/tex"
	"github.com/mogaika/pad_texture_tool/tex/pixel"
	"github.com/mogaika/pad_texture_tool/tex/textest"
)

func goodRecord(name string) textest.Record {
	data := make([]byte, 4*4*4)
	for i := range data {
		data[i] = byte(i)
	}
	return textest.Record{Name: name, Format: pixel.RGBA8888, Width: 4, Height: 4, Data: data, Compress: true}
}

func TestCorruptionContained(t *testing.T) {
	var tests = []struct {
		reason Reason
		bad    textest.Record
	}{
		{ReasonMalformedRecord, textest.Record{Name: "BAD", Format: pixel.L8, Width: 2, Height: 2,
			Data: make([]byte, 4), ByteOffset: 0x7ffffff0}},
		{ReasonMalformedRecord, textest.Record{Name: "BAD", Format: pixel.L8, Width: 1, Height: 1,
			Data: make([]byte, 1), TileCount: 2, CanvasW: 0xffff, CanvasH: 0xffff}},
		{ReasonMalformedRecord, textest.Record{Name: "BAD", Format: pixel.L8, Width: 1, Height: 1,
			Data: make([]byte, 1), TileCount: 2, TileX: 0xffff, TileY: 0xffff}},
		{ReasonLengthMismatch, textest.Record{Name: "BAD", Format: pixel.L8, Width: 2, Height: 2,
			Data: make([]byte, 4), ExpectedLength: 8}},
		{ReasonLengthMismatch, textest.Record{Name: "BAD", Format: pixel.RGBA8888, Width: 4, Height: 4,
			Data: make([]byte, 16)}},
		{ReasonTruncatedStream, textest.Record{Name: "BAD", Format: pixel.L8, Width: 4, Height: 4,
			Data: make([]byte, 16), Compress: true, Stored: []byte{0xf0}}},
		{ReasonInvalidBackReference, textest.Record{Name: "BAD", Format: pixel.L8, Width: 4, Height: 4,
			Data: make([]byte, 16), Compress: true, Stored: textest.Sequence([]byte("ab"), 5, 14)}},
		{ReasonInvalidIndex, textest.Record{Name: "BAD", Format: pixel.Indexed8, Width: 2, Height: 2,
			Data: []byte{0, 0, 9, 0, 1, 2, 3, 4}}},
		{ReasonUnsupportedFormat, textest.Record{Name: "BAD", Format: pixel.Format(0x6), Width: 2, Height: 2,
			Data: make([]byte, 16)}},
	}

	for _, test := range tests {
		buf := textest.Table(goodRecord("A.PNG"), test.bad, goodRecord("C.PNG"))
		res, err := Extract(context.Background(), "test.bc", buf)
		if err != nil {
			t.Fatalf("%v: Extract error: %v", test.reason, err)
		}

		entries := res.Report.Entries
		if len(entries) != 3 {
			t.Fatalf("%v: entries=%v; expected 3", test.reason, entries)
		}
		for i, e := range entries {
			if e.Index != i {
				t.Errorf("%v: entry %d has index %d", test.reason, i, e.Index)
			}
		}
		if entries[0].Status != Success || entries[2].Status != Success {
			t.Errorf("%v: good records not extracted: %v", test.reason, entries)
		}
		if entries[1].Status != Skipped || entries[1].Reason != test.reason || entries[1].Name != "BAD" {
			t.Errorf("%v: bad record outcome=%+v", test.reason, entries[1])
		}
		if entries[1].Err == nil || entries[1].Message == "" {
			t.Errorf("%v: skipped outcome has no error", test.reason)
		}
		if extracted, skipped := res.Report.Summary(); extracted != 2 || skipped != 1 {
			t.Errorf("%v: Summary()=%d,%d; expected 2,1", test.reason, extracted, skipped)
		}

		if len(res.Images) != 2 {
			t.Fatalf("%v: %d images; expected 2", test.reason, len(res.Images))
		}
		good := goodRecord("")
		for _, img := range res.Images {
			if !bytes.Equal(img.Buffer.Pix, good.Data) {
				t.Errorf("%v: image %q pixels differ from payload", test.reason, img.Name)
			}
		}
	}
}

func TestEmptyContainer(t *testing.T) {
	if _, err := Extract(context.Background(), "empty", nil); !errors.Is(err, tex.ErrEmptyContainer) {
		t.Errorf("Extract(empty) err=%v; expected ErrEmptyContainer", err)
	}
}

func TestBrokenEnvelope(t *testing.T) {
	wrapped := textest.Wrap(textest.Table(goodRecord("A.PNG")), 0x33)
	if _, err := Extract(context.Background(), "broken", wrapped[:tex.WrapHeaderSize+3]); err == nil {
		t.Errorf("Extract(truncated envelope) err=nil; expected failure")
	}
}

func TestWrappedContainer(t *testing.T) {
	buf := textest.Wrap(textest.Table(goodRecord("A.PNG"), goodRecord("B.PNG")), 0x9c)
	res, err := Extract(context.Background(), "wrapped", buf)
	if err != nil {
		t.Fatal(err)
	}
	if extracted, skipped := res.Report.Summary(); extracted != 2 || skipped != 0 {
		t.Errorf("Summary()=%d,%d; expected 2,0", extracted, skipped)
	}
	if res.Image("B.PNG") == nil {
		t.Errorf("image B.PNG not found")
	}
}

func TestCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	buf := textest.Table(goodRecord("A.PNG"), goodRecord("B.PNG"))
	res, err := Extract(ctx, "canceled", buf)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range res.Report.Entries {
		if e.Status != Skipped || e.Reason != ReasonCanceled {
			t.Errorf("entry %+v; expected Skipped(Canceled)", e)
		}
	}
	if len(res.Images) != 0 {
		t.Errorf("%d images produced after cancellation", len(res.Images))
	}
}

func TestTilesAssembled(t *testing.T) {
	quad := func(i, x, y uint16) textest.Record {
		data := bytes.Repeat([]byte{byte(i + 1)}, 8*8)
		return textest.Record{Name: "ATLAS.PNG", Format: pixel.L8, Width: 8, Height: 8, Data: data,
			TileIndex: i, TileCount: 4, TileX: x, TileY: y}
	}
	buf := textest.Table(quad(0, 0, 0), quad(1, 8, 0), goodRecord("SOLO.PNG"), quad(2, 0, 8), quad(3, 8, 8))

	res, err := Extract(context.Background(), "atlas", buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Images) != 2 {
		t.Fatalf("%d images; expected 2", len(res.Images))
	}
	img := res.Image("ATLAS.PNG")
	if img == nil || img.Buffer.Width != 16 || img.Buffer.Height != 16 {
		t.Fatalf("atlas image=%v", img)
	}
	if got := img.Buffer.Pix[img.Buffer.Offset(12, 12)]; got != 4 {
		t.Errorf("bottom right quadrant=%d; expected 4", got)
	}
	if len(res.Report.Warnings) != 0 {
		t.Errorf("warnings=%v", res.Report.Warnings)
	}
}

func TestClassify(t *testing.T) {
	var tests = []struct {
		err    error
		reason Reason
	}{
		{nil, ReasonNone},
		{errors.Wrapf(context.Canceled, "stop"), ReasonCanceled},
		{errors.New("something else"), ReasonOther},
		{&tex.MalformedRecordError{Name: "X", Reason: "bad"}, ReasonMalformedRecord},
	}
	for _, test := range tests {
		if got := Classify(test.err); got != test.reason {
			t.Errorf("Classify(%v)=%v; expected %v", test.err, got, test.reason)
		}
	}
}
