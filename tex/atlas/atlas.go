// Package atlas merges tile records that share a logical image name.
package atlas

import (
	"fmt"
	"image"
	"log"

	"github.com/pkg/errors"

	"github.com/mogaika/pad_texture_tool/tex"
	"github.com/mogaika/pad_texture_tool/tex/pixel"
)

var ErrTileOverlap = errors.New("tile overlap")

type TileOverlapError struct {
	Name         string
	First, Later tex.RecordHeader
	Area         image.Rectangle
}

func (e *TileOverlapError) Error() string {
	return fmt.Sprintf("%q: tile %d (record #%d) overwrites tile %d (record #%d) in %v",
		e.Name, e.Later.TileIndex, e.Later.Index, e.First.TileIndex, e.First.Index, e.Area)
}

func (e *TileOverlapError) Unwrap() error { return ErrTileOverlap }

// Tile is a decoded record
type Tile struct {
	Record tex.RecordHeader
	Buffer *pixel.Buffer
}

func (t *Tile) Rect() image.Rectangle {
	x, y := int(t.Record.TileX), int(t.Record.TileY)
	return image.Rect(x, y, x+t.Buffer.Width, y+t.Buffer.Height)
}

type LogicalImage struct {
	Name   string
	Buffer *pixel.Buffer
	// Records lists indexes of records composing image in scan order
	Records  []int
	Warnings []error
}

type group struct {
	name  string
	tiles []*Tile
}

// Assemble groups tiles into logical images.
// Records without tiling pass through with their own buffer.
func Assemble(tiles []Tile) []*LogicalImage {
	groups := make([]*group, 0, len(tiles))
	byName := make(map[string]*group)

	for i := range tiles {
		t := &tiles[i]
		if !t.Record.Tiled() {
			groups = append(groups, &group{name: t.Record.Name, tiles: []*Tile{t}})
			continue
		}
		g, ok := byName[t.Record.Name]
		if !ok {
			g = &group{name: t.Record.Name}
			byName[t.Record.Name] = g
			groups = append(groups, g)
		}
		g.tiles = append(g.tiles, t)
	}

	images := make([]*LogicalImage, 0, len(groups))
	for _, g := range groups {
		images = append(images, g.assemble())
	}
	return images
}

func (g *group) assemble() *LogicalImage {
	img := &LogicalImage{Name: g.name}
	for _, t := range g.tiles {
		img.Records = append(img.Records, t.Record.Index)
	}

	if len(g.tiles) == 1 && !g.tiles[0].Record.Tiled() {
		img.Buffer = g.tiles[0].Buffer
		return img
	}

	canvas := image.Rectangle{}
	for _, t := range g.tiles {
		canvas = canvas.Union(t.Rect())
		declared := image.Rect(0, 0, int(t.Record.CanvasWidth), int(t.Record.CanvasHeight))
		canvas = canvas.Union(declared)
	}
	canvas.Min = image.Point{}

	img.Buffer = pixel.NewBuffer(canvas.Dx(), canvas.Dy())

	for i, t := range g.tiles {
		r := t.Rect()
		for _, prev := range g.tiles[:i] {
			if area := r.Intersect(prev.Rect()); !area.Empty() {
				err := &TileOverlapError{Name: g.name, First: prev.Record, Later: t.Record, Area: area}
				log.Printf("[atlas] warning: %v", err)
				img.Warnings = append(img.Warnings, err)
			}
		}
		blit(img.Buffer, t.Buffer, r.Min)
	}

	return img
}

// blit overwrites dst pixels with src placed at p, alpha included
func blit(dst, src *pixel.Buffer, p image.Point) {
	row := src.Width * 4
	for y := 0; y < src.Height; y++ {
		copy(dst.Pix[dst.Offset(p.X, p.Y+y):], src.Pix[y*row:(y+1)*row])
	}
}
