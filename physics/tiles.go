package physics

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic/collision"
	"github.com/milk9111/kinematic/ecs"
)

// Tile values understood by AddTiles.
const (
	TileEmpty = 0
	TileSolid = 1
	TileSpike = 2
)

// AddTiles builds static shapes for a row-major tile grid whose first row is
// the top of the map. origin is the world position of the grid's bottom-left
// corner. Contiguous solid tiles are merged into as few boxes as possible;
// spikes stay individual triangles on the interactables layer.
func (s *Space) AddTiles(tiles []int, width, height int, tileSize float64, origin cp.Vector) ([]ecs.Entity, error) {
	if width <= 0 || height <= 0 || len(tiles) != width*height {
		return nil, fmt.Errorf("physics: tile grid %dx%d has %d cells", width, height, len(tiles))
	}
	if tileSize <= 0 {
		return nil, fmt.Errorf("physics: tile size %v must be positive", tileSize)
	}

	// tile (x, y) covers [left, left+tileSize) x [top-tileSize, top)
	cell := func(x, y int) (left, top float64) {
		return origin.X + float64(x)*tileSize, origin.Y + float64(height-y)*tileSize
	}
	solid := func(v int) bool { return v == TileSolid }

	var ids []ecs.Entity
	processed := make([]bool, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			if processed[idx] {
				continue
			}
			v := tiles[idx]
			left, top := cell(x, y)

			switch v {
			case TileEmpty:
				processed[idx] = true
				continue
			case TileSpike:
				verts := []cp.Vector{
					{X: left, Y: top - tileSize},
					{X: left + tileSize, Y: top - tileSize},
					{X: left + tileSize/2, Y: top},
				}
				ids = append(ids, s.AddPolygon(verts, collision.LayerInteractable))
				processed[idx] = true
				continue
			case TileSolid:
			default:
				return ids, fmt.Errorf("physics: unknown tile %d at (%d, %d)", v, x, y)
			}

			// grow the rectangle right, then down while every row is solid
			w := 1
			for x+w < width {
				i := y*width + x + w
				if processed[i] || !solid(tiles[i]) {
					break
				}
				w++
			}
			h := 1
		heightLoop:
			for y+h < height {
				for xi := x; xi < x+w; xi++ {
					i := (y+h)*width + xi
					if processed[i] || !solid(tiles[i]) {
						break heightLoop
					}
				}
				h++
			}

			bb := cp.BB{L: left, B: top - float64(h)*tileSize, R: left + float64(w)*tileSize, T: top}
			ids = append(ids, s.AddSolid(bb))

			for yy := y; yy < y+h; yy++ {
				for xx := x; xx < x+w; xx++ {
					processed[yy*width+xx] = true
				}
			}
		}
	}
	s.log.WithField("shapes", len(ids)).Debug("physics: tiles merged")
	return ids, nil
}
