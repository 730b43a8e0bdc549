package geom

import (
	"fmt"
	"math"
)

// Region is one cell of the uniform grid that partitions world space.
// Cells are cubes of edge length Size, aligned so that cell (0,0,0) spans
// [0, Size) on every axis. The key is stable and is used to address both
// persistence records and messaging topics for the owning runner.
type Region struct {
	IX   int     `json:"ix"`
	IY   int     `json:"iy"`
	IZ   int     `json:"iz"`
	Size float64 `json:"size"`
}

// RegionContaining returns the unique cell holding p. Half-open cell
// bounds mean a point exactly on a shared face belongs to the higher cell.
func RegionContaining(p Vec3, size float64) Region {
	return Region{
		IX:   int(math.Floor(p.X / size)),
		IY:   int(math.Floor(p.Y / size)),
		IZ:   int(math.Floor(p.Z / size)),
		Size: size,
	}
}

func (r Region) Key() string {
	return fmt.Sprintf("region_%d_%d_%d", r.IX, r.IY, r.IZ)
}

func (r Region) Aabb() Aabb {
	min := Vec3{float64(r.IX) * r.Size, float64(r.IY) * r.Size, float64(r.IZ) * r.Size}
	return Aabb{Min: min, Max: min.Add(Vec3{r.Size, r.Size, r.Size})}
}

// Neighbors returns the 26 surrounding cells.
func (r Region) Neighbors() []Region {
	out := make([]Region, 0, 26)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				out = append(out, Region{IX: r.IX + dx, IY: r.IY + dy, IZ: r.IZ + dz, Size: r.Size})
			}
		}
	}
	return out
}
