package game

import (
	"sort"

	"github.com/dhconnelly/rtreego"
)

// Collision is the detector's verdict for one tick.
type Collision struct {
	Intersecting bool
	Point        Vec2
	Pair         [2]string
}

// bboxPad keeps vertical and horizontal tethers from producing zero-sized
// rectangles, which rtreego rejects.
const bboxPad = 0.005

type tetherBox struct {
	index  int
	tether Tether
	rect   *rtreego.Rect
}

func (b *tetherBox) Bounds() *rtreego.Rect {
	return b.rect
}

func newTetherBox(index int, tt Tether) (*tetherBox, error) {
	minX := min(tt.Anchor.X, tt.Kite.X) - bboxPad
	minY := min(tt.Anchor.Y, tt.Kite.Y) - bboxPad
	maxX := max(tt.Anchor.X, tt.Kite.X) + bboxPad
	maxY := max(tt.Anchor.Y, tt.Kite.Y) + bboxPad
	rect, err := rtreego.NewRect(rtreego.Point{minX, minY}, []float64{maxX - minX, maxY - minY})
	if err != nil {
		return nil, err
	}
	return &tetherBox{index: index, tether: tt, rect: rect}, nil
}

// DetectCollision finds the first pair of live kites, in i<j index order,
// whose tethers cross. Only one pair is reported per tick even when several
// cross at once.
//
// Bounding boxes of the tethers go into an R-tree; only pairs whose boxes
// overlap reach the exact segment test, which does not change the result.
func DetectCollision(kites []Kite, t Tuning) Collision {
	boxes := make([]*tetherBox, len(kites))
	spatials := make([]rtreego.Spatial, 0, len(kites))
	for i, k := range kites {
		if !k.Live() {
			continue
		}
		box, err := newTetherBox(i, t.TetherOf(k))
		if err != nil {
			continue
		}
		boxes[i] = box
		spatials = append(spatials, box)
	}
	if len(spatials) < 2 {
		return Collision{}
	}

	tree := rtreego.NewTree(2, 2, 8, spatials...)

	for i, box := range boxes {
		if box == nil {
			continue
		}
		candidates := tree.SearchIntersect(box.rect)
		later := make([]*tetherBox, 0, len(candidates))
		for _, c := range candidates {
			other := c.(*tetherBox)
			if other.index > i {
				later = append(later, other)
			}
		}
		sort.Slice(later, func(a, b int) bool { return later[a].index < later[b].index })

		for _, other := range later {
			if p, ok := box.tether.Cross(other.tether); ok {
				return Collision{
					Intersecting: true,
					Point:        p,
					Pair:         [2]string{kites[i].ID, kites[other.index].ID},
				}
			}
		}
	}
	return Collision{}
}
