/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package snap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formcanvas/internal/geom"
)

var parent = geom.R(0, 0, 500, 500)

func TestCollectCandidates_DedupesAndSorts(t *testing.T) {
	c := CollectCandidates(geom.R(0, 0, 100, 60), 20, []geom.Rect{geom.R(20, 0, 40, 40)})
	assert.Equal(t, []int{0, 20, 40, 60, 80, 100}, c.Vertical)
	assert.Equal(t, []int{0, 20, 40, 60}, c.Horizontal)
}

func TestCollectCandidates_OffsetBoundsAndDefaultGrid(t *testing.T) {
	c := CollectCandidates(geom.R(15, 0, 50, 10), 0, nil)
	// grid multiples of 20 inside [15, 65] plus both bounds
	assert.Equal(t, []int{15, 20, 40, 60, 65}, c.Vertical)
	assert.Equal(t, []int{0, 10}, c.Horizontal)
}

func TestApply_MoveSnapsLeftEdgeToGrid(t *testing.T) {
	// panel {10,10,100,100} dragged until its left edge is at 18
	res := Apply(geom.R(18, 10, 100, 100), AllEdges, parent, 20, nil, Options{})
	assert.Equal(t, geom.R(20, 10, 100, 100), res.Rect)
	assert.Equal(t, []geom.Line{geom.VLine(20, 0, 500)}, res.Guides)
}

func TestApply_MoveIsIdempotent(t *testing.T) {
	siblings := []geom.Rect{geom.R(300, 300, 90, 70)}
	first := Apply(geom.R(18, 10, 100, 100), AllEdges, parent, 20, siblings, Options{})
	second := Apply(first.Rect, AllEdges, parent, 20, siblings, Options{})
	assert.Equal(t, first, second)
}

func TestApply_MoveTieFavorsLeadingEdge(t *testing.T) {
	// left 97 is 3 from 100, right 203 is 3 from 200: the left edge decides
	res := Apply(geom.R(97, 200, 106, 100), AllEdges, geom.R(0, 0, 1000, 1000), 100, nil, Options{})
	assert.Equal(t, 100, res.Rect.X)
	assert.Equal(t, 106, res.Rect.W)
}

func TestApply_MovePrefersCloserTrailingEdge(t *testing.T) {
	sib := geom.R(300, 0, 50, 50)
	// left 185 is 5 from 180, right 296 is 4 from the sibling's left edge at 300
	res := Apply(geom.R(185, 200, 111, 50), AllEdges, geom.R(0, 0, 1000, 1000), 20, []geom.Rect{sib}, Options{Threshold: 8})
	assert.Equal(t, 189, res.Rect.X)
	require.NotEmpty(t, res.Guides)
	assert.Equal(t, geom.VLine(300, 0, 1000), res.Guides[0])
}

func TestApply_MoveEmitsOneGuidePerAxis(t *testing.T) {
	res := Apply(geom.R(42, 37, 100, 100), AllEdges, parent, 20, nil, Options{})
	assert.Equal(t, geom.R(40, 40, 100, 100), res.Rect)
	assert.Equal(t, []geom.Line{geom.VLine(40, 0, 500), geom.HLine(40, 0, 500)}, res.Guides)
}

func TestApply_NoMatchOutsideThreshold(t *testing.T) {
	res := Apply(geom.R(10, 10, 100, 100), AllEdges, parent, 20, nil, Options{Threshold: 5})
	assert.Equal(t, geom.R(10, 10, 100, 100), res.Rect)
	assert.Empty(t, res.Guides)
}

func TestApply_ResizeSnapsEachEdgeIndependently(t *testing.T) {
	res := Apply(geom.R(18, 38, 300, 200), Left|Top, geom.R(0, 0, 1000, 1000), 20, nil, Options{})
	assert.Equal(t, geom.FromEdges(20, 40, 318, 238), res.Rect)
	assert.Equal(t, []geom.Line{geom.VLine(20, 0, 1000), geom.HLine(40, 0, 1000)}, res.Guides)
}

func TestApply_ResizeOnlyTouchesOwnedEdges(t *testing.T) {
	// left edge is within reach of 20 but only the right edge is eligible
	res := Apply(geom.R(18, 10, 303, 200), Right, geom.R(0, 0, 1000, 1000), 20, nil, Options{})
	assert.Equal(t, geom.FromEdges(18, 10, 320, 210), res.Rect)
	assert.Len(t, res.Guides, 1)
}

func TestApply_ResizeSkipsSnapBelowMinimum(t *testing.T) {
	r := geom.R(0, 0, 265, 200)
	res := Apply(r, Right, geom.R(0, 0, 1000, 1000), 20, nil, Options{MinSize: geom.Size{W: 262, H: 160}})
	assert.Equal(t, r, res.Rect)
	assert.Empty(t, res.Guides)

	res = Apply(r, Right, geom.R(0, 0, 1000, 1000), 20, nil, Options{MinSize: geom.Size{W: 260, H: 160}})
	assert.Equal(t, 260, res.Rect.W)
}

func TestApply_EqualDistanceSmallestCoordinateWins(t *testing.T) {
	res := Apply(geom.R(10, 100, 300, 200), Left, geom.R(0, 0, 1000, 1000), 20, nil, Options{Threshold: 10})
	assert.Equal(t, geom.FromEdges(0, 100, 310, 300), res.Rect)
}

func TestApply_DisabledOnlyClamps(t *testing.T) {
	res := Apply(geom.R(450, 18, 100, 100), AllEdges, parent, 20, nil, Options{Disabled: true})
	assert.Equal(t, geom.R(400, 18, 100, 100), res.Rect)
	assert.Empty(t, res.Guides)
}

func TestApply_ResultStaysInsideBounds(t *testing.T) {
	for _, r := range []geom.Rect{
		geom.R(-30, 10, 100, 100),
		geom.R(470, 480, 100, 100),
		geom.R(-15, -15, 65, 65),
	} {
		for _, e := range []Edges{AllEdges, Left, Right | Bottom} {
			res := Apply(r, e, parent, 20, nil, Options{})
			assert.True(t, parent.ContainsRect(res.Rect), "edges %b: %v not inside", e, res.Rect)
			if e == AllEdges {
				assert.Equal(t, r.Size(), res.Rect.Size())
			}
		}
	}
}

func TestApply_ResizeSnapsWhereTheClampLeavesTheEdge(t *testing.T) {
	// a top-edge drag floored to the minimum height ends below the parent;
	// the clamp pulls it back up and the top edge snaps from there
	bounds := geom.R(0, 0, 1000, 900)
	opts := Options{MinSize: geom.Size{W: 260, H: 160}}
	res := Apply(geom.R(100, 800, 300, 160), Top, bounds, 20, nil, opts)
	assert.Equal(t, geom.R(100, 740, 300, 160), res.Rect)
	assert.Equal(t, []geom.Line{geom.HLine(740, 0, 1000)}, res.Guides)

	res = Apply(geom.R(711, 600, 689, 317), Top, geom.R(0, 0, 1400, 900), 20, nil, opts)
	assert.Equal(t, geom.R(711, 580, 689, 320), res.Rect)
	assert.Equal(t, []geom.Line{geom.HLine(580, 0, 1400)}, res.Guides)
}

func TestApply_MovePastParentSnapsAfterClamp(t *testing.T) {
	// dragged 30px past the right bound: the clamped left edge sits on the grid
	res := Apply(geom.R(430, 203, 100, 50), AllEdges, parent, 20, nil, Options{})
	assert.Equal(t, geom.R(400, 200, 100, 50), res.Rect)
	assert.Equal(t, []geom.Line{geom.VLine(400, 0, 500), geom.HLine(200, 0, 500)}, res.Guides)
}

func TestApply_SettledResultIsStable(t *testing.T) {
	bounds := geom.R(0, 0, 1400, 900)
	siblings := []geom.Rect{geom.R(505, 100, 300, 200), geom.R(133, 611, 270, 170), geom.R(1390, 850, 100, 100)}
	opts := Options{MinSize: geom.Size{W: 260, H: 160}}
	edgeSets := []Edges{AllEdges, Left, Right, Top, Bottom, Left | Top, Right | Bottom, Left | Bottom, Right | Top}
	for x := -40; x <= 1200; x += 37 {
		for y := -30; y <= 800; y += 29 {
			for _, w := range []int{260, 313, 689} {
				for _, e := range edgeSets {
					r := geom.R(x, y, w, 317)
					first := Apply(r, e, bounds, 20, siblings, opts)
					second := Apply(first.Rect, e, bounds, 20, siblings, opts)
					require.Equal(t, first, second, "edges %b from %v", e, r)
					require.True(t, bounds.ContainsRect(first.Rect), "edges %b from %v", e, r)
					for _, g := range first.Guides {
						if g.X1 == g.X2 {
							assert.Contains(t, []int{first.Rect.Left(), first.Rect.Right()}, g.X1, "edges %b from %v", e, r)
						} else {
							assert.Contains(t, []int{first.Rect.Top(), first.Rect.Bottom()}, g.Y1, "edges %b from %v", e, r)
						}
					}
				}
			}
		}
	}
}

func TestClampInto_TopLeftWinsWhenTooLarge(t *testing.T) {
	assert.Equal(t, geom.R(0, 400, 100, 100), ClampInto(geom.R(-5, 490, 100, 100), parent))
	assert.Equal(t, geom.R(0, 10, 600, 50), ClampInto(geom.R(10, 10, 600, 50), parent))
}
