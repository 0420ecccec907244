/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import "testing"

func TestRectEdges(t *testing.T) {
	r := R(10, 20, 100, 50)
	if r.Left() != 10 || r.Top() != 20 || r.Right() != 110 || r.Bottom() != 70 {
		t.Fatalf("unexpected edges for %v", r)
	}
	if got := FromEdges(r.Left(), r.Top(), r.Right(), r.Bottom()); got != r {
		t.Fatalf("FromEdges round trip: %v != %v", got, r)
	}
}

func TestRectNormalized(t *testing.T) {
	cases := []struct {
		in, want Rect
	}{
		{R(0, 0, 10, 10), R(0, 0, 10, 10)},
		{R(10, 0, -10, 5), R(0, 0, 10, 5)},
		{R(0, 10, 5, -20), R(0, -10, 5, 20)},
		{FromEdges(50, 50, 20, 30), R(20, 30, 30, 20)},
	}
	for _, c := range cases {
		if got := c.in.Normalized(); got != c.want {
			t.Errorf("Normalized(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestRectContains(t *testing.T) {
	r := R(0, 0, 10, 10)
	if !r.Contains(Pt(0, 0)) || !r.Contains(Pt(9, 9)) {
		t.Fatalf("expected corners inside")
	}
	if r.Contains(Pt(10, 5)) || r.Contains(Pt(5, 10)) {
		t.Fatalf("right/bottom edge must be exclusive")
	}
	if !r.ContainsRect(R(2, 2, 8, 8)) || r.ContainsRect(R(2, 2, 9, 8)) {
		t.Fatalf("ContainsRect mismatch")
	}
}

func TestRectUnionAndTranslate(t *testing.T) {
	u := R(0, 0, 10, 10).Union(R(20, -5, 5, 5))
	if u != R(0, -5, 25, 15) {
		t.Fatalf("Union = %v", u)
	}
	if got := R(1, 2, 3, 4).Translate(10, -2); got != R(11, 0, 3, 4) {
		t.Fatalf("Translate = %v", got)
	}
	if got := R(1, 2, 3, 4).MoveTo(Pt(7, 8)); got != R(7, 8, 3, 4) {
		t.Fatalf("MoveTo = %v", got)
	}
}

func TestClampLowerBoundWins(t *testing.T) {
	if Clamp(5, 0, 10) != 5 || Clamp(-3, 0, 10) != 0 || Clamp(12, 0, 10) != 10 {
		t.Fatalf("basic clamp failed")
	}
	// parent smaller than the panel: hi < lo
	if got := Clamp(50, 0, -100); got != 0 {
		t.Fatalf("Clamp with hi<lo = %d, want 0", got)
	}
}

func TestLines(t *testing.T) {
	if VLine(20, 0, 500) != (Line{20, 0, 20, 500}) {
		t.Fatalf("VLine")
	}
	if HLine(40, 0, 300) != (Line{0, 40, 300, 40}) {
		t.Fatalf("HLine")
	}
	if Pt(3, 4).Sub(Pt(1, 1)) != Pt(2, 3) || Pt(3, 4).Add(Pt(1, 1)) != Pt(4, 5) {
		t.Fatalf("point math")
	}
}
