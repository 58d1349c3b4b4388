// Copyright 2010-2024 Google LLC
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package geometry

// Tetrominoes returns the seven one-sided tetrominoes, each in a single fixed
// orientation, in the order I, O, T, S, Z, J, L.
func Tetrominoes() []Shape {
	patterns := []struct{ name, pattern string }{
		{"I", "####"},
		{"O", "##\n##"},
		{"T", "###\n.#."},
		{"S", ".##\n##."},
		{"Z", "##.\n.##"},
		{"J", ".#\n.#\n##"},
		{"L", "#.\n#.\n##"},
	}
	shapes := make([]Shape, len(patterns))
	for i, p := range patterns {
		s, err := ParseShape(p.name, p.pattern)
		if err != nil {
			panic(err)
		}
		shapes[i] = s
	}
	return shapes
}

// Bars returns, for every length, a horizontal 1×length and a vertical
// length×1 bar, in that order.
func Bars(lengths ...int) ([]Shape, error) {
	shapes := make([]Shape, 0, 2*len(lengths))
	for _, l := range lengths {
		h, err := Rectangle(1, l)
		if err != nil {
			return nil, err
		}
		v, err := Rectangle(l, 1)
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, h, v)
	}
	return shapes, nil
}
