/*
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package rounding turns fractional weights into integers with an exact total.
package rounding

import (
	"math"
	"math/rand"
	"time"
)

// Source yields uniformly distributed numbers in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a source seeded with seed
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NewTimeSeededSource returns a source seeded with the current time
func NewTimeSeededSource() *rand.Rand {
	return NewSource(time.Now().UnixNano())
}

// GenRound stochastically rounds weights into non-negative integers summing to floor(total).
// Each output's expectation is its proportional share of the remaining total. If src is nil
// a time seeded source is used.
func GenRound(weights []float64, total float64, src Source) []int {
	out := make([]int, len(weights))
	if len(weights) == 0 {
		return out
	}
	if src == nil {
		src = NewTimeSeededSource()
	}

	remaining := int(math.Floor(total))
	if remaining < 0 {
		remaining = 0
	}
	rest := make([]float64, len(weights))
	copy(rest, weights)

	for i := range rest {
		sum := 0.0
		for _, w := range rest[i:] {
			sum += w
		}
		if sum == 0 {
			for j := i; j < len(rest); j++ {
				rest[j] = 1
			}
			sum = float64(len(rest) - i)
		}

		share := rest[i] * float64(remaining) / sum
		n := int(math.Floor(share))
		if src.Float64() < share-math.Floor(share) {
			n++
		}
		// the last share equals the remaining total up to float error
		if i == len(rest)-1 {
			n = remaining
		}
		if n < 0 {
			n = 0
		}
		if n > remaining {
			n = remaining
		}
		out[i] = n
		remaining -= n
	}
	return out
}
