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

// Package weights recommends the traffic split for the next iteration of an experiment.
package weights

import (
	"math"

	v2 "github.com/iter8-tools/iter8-analytics/pkg/analytics/api/v2"
	"github.com/iter8-tools/iter8-analytics/pkg/analytics/message"
	"github.com/iter8-tools/iter8-analytics/pkg/analytics/rounding"
)

const (
	// DefaultExplorationTrafficPercentage is the share of traffic split evenly across versions, which is 5
	DefaultExplorationTrafficPercentage float64 = 5.0

	// TotalWeight is the sum of the weights of all versions
	TotalWeight float64 = 100
)

// Options control weight computation
type Options struct {
	// ExplorationTrafficPercentage is the share of traffic split evenly across versions
	// +optional
	ExplorationTrafficPercentage *float64

	// Source of randomness for rounding; a time seeded source is used if nil
	// +optional
	Source rounding.Source
}

// GetExplorationTrafficPercentage returns specified(or default) exploration traffic percentage
func (o Options) GetExplorationTrafficPercentage() float64 {
	if o.ExplorationTrafficPercentage == nil {
		return DefaultExplorationTrafficPercentage
	}
	return *o.ExplorationTrafficPercentage
}

// GetWeights computes the weights of each version from the best versions found by
// winner assessment, limited by the experiment's weights config.
func GetWeights(exp *v2.Experiment, opts Options) *v2.WeightsAnalysis {
	var msgs message.Messages

	if exp.Spec.Strategy.TestingPattern == v2.TestingPatternPerformance {
		msgs.Infof("weights are not computed for performance tests")
		return &v2.WeightsAnalysis{Data: []v2.VersionWeight{}, Message: msgs.Join()}
	}

	versions := exp.Spec.GetVersions()
	best := exp.Status.GetBestVersions()
	if len(best) > 0 {
		msgs.Infof("found best versions")
	} else {
		msgs.Infof("no best versions found; exploiting baseline")
	}

	mix := MixWeights(Exploration(len(versions)), Exploitation(versions, best), opts.GetExplorationTrafficPercentage())
	var rounded []int
	if cfg := exp.Spec.Strategy.Weights; cfg != nil {
		current := exp.GetCurrentWeights()
		rounded = rounding.GenRound(ConstrainWeights(mix, current, cfg), TotalWeight, opts.Source)
		rounded = ClampWeights(rounded, current, cfg)
	} else {
		rounded = rounding.GenRound(mix, TotalWeight, opts.Source)
	}
	return &v2.WeightsAnalysis{Data: named(versions, rounded), Message: msgs.Join()}
}

func named(versions []string, rounded []int) []v2.VersionWeight {
	data := make([]v2.VersionWeight, len(versions))
	for i, v := range versions {
		data[i] = v2.VersionWeight{Name: v, Value: int32(rounded[i])}
	}
	return data
}

// Exploration returns uniform fractions over n versions
func Exploration(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}
	return w
}

// Exploitation returns equal fractions over the best versions, or all traffic to the
// baseline if there are none.
func Exploitation(versions, best []string) []float64 {
	w := make([]float64, len(versions))
	if len(best) == 0 {
		if len(w) > 0 {
			w[0] = 1
		}
		return w
	}
	isBest := make(map[string]bool, len(best))
	for _, b := range best {
		isBest[b] = true
	}
	for i, v := range versions {
		if isBest[v] {
			w[i] = 1 / float64(len(best))
		}
	}
	return w
}

// MixWeights blends exploration and exploitation fractions into percentages
func MixWeights(exploration, exploitation []float64, explorationPercentage float64) []float64 {
	e := explorationPercentage / 100
	mix := make([]float64, len(exploration))
	for i := range mix {
		mix[i] = TotalWeight * (e*exploration[i] + (1-e)*exploitation[i])
	}
	return mix
}

// ConstrainWeights caps each candidate's weight and its increase over current; the
// baseline (index 0) absorbs whatever the candidates give up.
func ConstrainWeights(mix []float64, current []int32, cfg *v2.WeightsConfig) []float64 {
	constrained := make([]float64, len(mix))
	copy(constrained, mix)
	maxWeight := float64(cfg.GetMaxCandidateWeight())
	maxIncrement := float64(cfg.GetMaxCandidateWeightIncrement())
	for i := 1; i < len(mix); i++ {
		increase := mix[i] - float64(current[i])
		excess := math.Max(0, math.Max(increase-maxIncrement, mix[i]-maxWeight))
		constrained[i] = mix[i] - excess
		constrained[0] += excess
	}
	return constrained
}

// ClampWeights holds each rounded candidate weight within min(current+increment, max).
// Rounding can push a candidate above its fractional cap; the baseline takes the overflow.
func ClampWeights(rounded []int, current []int32, cfg *v2.WeightsConfig) []int {
	clamped := make([]int, len(rounded))
	copy(clamped, rounded)
	maxWeight := int(cfg.GetMaxCandidateWeight())
	maxIncrement := int(cfg.GetMaxCandidateWeightIncrement())
	for i := 1; i < len(clamped); i++ {
		bound := min(int(current[i])+maxIncrement, maxWeight)
		if clamped[i] > bound {
			clamped[0] += clamped[i] - bound
			clamped[i] = bound
		}
	}
	return clamped
}
