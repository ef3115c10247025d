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
package weights

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	v2 "github.com/iter8-tools/iter8-analytics/pkg/analytics/api/v2"
	"github.com/iter8-tools/iter8-analytics/pkg/analytics/rounding"
	"github.com/iter8-tools/iter8-analytics/test"
)

type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

func exploration(p float64) *float64 {
	return &p
}

func canary() *test.ExperimentBuilder {
	return test.NewExperiment("exp", "ns").
		WithTestingPattern(v2.TestingPatternCanary).
		WithVersions("default", "canary")
}

func split(values ...int32) []v2.VersionWeight {
	names := []string{"default", "canary"}
	if len(values) == 3 {
		names = []string{"default", "canary1", "canary2"}
	}
	out := make([]v2.VersionWeight, len(values))
	for i, v := range values {
		out[i] = v2.VersionWeight{Name: names[i], Value: v}
	}
	return out
}

func TestGetWeights(t *testing.T) {
	cases := map[string]struct {
		exp  *v2.Experiment
		opts Options
		want *v2.WeightsAnalysis
	}{
		"canary winner rounds up": {
			exp:  canary().WithBestVersions("canary").Build(),
			opts: Options{Source: constSource(0.4)},
			want: &v2.WeightsAnalysis{
				Data:    split(3, 97),
				Message: "Error: ; Warning: ; Info: found best versions",
			},
		},
		"canary winner rounds down": {
			exp:  canary().WithBestVersions("canary").Build(),
			opts: Options{Source: constSource(0.6)},
			want: &v2.WeightsAnalysis{
				Data:    split(2, 98),
				Message: "Error: ; Warning: ; Info: found best versions",
			},
		},
		"ten percent exploration with canary winner": {
			exp:  canary().WithBestVersions("canary").Build(),
			opts: Options{ExplorationTrafficPercentage: exploration(10), Source: constSource(0.5)},
			want: &v2.WeightsAnalysis{
				Data:    split(5, 95),
				Message: "Error: ; Warning: ; Info: found best versions",
			},
		},
		"ten percent exploration without winner": {
			exp: canary().
				WithBestVersions().
				WithCurrentWeight("default", 50).
				WithCurrentWeight("canary", 50).
				Build(),
			opts: Options{ExplorationTrafficPercentage: exploration(10), Source: constSource(0.5)},
			want: &v2.WeightsAnalysis{
				Data:    split(95, 5),
				Message: "Error: ; Warning: ; Info: no best versions found; exploiting baseline",
			},
		},
		"no winner assessment": {
			exp:  canary().Build(),
			opts: Options{ExplorationTrafficPercentage: exploration(0), Source: constSource(0.5)},
			want: &v2.WeightsAnalysis{
				Data:    split(100, 0),
				Message: "Error: ; Warning: ; Info: no best versions found; exploiting baseline",
			},
		},
		"weights config caps weight and increment": {
			exp: canary().
				WithBestVersions("canary").
				WithWeightsConfig(test.Int32(53), test.Int32(2)).
				WithCurrentWeight("default", 50).
				WithCurrentWeight("canary", 50).
				Build(),
			opts: Options{Source: constSource(0.5)},
			want: &v2.WeightsAnalysis{
				Data:    split(48, 52),
				Message: "Error: ; Warning: ; Info: found best versions",
			},
		},
		"weights config defaults without prior distribution": {
			exp: canary().
				WithBestVersions("canary").
				WithWeightsConfig(nil, nil).
				Build(),
			opts: Options{Source: constSource(0.5)},
			want: &v2.WeightsAnalysis{
				Data:    split(95, 5),
				Message: "Error: ; Warning: ; Info: found best versions",
			},
		},
		"tied best versions share exploitation": {
			exp: test.NewExperiment("exp", "ns").
				WithTestingPattern(v2.TestingPatternABN).
				WithVersions("default", "canary1", "canary2").
				WithBestVersions("canary1", "canary2").
				Build(),
			opts: Options{Source: constSource(0.5)},
			want: &v2.WeightsAnalysis{
				Data:    split(2, 49, 49),
				Message: "Error: ; Warning: ; Info: found best versions",
			},
		},
		"rounded candidate stays within increment": {
			// constrained weights are 93.33/1.67/5; rounding alone would give canary2 6
			exp: test.NewExperiment("exp", "ns").
				WithTestingPattern(v2.TestingPatternABN).
				WithVersions("default", "canary1", "canary2").
				WithBestVersions("canary2").
				WithWeightsConfig(nil, nil).
				Build(),
			opts: Options{Source: constSource(0.8)},
			want: &v2.WeightsAnalysis{
				Data:    split(94, 1, 5),
				Message: "Error: ; Warning: ; Info: found best versions",
			},
		},
		"performance": {
			exp: test.NewExperiment("exp", "ns").
				WithTestingPattern(v2.TestingPatternPerformance).
				WithVersions("default").
				Build(),
			opts: Options{Source: constSource(0.5)},
			want: &v2.WeightsAnalysis{
				Data:    []v2.VersionWeight{},
				Message: "Error: ; Warning: ; Info: weights are not computed for performance tests",
			},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := GetWeights(tc.exp, tc.opts)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("unexpected weights diff (-want, +got) = %v", diff)
			}
		})
	}
}

func TestMixWeights(t *testing.T) {
	versions := []string{"default", "canary1", "canary2"}
	got := MixWeights(Exploration(3), Exploitation(versions, []string{"canary2"}), 5)
	want := []float64{5.0 / 3, 5.0 / 3, 5.0/3 + 95}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("unexpected mix diff (-want, +got) = %v", diff)
	}
}

func TestConstrainWeights(t *testing.T) {
	cfg := &v2.WeightsConfig{MaxCandidateWeight: test.Int32(30), MaxCandidateWeightIncrement: test.Int32(10)}
	got := ConstrainWeights([]float64{10, 45, 45}, []int32{60, 10, 25}, cfg)
	// canary1 grows by at most 10; canary2 stops at 30
	want := []float64{10 + 25 + 15, 20, 30}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("unexpected constrained diff (-want, +got) = %v", diff)
	}
}

func TestClampWeights(t *testing.T) {
	cfg := &v2.WeightsConfig{MaxCandidateWeight: test.Int32(30), MaxCandidateWeightIncrement: test.Int32(10)}
	got := ClampWeights([]int{40, 22, 38}, []int32{60, 10, 30}, cfg)
	// canary1 stops at 10+10; canary2 stops at 30
	want := []int{50, 20, 30}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected clamped diff (-want, +got) = %v", diff)
	}
}

func TestWeightsSumToTotal(t *testing.T) {
	src := rounding.NewSource(3)
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 500; i++ {
		b := test.NewExperiment("exp", "ns").
			WithTestingPattern(v2.TestingPatternABN).
			WithVersions("default", "canary1", "canary2")
		switch r.Intn(4) {
		case 0:
			b.WithBestVersions("canary1")
		case 1:
			b.WithBestVersions("canary1", "default")
		case 2:
			b.WithBestVersions()
		}
		if r.Intn(2) == 0 {
			b.WithWeightsConfig(test.Int32(r.Int31n(101)), test.Int32(r.Int31n(101)))
			c1 := r.Int31n(101)
			c2 := r.Int31n(101 - c1)
			b.WithCurrentWeight("default", 100-c1-c2).
				WithCurrentWeight("canary1", c1).
				WithCurrentWeight("canary2", c2)
		}

		got := GetWeights(b.Build(), Options{ExplorationTrafficPercentage: exploration(r.Float64() * 100), Source: src})
		var sum int32
		for _, w := range got.Data {
			if w.Value < 0 {
				t.Fatalf("negative weight in %v", got.Data)
			}
			sum += w.Value
		}
		if sum != 100 {
			t.Fatalf("weights %v sum to %d", got.Data, sum)
		}
	}
}

func TestCandidateRateLimit(t *testing.T) {
	src := rounding.NewSource(5)
	r := rand.New(rand.NewSource(13))
	for i := 0; i < 2000; i++ {
		versions := []string{"default", "canary1", "canary2", "canary3"}[:2+r.Intn(3)]
		pattern := v2.TestingPatternABN
		if len(versions) == 2 {
			pattern = v2.TestingPatternCanary
		}
		maxWeight := r.Int31n(101)
		maxIncrement := r.Int31n(101)
		b := test.NewExperiment("exp", "ns").
			WithTestingPattern(pattern).
			WithVersions(versions[0], versions[1:]...).
			WithWeightsConfig(test.Int32(maxWeight), test.Int32(maxIncrement))

		var best []string
		for _, v := range versions {
			if r.Intn(2) == 0 {
				best = append(best, v)
			}
		}
		b.WithBestVersions(best...)

		old := make([]int32, len(versions))
		left := int32(100)
		for j := len(versions) - 1; j > 0; j-- {
			old[j] = r.Int31n(left + 1)
			left -= old[j]
		}
		old[0] = left
		for j, v := range versions {
			b.WithCurrentWeight(v, old[j])
		}

		opts := Options{ExplorationTrafficPercentage: exploration(r.Float64() * 100), Source: src}
		got := GetWeights(b.Build(), opts).Data
		var sum int32
		for j, w := range got {
			sum += w.Value
			if j == 0 {
				continue
			}
			if w.Value > maxWeight {
				t.Fatalf("%s weight %d exceeds max %d in %v", w.Name, w.Value, maxWeight, got)
			}
			if w.Value-old[j] > maxIncrement {
				t.Fatalf("%s weight grew from %d to %d, max increment %d", w.Name, old[j], w.Value, maxIncrement)
			}
		}
		if sum != 100 {
			t.Fatalf("weights %v sum to %d", got, sum)
		}
	}
}
