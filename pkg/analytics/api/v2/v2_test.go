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
package v2

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"k8s.io/apimachinery/pkg/api/resource"
)

const canaryYAML = `
metadata:
  name: exp
spec:
  strategy:
    testingPattern: Canary
    weights:
      maxCandidateWeight: 53
  versionInfo:
    baseline:
      name: default
    candidates:
    - name: canary
  criteria:
    objectives:
    - metric: mean-latency
      upperLimit: 420
      lowerLimit: 250m
status:
  analysis:
    aggregatedMetrics:
      data:
        mean-latency:
          data:
            default:
              value: 419.2027
            canary:
              value: "426.951"
            other: {}
  currentWeightDistribution:
  - name: default
    value: 60
  - name: canary
    value: 40
`

func TestDecodeExperiment(t *testing.T) {
	exp, err := DecodeExperiment(strings.NewReader(canaryYAML))
	if err != nil {
		t.Fatalf("%v", err)
	}
	if err := exp.Validate(); err != nil {
		t.Fatalf("%v", err)
	}

	if diff := cmp.Diff([]string{"default", "canary"}, exp.Spec.GetVersions()); diff != "" {
		t.Errorf("unexpected versions diff (-want, +got) = %v", diff)
	}
	obj := exp.Spec.GetObjectives()[0]
	if got := obj.UpperLimit.AsApproximateFloat64(); got != 420 {
		t.Errorf("upper limit = %v, want 420", got)
	}
	if got := obj.LowerLimit.AsApproximateFloat64(); got != 0.25 {
		t.Errorf("lower limit = %v, want 0.25", got)
	}

	am := exp.Status.GetAggregatedMetrics()
	got := map[string]bool{}
	for _, v := range []string{"default", "canary", "other", "absent"} {
		_, ok := am.Value("mean-latency", v)
		got[v] = ok
	}
	want := map[string]bool{"default": true, "canary": true, "other": false, "absent": false}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected availability diff (-want, +got) = %v", diff)
	}
	if v, _ := am.Value("mean-latency", "canary"); v < 426.95 || v > 426.952 {
		t.Errorf("canary value = %v, want 426.951", v)
	}

	if got := exp.Spec.Strategy.Weights.GetMaxCandidateWeight(); got != 53 {
		t.Errorf("max candidate weight = %d, want 53", got)
	}
	if got := exp.Spec.Strategy.Weights.GetMaxCandidateWeightIncrement(); got != DefaultMaxCandidateWeightIncrement {
		t.Errorf("max candidate weight increment = %d, want default", got)
	}
	if diff := cmp.Diff([]int32{60, 40}, exp.GetCurrentWeights()); diff != "" {
		t.Errorf("unexpected current weights diff (-want, +got) = %v", diff)
	}
}

func TestQuantityPrecision(t *testing.T) {
	// limits and values keep nano precision; finer digits round up
	if got := NewQuantity(0.123456789); got.Cmp(resource.MustParse("123456789n")) != 0 {
		t.Errorf("nano precision quantity = %v, want 123456789n", got)
	}
	if got := NewQuantity(0.0123456789012); got.Cmp(resource.MustParse("0.012345679")) != 0 {
		t.Errorf("sub-nano quantity = %v, want 0.012345679", got)
	}
}

func TestGetCurrentWeights(t *testing.T) {
	exp := &Experiment{Spec: ExperimentSpec{VersionInfo: VersionInfo{
		Baseline:   VersionDetail{Name: "default"},
		Candidates: []VersionDetail{{Name: "canary1"}, {Name: "canary2"}},
	}}}
	if diff := cmp.Diff([]int32{100, 0, 0}, exp.GetCurrentWeights()); diff != "" {
		t.Errorf("unexpected default weights diff (-want, +got) = %v", diff)
	}

	exp.Status.CurrentWeightDistribution = []VersionWeight{{Name: "canary2", Value: 30}, {Name: "default", Value: 70}}
	if diff := cmp.Diff([]int32{70, 0, 30}, exp.GetCurrentWeights()); diff != "" {
		t.Errorf("unexpected weights diff (-want, +got) = %v", diff)
	}
}

func TestValidate(t *testing.T) {
	high := PreferredDirectionHigh
	sideways := PreferredDirectionType("Sideways")
	over := int32(101)

	valid := func() *Experiment {
		return &Experiment{Spec: ExperimentSpec{
			Strategy: Strategy{TestingPattern: TestingPatternAB},
			VersionInfo: VersionInfo{
				Baseline:   VersionDetail{Name: "default"},
				Candidates: []VersionDetail{{Name: "canary"}},
			},
			Criteria: &Criteria{
				Objectives: []Objective{{Metric: "mean-latency", UpperLimit: NewQuantity(420)}},
				Reward:     &Reward{Metric: "revenue", PreferredDirection: &high},
			},
		}}
	}

	cases := map[string]struct {
		mutate  func(e *Experiment)
		wantErr bool
	}{
		"valid":                  {mutate: func(e *Experiment) {}},
		"missing pattern":        {mutate: func(e *Experiment) { e.Spec.Strategy.TestingPattern = "" }, wantErr: true},
		"unknown pattern":        {mutate: func(e *Experiment) { e.Spec.Strategy.TestingPattern = "Shadow" }, wantErr: true},
		"missing baseline name":  {mutate: func(e *Experiment) { e.Spec.VersionInfo.Baseline.Name = "" }, wantErr: true},
		"missing candidate name": {mutate: func(e *Experiment) { e.Spec.VersionInfo.Candidates[0].Name = "" }, wantErr: true},
		"duplicate names":        {mutate: func(e *Experiment) { e.Spec.VersionInfo.Candidates[0].Name = "default" }, wantErr: true},
		"missing metric":         {mutate: func(e *Experiment) { e.Spec.Criteria.Objectives[0].Metric = "" }, wantErr: true},
		"bad direction":          {mutate: func(e *Experiment) { e.Spec.Criteria.Reward.PreferredDirection = &sideways }, wantErr: true},
		"unset direction":        {mutate: func(e *Experiment) { e.Spec.Criteria.Reward.PreferredDirection = nil }},
		"weight out of range": {
			mutate:  func(e *Experiment) { e.Spec.Strategy.Weights = &WeightsConfig{MaxCandidateWeight: &over} },
			wantErr: true,
		},
		"two candidates for A/B": {
			mutate: func(e *Experiment) {
				e.Spec.VersionInfo.Candidates = append(e.Spec.VersionInfo.Candidates, VersionDetail{Name: "canary2"})
			},
			wantErr: true,
		},
		"conformance with candidate": {
			mutate:  func(e *Experiment) { e.Spec.Strategy.TestingPattern = TestingPatternConformance },
			wantErr: true,
		},
		"A/B/N with no candidate": {
			mutate: func(e *Experiment) {
				e.Spec.Strategy.TestingPattern = TestingPatternABN
				e.Spec.VersionInfo.Candidates = nil
			},
			wantErr: true,
		},
		"unknown version in distribution": {
			mutate: func(e *Experiment) {
				e.Status.CurrentWeightDistribution = []VersionWeight{{Name: "other", Value: 100}}
			},
			wantErr: true,
		},
		"negative weight in distribution": {
			mutate: func(e *Experiment) {
				e.Status.CurrentWeightDistribution = []VersionWeight{{Name: "default", Value: -1}}
			},
			wantErr: true,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			e := valid()
			tc.mutate(e)
			err := e.Validate()
			if tc.wantErr && err == nil {
				t.Errorf("expected an error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
