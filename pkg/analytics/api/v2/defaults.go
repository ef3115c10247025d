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
	"strconv"

	"k8s.io/apimachinery/pkg/api/resource"
)

const (
	// DefaultMaxCandidateWeight is the default upper bound of a candidate's weight, which is 100
	DefaultMaxCandidateWeight int32 = 100

	// DefaultMaxCandidateWeightIncrement is the default upper bound of a candidate's weight increase, which is 5
	DefaultMaxCandidateWeightIncrement int32 = 5

	// DefaultBaselineWeight is the baseline's weight when no distribution is known, which is 100
	DefaultBaselineWeight int32 = 100

	// DefaultCandidateWeight is a candidate's weight when no distribution is known, which is 0
	DefaultCandidateWeight int32 = 0
)

// GetMaxCandidateWeight returns specified(or default) max candidate weight
func (w *WeightsConfig) GetMaxCandidateWeight() int32 {
	if w.MaxCandidateWeight == nil {
		return DefaultMaxCandidateWeight
	}
	return *w.MaxCandidateWeight
}

// GetMaxCandidateWeightIncrement returns specified(or default) max candidate weight increment
func (w *WeightsConfig) GetMaxCandidateWeightIncrement() int32 {
	if w.MaxCandidateWeightIncrement == nil {
		return DefaultMaxCandidateWeightIncrement
	}
	return *w.MaxCandidateWeightIncrement
}

// GetVersions returns the names of all versions, baseline first
func (s *ExperimentSpec) GetVersions() []string {
	versions := make([]string, 0, len(s.VersionInfo.Candidates)+1)
	versions = append(versions, s.VersionInfo.Baseline.Name)
	for _, c := range s.VersionInfo.Candidates {
		versions = append(versions, c.Name)
	}
	return versions
}

// GetObjectives returns the objectives of the experiment, if any
func (s *ExperimentSpec) GetObjectives() []Objective {
	if s.Criteria == nil {
		return nil
	}
	return s.Criteria.Objectives
}

// GetReward returns the reward of the experiment, if any
func (s *ExperimentSpec) GetReward() *Reward {
	if s.Criteria == nil {
		return nil
	}
	return s.Criteria.Reward
}

// GetPreferredDirection returns the preferred direction, or an empty value if unset
func (r *Reward) GetPreferredDirection() PreferredDirectionType {
	if r.PreferredDirection == nil {
		return PreferredDirectionType("")
	}
	return *r.PreferredDirection
}

// GetAggregatedMetrics returns the aggregated metrics, or nil if absent
func (s *ExperimentStatus) GetAggregatedMetrics() *AggregatedMetricsAnalysis {
	if s.Analysis == nil {
		return nil
	}
	return s.Analysis.AggregatedMetrics
}

// GetVersionAssessments returns the version assessments, or nil if absent
func (s *ExperimentStatus) GetVersionAssessments() *VersionAssessmentAnalysis {
	if s.Analysis == nil {
		return nil
	}
	return s.Analysis.VersionAssessments
}

// GetWinnerAssessment returns the winner assessment, or nil if absent
func (s *ExperimentStatus) GetWinnerAssessment() *WinnerAssessmentAnalysis {
	if s.Analysis == nil {
		return nil
	}
	return s.Analysis.WinnerAssessment
}

// GetBestVersions returns the best versions found by winner assessment
func (s *ExperimentStatus) GetBestVersions() []string {
	wa := s.GetWinnerAssessment()
	if wa == nil {
		return nil
	}
	return wa.Data.BestVersions
}

// GetCurrentWeights returns the weight of each version in the current distribution.
// Without a distribution the baseline holds all traffic; versions missing from
// an existing distribution get no traffic.
func (e *Experiment) GetCurrentWeights() []int32 {
	versions := e.Spec.GetVersions()
	weights := make([]int32, len(versions))
	if len(e.Status.CurrentWeightDistribution) == 0 {
		weights[0] = DefaultBaselineWeight
		for i := 1; i < len(weights); i++ {
			weights[i] = DefaultCandidateWeight
		}
		return weights
	}
	current := make(map[string]int32, len(e.Status.CurrentWeightDistribution))
	for _, w := range e.Status.CurrentWeightDistribution {
		current[w.Name] = w.Value
	}
	for i, v := range versions {
		weights[i] = current[v]
	}
	return weights
}

// Value returns the value of a metric for a version; ok is false if unavailable
func (m *AggregatedMetricsAnalysis) Value(metric, version string) (value float64, ok bool) {
	if m == nil {
		return 0, false
	}
	am, ok := m.Data[metric]
	if !ok {
		return 0, false
	}
	vm, ok := am.Data[version]
	if !ok || vm.Value == nil {
		return 0, false
	}
	return vm.Value.AsApproximateFloat64(), true
}

// HasMetric indicates whether the aggregated metric object is available
func (m *AggregatedMetricsAnalysis) HasMetric(metric string) bool {
	if m == nil {
		return false
	}
	_, ok := m.Data[metric]
	return ok
}

// NewQuantity converts a float into a quantity pointer
func NewQuantity(f float64) *resource.Quantity {
	q := resource.MustParse(strconv.FormatFloat(f, 'f', -1, 64))
	return &q
}
