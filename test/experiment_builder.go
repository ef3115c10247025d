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

package test

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	v2 "github.com/iter8-tools/iter8-analytics/pkg/analytics/api/v2"
)

// ExperimentBuilder builds experiment snapshots
type ExperimentBuilder v2.Experiment

// NewExperiment create a new minimal experiment object
func NewExperiment(name, namespace string) *ExperimentBuilder {
	exp := &v2.Experiment{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "iter8.tools/v2alpha2",
			Kind:       "Experiment",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
		},
	}
	return (*ExperimentBuilder)(exp)
}

// Build the experiment object
func (b *ExperimentBuilder) Build() *v2.Experiment {
	return (*v2.Experiment)(b)
}

// WithTestingPattern sets the testing pattern
func (b *ExperimentBuilder) WithTestingPattern(p v2.TestingPatternType) *ExperimentBuilder {
	b.Spec.Strategy.TestingPattern = p
	return b
}

// WithVersions sets the baseline and candidates
func (b *ExperimentBuilder) WithVersions(baseline string, candidates ...string) *ExperimentBuilder {
	b.Spec.VersionInfo.Baseline = v2.VersionDetail{Name: baseline}
	b.Spec.VersionInfo.Candidates = nil
	for _, c := range candidates {
		b.Spec.VersionInfo.Candidates = append(b.Spec.VersionInfo.Candidates, v2.VersionDetail{Name: c})
	}
	return b
}

// WithCriteria makes sure criteria are present, even if empty
func (b *ExperimentBuilder) WithCriteria() *ExperimentBuilder {
	if b.Spec.Criteria == nil {
		b.Spec.Criteria = &v2.Criteria{}
	}
	return b
}

// WithUpperLimit adds an objective bounding metric from above
func (b *ExperimentBuilder) WithUpperLimit(metric string, limit float64) *ExperimentBuilder {
	b.WithCriteria()
	b.Spec.Criteria.Objectives = append(b.Spec.Criteria.Objectives, v2.Objective{
		Metric:     metric,
		UpperLimit: v2.NewQuantity(limit),
	})
	return b
}

// WithLowerLimit adds an objective bounding metric from below
func (b *ExperimentBuilder) WithLowerLimit(metric string, limit float64) *ExperimentBuilder {
	b.WithCriteria()
	b.Spec.Criteria.Objectives = append(b.Spec.Criteria.Objectives, v2.Objective{
		Metric:     metric,
		LowerLimit: v2.NewQuantity(limit),
	})
	return b
}

// WithReward sets the reward metric; an empty direction leaves it unset
func (b *ExperimentBuilder) WithReward(metric string, direction v2.PreferredDirectionType) *ExperimentBuilder {
	b.WithCriteria()
	reward := &v2.Reward{Metric: metric}
	if direction != "" {
		reward.PreferredDirection = &direction
	}
	b.Spec.Criteria.Reward = reward
	return b
}

// WithWeightsConfig adds a weights block; nil values fall back to defaults
func (b *ExperimentBuilder) WithWeightsConfig(maxCandidateWeight, maxCandidateWeightIncrement *int32) *ExperimentBuilder {
	b.Spec.Strategy.Weights = &v2.WeightsConfig{
		MaxCandidateWeight:          maxCandidateWeight,
		MaxCandidateWeightIncrement: maxCandidateWeightIncrement,
	}
	return b
}

func (b *ExperimentBuilder) analysis() *v2.Analysis {
	if b.Status.Analysis == nil {
		b.Status.Analysis = &v2.Analysis{}
	}
	return b.Status.Analysis
}

// WithAggregatedMetric sets the value of metric for version
func (b *ExperimentBuilder) WithAggregatedMetric(metric, version string, value float64) *ExperimentBuilder {
	b.WithEmptyAggregatedMetric(metric)
	am := b.Status.Analysis.AggregatedMetrics.Data[metric]
	am.Data[version] = v2.AggregatedMetricData{Value: v2.NewQuantity(value)}
	return b
}

// WithEmptyAggregatedMetric adds a metric object without per-version data
func (b *ExperimentBuilder) WithEmptyAggregatedMetric(metric string) *ExperimentBuilder {
	a := b.analysis()
	if a.AggregatedMetrics == nil {
		a.AggregatedMetrics = &v2.AggregatedMetricsAnalysis{Data: map[string]v2.AggregatedMetric{}}
	}
	if _, ok := a.AggregatedMetrics.Data[metric]; !ok {
		a.AggregatedMetrics.Data[metric] = v2.AggregatedMetric{Data: map[string]v2.AggregatedMetricData{}}
	}
	return b
}

// WithVersionAssessment sets the objective outcomes of version
func (b *ExperimentBuilder) WithVersionAssessment(version string, outcomes ...bool) *ExperimentBuilder {
	a := b.analysis()
	if a.VersionAssessments == nil {
		a.VersionAssessments = &v2.VersionAssessmentAnalysis{Data: map[string][]bool{}}
	}
	a.VersionAssessments.Data[version] = outcomes
	return b
}

// WithBestVersions sets the winner assessment; a single best version is the winner
func (b *ExperimentBuilder) WithBestVersions(best ...string) *ExperimentBuilder {
	data := v2.WinnerAssessmentData{BestVersions: append([]string{}, best...)}
	if len(best) == 1 {
		data.WinnerFound = true
		data.Winner = &best[0]
	}
	b.analysis().WinnerAssessment = &v2.WinnerAssessmentAnalysis{Data: data}
	return b
}

// WithCurrentWeight appends to the current weight distribution
func (b *ExperimentBuilder) WithCurrentWeight(version string, value int32) *ExperimentBuilder {
	b.Status.CurrentWeightDistribution = append(b.Status.CurrentWeightDistribution,
		v2.VersionWeight{Name: version, Value: value})
	return b
}

// Int32 returns a pointer to v
func Int32(v int32) *int32 {
	return &v
}
