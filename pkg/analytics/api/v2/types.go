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
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// TestingPatternType identifies the kind of experiment being analyzed
type TestingPatternType string

const (
	// TestingPatternCanary compares a single candidate against the baseline
	TestingPatternCanary TestingPatternType = "Canary"

	// TestingPatternAB picks the better of baseline and one candidate by reward
	TestingPatternAB TestingPatternType = "A/B"

	// TestingPatternABN picks the best of baseline and several candidates by reward
	TestingPatternABN TestingPatternType = "A/B/N"

	// TestingPatternConformance validates a single version against objectives
	TestingPatternConformance TestingPatternType = "Conformance"

	// TestingPatternBlueGreen switches traffic from baseline to candidate
	TestingPatternBlueGreen TestingPatternType = "BlueGreen"

	// TestingPatternPerformance only characterizes versions
	TestingPatternPerformance TestingPatternType = "Performance"
)

// PreferredDirectionType indicates which reward values are better
type PreferredDirectionType string

const (
	// PreferredDirectionHigh means higher reward values are better
	PreferredDirectionHigh PreferredDirectionType = "High"

	// PreferredDirectionLow means lower reward values are better
	PreferredDirectionLow PreferredDirectionType = "Low"
)

// Experiment is the snapshot of an experiment resource handed to analytics
type Experiment struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   ExperimentSpec   `json:"spec"`
	Status ExperimentStatus `json:"status,omitempty"`
}

// ExperimentSpec describes the experiment configuration
type ExperimentSpec struct {
	// Strategy used by the experiment
	Strategy Strategy `json:"strategy"`

	// VersionInfo lists baseline and candidate versions
	VersionInfo VersionInfo `json:"versionInfo"`

	// Criteria used for assessing versions
	// +optional
	Criteria *Criteria `json:"criteria,omitempty"`
}

// Strategy contains the testing pattern and traffic constraints
type Strategy struct {
	// TestingPattern of the experiment
	TestingPattern TestingPatternType `json:"testingPattern" validate:"required,oneof=Canary A/B A/B/N Conformance BlueGreen Performance"`

	// Weights constrain how traffic may shift between iterations
	// +optional
	Weights *WeightsConfig `json:"weights,omitempty"`
}

// WeightsConfig limits the weight assigned to candidates
type WeightsConfig struct {
	// MaxCandidateWeight is the upper bound of a candidate's weight
	// +optional
	MaxCandidateWeight *int32 `json:"maxCandidateWeight,omitempty" validate:"omitempty,min=0,max=100"`

	// MaxCandidateWeightIncrement is the upper bound of a candidate's weight increase per iteration
	// +optional
	MaxCandidateWeightIncrement *int32 `json:"maxCandidateWeightIncrement,omitempty" validate:"omitempty,min=0,max=100"`
}

// VersionInfo lists the versions of an experiment
type VersionInfo struct {
	Baseline   VersionDetail   `json:"baseline"`
	Candidates []VersionDetail `json:"candidates,omitempty" validate:"dive"`
}

// VersionDetail describes a single version
type VersionDetail struct {
	Name string `json:"name" validate:"required"`

	// Variables are opaque to analytics; they are used by metric templates
	// +optional
	Variables []NamedValue `json:"variables,omitempty"`
}

// NamedValue is a name/value pair
type NamedValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Criteria holds objectives and an optional reward
type Criteria struct {
	// +optional
	Objectives []Objective `json:"objectives,omitempty" validate:"dive"`

	// +optional
	Reward *Reward `json:"reward,omitempty"`
}

// Objective bounds the value of a metric
type Objective struct {
	Metric string `json:"metric" validate:"required"`

	// +optional
	UpperLimit *resource.Quantity `json:"upperLimit,omitempty"`

	// +optional
	LowerLimit *resource.Quantity `json:"lowerLimit,omitempty"`
}

// Reward ranks feasible versions
type Reward struct {
	Metric string `json:"metric" validate:"required"`

	// +optional
	PreferredDirection *PreferredDirectionType `json:"preferredDirection,omitempty" validate:"omitempty,oneof=High Low"`
}

// ExperimentStatus carries the state analytics reads and writes
type ExperimentStatus struct {
	// StartTime of the experiment
	// +optional
	StartTime *metav1.Time `json:"startTime,omitempty"`

	// Analysis results, including the aggregated metrics provided by the caller
	// +optional
	Analysis *Analysis `json:"analysis,omitempty"`

	// CurrentWeightDistribution is the traffic split in effect
	// +optional
	CurrentWeightDistribution []VersionWeight `json:"currentWeightDistribution,omitempty" validate:"dive"`
}

// Analysis groups the output of every analytics stage
type Analysis struct {
	// +optional
	AggregatedMetrics *AggregatedMetricsAnalysis `json:"aggregatedMetrics,omitempty"`

	// +optional
	VersionAssessments *VersionAssessmentAnalysis `json:"versionAssessments,omitempty"`

	// +optional
	WinnerAssessment *WinnerAssessmentAnalysis `json:"winnerAssessment,omitempty"`

	// +optional
	Weights *WeightsAnalysis `json:"weights,omitempty"`
}

// AggregatedMetricsAnalysis maps metric names to per-version values
type AggregatedMetricsAnalysis struct {
	Data    map[string]AggregatedMetric `json:"data"`
	Message string                      `json:"message,omitempty"`
}

// AggregatedMetric holds the values of one metric across versions
type AggregatedMetric struct {
	// +optional
	Max *resource.Quantity `json:"max,omitempty"`

	// +optional
	Min *resource.Quantity `json:"min,omitempty"`

	// Data maps version names to values
	Data map[string]AggregatedMetricData `json:"data"`
}

// AggregatedMetricData is the value of a metric for one version
type AggregatedMetricData struct {
	// +optional
	Max *resource.Quantity `json:"max,omitempty"`

	// +optional
	Min *resource.Quantity `json:"min,omitempty"`

	// +optional
	Value *resource.Quantity `json:"value,omitempty"`

	// +optional
	SampleSize *int32 `json:"sampleSize,omitempty"`
}

// VersionAssessmentAnalysis maps version names to objective outcomes
type VersionAssessmentAnalysis struct {
	Data    map[string][]bool `json:"data"`
	Message string            `json:"message"`
}

// WinnerAssessmentAnalysis is the outcome of winner selection
type WinnerAssessmentAnalysis struct {
	Data    WinnerAssessmentData `json:"data"`
	Message string               `json:"message"`
}

// WinnerAssessmentData identifies the winner, if any
type WinnerAssessmentData struct {
	WinnerFound bool `json:"winnerFound"`

	// +optional
	Winner *string `json:"winner,omitempty"`

	// BestVersions holds every version tied for the best outcome
	BestVersions []string `json:"bestVersions"`
}

// WeightsAnalysis is the recommended traffic split
type WeightsAnalysis struct {
	Data    []VersionWeight `json:"data"`
	Message string          `json:"message"`
}

// VersionWeight is the traffic percentage of a version
type VersionWeight struct {
	Name  string `json:"name" validate:"required"`
	Value int32  `json:"value" validate:"min=0,max=100"`
}
