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
	v2 "github.com/iter8-tools/iter8-analytics/pkg/analytics/api/v2"
)

const (
	// MeanLatency is the objective metric of the sample experiments
	MeanLatency = "mean-latency"

	// RequestCount is an auxiliary metric of the sample experiments
	RequestCount = "request-count"

	// BusinessRevenue is the reward metric of the sample A/B/N experiment
	BusinessRevenue = "business-revenue"
)

// NewCanaryExperiment returns a canary experiment whose aggregated metrics are
// available; the baseline satisfies the latency objective and the candidate does not.
func NewCanaryExperiment(name, namespace string) *ExperimentBuilder {
	return NewExperiment(name, namespace).
		WithTestingPattern(v2.TestingPatternCanary).
		WithVersions("default", "canary").
		WithUpperLimit(MeanLatency, 420).
		WithAggregatedMetric(RequestCount, "default", 148.0405378277749).
		WithAggregatedMetric(RequestCount, "canary", 143.03538837774244).
		WithAggregatedMetric(MeanLatency, "default", 419.2027282381035).
		WithAggregatedMetric(MeanLatency, "canary", 426.9510489510489)
}

// NewABNExperiment returns an A/B/N experiment with three feasible versions
// where canary1 has the highest revenue.
func NewABNExperiment(name, namespace string) *ExperimentBuilder {
	return NewExperiment(name, namespace).
		WithTestingPattern(v2.TestingPatternABN).
		WithVersions("default", "canary1", "canary2").
		WithUpperLimit(MeanLatency, 420).
		WithReward(BusinessRevenue, v2.PreferredDirectionHigh).
		WithAggregatedMetric(RequestCount, "default", 148.0405378277749).
		WithAggregatedMetric(RequestCount, "canary1", 143.03538837774244).
		WithAggregatedMetric(RequestCount, "canary2", 145.03478732974244).
		WithAggregatedMetric(MeanLatency, "default", 419.2027282381035).
		WithAggregatedMetric(MeanLatency, "canary1", 412.9510489510489).
		WithAggregatedMetric(MeanLatency, "canary2", 415.9573489510489).
		WithAggregatedMetric(BusinessRevenue, "default", 323.32).
		WithAggregatedMetric(BusinessRevenue, "canary1", 3343.2343).
		WithAggregatedMetric(BusinessRevenue, "canary2", 2326.2343)
}
