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

// Package assessment checks every version of an experiment against its objectives.
package assessment

import (
	v2 "github.com/iter8-tools/iter8-analytics/pkg/analytics/api/v2"
	"github.com/iter8-tools/iter8-analytics/pkg/analytics/message"
)

// GetVersionAssessments returns, for each version, whether it satisfies each objective.
// Missing data never fails the call; it leaves the objective unsatisfied and adds a warning.
func GetVersionAssessments(exp *v2.Experiment) *v2.VersionAssessmentAnalysis {
	var msgs message.Messages
	data := map[string][]bool{}

	if exp.Spec.Criteria == nil {
		return &v2.VersionAssessmentAnalysis{Data: data, Message: msgs.Join()}
	}

	versions := exp.Spec.GetVersions()
	objectives := exp.Spec.GetObjectives()
	for _, v := range versions {
		data[v] = make([]bool, len(objectives))
	}

	am := exp.Status.GetAggregatedMetrics()
	for i, obj := range objectives {
		if !am.HasMetric(obj.Metric) {
			msgs.Warningf("Aggregated metric object for %s metric is unavailable.", obj.Metric)
			continue
		}
		for _, v := range versions {
			value, ok := am.Value(obj.Metric, v)
			if !ok {
				msgs.Warningf("Value for %s metric and %s version is unavailable.", obj.Metric, v)
				continue
			}
			data[v][i] = CheckLimits(obj, value)
		}
	}

	return &v2.VersionAssessmentAnalysis{Data: data, Message: msgs.Join()}
}

// CheckLimits reports whether value lies within the objective's limits
func CheckLimits(obj v2.Objective, value float64) bool {
	if obj.UpperLimit != nil && value > obj.UpperLimit.AsApproximateFloat64() {
		return false
	}
	if obj.LowerLimit != nil && value < obj.LowerLimit.AsApproximateFloat64() {
		return false
	}
	return true
}

// Feasible reports whether a version satisfies every objective. With no objectives
// every version is feasible; a version without an assessment is not.
func Feasible(va *v2.VersionAssessmentAnalysis, objectives int, version string) bool {
	if objectives == 0 {
		return true
	}
	if va == nil {
		return false
	}
	outcomes, ok := va.Data[version]
	if !ok || len(outcomes) != objectives {
		return false
	}
	for _, satisfied := range outcomes {
		if !satisfied {
			return false
		}
	}
	return true
}
