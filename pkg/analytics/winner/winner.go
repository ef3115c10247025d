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

// Package winner decides which version of an experiment, if any, is the winner.
package winner

import (
	"math"

	v2 "github.com/iter8-tools/iter8-analytics/pkg/analytics/api/v2"
	"github.com/iter8-tools/iter8-analytics/pkg/analytics/assessment"
	"github.com/iter8-tools/iter8-analytics/pkg/analytics/message"
)

// GetWinnerAssessment selects the winner using the rule of the experiment's testing pattern.
// It reads version assessments from the experiment status.
func GetWinnerAssessment(exp *v2.Experiment) *v2.WinnerAssessmentAnalysis {
	var msgs message.Messages
	var data v2.WinnerAssessmentData

	switch p := exp.Spec.Strategy.TestingPattern; p {
	case v2.TestingPatternPerformance:
		msgs.Errorf("performance tests cannot have winner assessments")
		data = noWinner()
	case v2.TestingPatternCanary, v2.TestingPatternBlueGreen, v2.TestingPatternConformance:
		data = byFeasibility(exp, &msgs)
	case v2.TestingPatternAB, v2.TestingPatternABN:
		data = byReward(exp, &msgs)
	default:
		msgs.Errorf("unsupported testing pattern %s", p)
		data = noWinner()
	}

	return &v2.WinnerAssessmentAnalysis{Data: data, Message: msgs.Join()}
}

func noWinner() v2.WinnerAssessmentData {
	return v2.WinnerAssessmentData{BestVersions: []string{}}
}

func uniqueWinner(version string) v2.WinnerAssessmentData {
	return v2.WinnerAssessmentData{
		WinnerFound:  true,
		Winner:       &version,
		BestVersions: []string{version},
	}
}

// feasibleVersions returns the versions satisfying every objective, baseline first
func feasibleVersions(exp *v2.Experiment) []string {
	va := exp.Status.GetVersionAssessments()
	objectives := len(exp.Spec.GetObjectives())
	feasible := []string{}
	for _, v := range exp.Spec.GetVersions() {
		if assessment.Feasible(va, objectives, v) {
			feasible = append(feasible, v)
		}
	}
	return feasible
}

// byFeasibility prefers a feasible candidate, then a feasible baseline
func byFeasibility(exp *v2.Experiment, msgs *message.Messages) v2.WinnerAssessmentData {
	va := exp.Status.GetVersionAssessments()
	objectives := len(exp.Spec.GetObjectives())
	baseline := exp.Spec.VersionInfo.Baseline.Name

	if len(exp.Spec.VersionInfo.Candidates) > 0 {
		candidate := exp.Spec.VersionInfo.Candidates[0].Name
		if assessment.Feasible(va, objectives, candidate) {
			msgs.Infof("candidate satisfies all objectives")
			return uniqueWinner(candidate)
		}
		if assessment.Feasible(va, objectives, baseline) {
			msgs.Infof("baseline satisfies all objectives; candidate does not")
			return uniqueWinner(baseline)
		}
	} else if assessment.Feasible(va, objectives, baseline) {
		msgs.Infof("baseline satisfies all objectives")
		return uniqueWinner(baseline)
	}

	msgs.Infof("no version satisfies all objectives")
	return noWinner()
}

// byReward picks the feasible version with the best reward; ties produce no winner
func byReward(exp *v2.Experiment, msgs *message.Messages) v2.WinnerAssessmentData {
	reward := exp.Spec.GetReward()
	if reward == nil {
		msgs.Warningf("No reward metric in experiment; winner assessment cannot be computed for ab/abn experiments without reward metric")
		return noWinner()
	}

	var better func(a, b float64) bool
	top := 0.0
	switch d := reward.GetPreferredDirection(); d {
	case v2.PreferredDirectionHigh:
		better = func(a, b float64) bool { return a > b }
		top = math.Inf(-1)
	case v2.PreferredDirectionLow:
		better = func(a, b float64) bool { return a < b }
		top = math.Inf(1)
	case "":
		msgs.Errorf("preferred direction of reward metric %s is not set", reward.Metric)
		return noWinner()
	default:
		msgs.Errorf("invalid preferred direction %s for reward metric %s", d, reward.Metric)
		return noWinner()
	}

	feasible := feasibleVersions(exp)
	if len(feasible) == 0 {
		msgs.Infof("no version satisfies all objectives")
	}

	am := exp.Status.GetAggregatedMetrics()
	if !am.HasMetric(reward.Metric) {
		msgs.Warningf("reward metric values are not available")
		return noWinner()
	}

	best := []string{}
	for _, v := range feasible {
		r, ok := am.Value(reward.Metric, v)
		if !ok {
			msgs.Warningf("reward value for feasible version %s is not available", v)
			continue
		}
		switch {
		case r == top:
			best = append(best, v)
		case better(r, top):
			best = []string{v}
			top = r
		}
	}

	switch {
	case len(best) == 1:
		msgs.Infof("found unique winner")
		return uniqueWinner(best[0])
	case len(best) > 1:
		msgs.Infof("no unique winner; two or more feasible versions with same reward value")
		return v2.WinnerAssessmentData{BestVersions: best}
	}
	return noWinner()
}
