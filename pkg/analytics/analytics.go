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

// Package analytics runs version assessment, winner assessment and weight
// computation over an experiment snapshot.
package analytics

import (
	"github.com/go-logr/logr"

	v2 "github.com/iter8-tools/iter8-analytics/pkg/analytics/api/v2"
	"github.com/iter8-tools/iter8-analytics/pkg/analytics/assessment"
	"github.com/iter8-tools/iter8-analytics/pkg/analytics/weights"
	"github.com/iter8-tools/iter8-analytics/pkg/analytics/winner"
	"github.com/iter8-tools/iter8-analytics/pkg/metrics"
)

// Options configure an analysis
type Options struct {
	Weights weights.Options

	// Recorder receives the outcome of full analyses; may be nil
	Recorder *metrics.Recorder
}

// Analyze runs every stage in order, each stage reading the results of the previous one.
// The input experiment is not modified.
func Analyze(log logr.Logger, exp *v2.Experiment, opts Options) (*v2.Analysis, error) {
	log = withExperiment(log, exp)
	if err := exp.Validate(); err != nil {
		log.Error(err, "experiment rejected")
		return nil, err
	}

	working := withOwnAnalysis(exp)
	a := working.Status.Analysis
	a.VersionAssessments = versionAssessments(log, working)
	a.WinnerAssessment = winnerAssessment(log, working)
	a.Weights = computeWeights(log, working, opts.Weights)

	opts.Recorder.Observe(exp, a)
	return a, nil
}

// VersionAssessments runs version assessment alone
func VersionAssessments(log logr.Logger, exp *v2.Experiment) (*v2.VersionAssessmentAnalysis, error) {
	log = withExperiment(log, exp)
	if err := exp.Validate(); err != nil {
		log.Error(err, "experiment rejected")
		return nil, err
	}
	return versionAssessments(log, exp), nil
}

// WinnerAssessment runs winner assessment alone, using the version assessments in the experiment status
func WinnerAssessment(log logr.Logger, exp *v2.Experiment) (*v2.WinnerAssessmentAnalysis, error) {
	log = withExperiment(log, exp)
	if err := exp.Validate(); err != nil {
		log.Error(err, "experiment rejected")
		return nil, err
	}
	return winnerAssessment(log, exp), nil
}

// Weights runs weight computation alone, using the winner assessment in the experiment status
func Weights(log logr.Logger, exp *v2.Experiment, opts weights.Options) (*v2.WeightsAnalysis, error) {
	log = withExperiment(log, exp)
	if err := exp.Validate(); err != nil {
		log.Error(err, "experiment rejected")
		return nil, err
	}
	return computeWeights(log, exp, opts), nil
}

func withExperiment(log logr.Logger, exp *v2.Experiment) logr.Logger {
	return log.WithValues("experiment", exp.Name, "namespace", exp.Namespace,
		"testingPattern", exp.Spec.Strategy.TestingPattern)
}

// withOwnAnalysis returns a shallow copy of exp whose analysis can be written freely
func withOwnAnalysis(exp *v2.Experiment) *v2.Experiment {
	working := *exp
	a := &v2.Analysis{}
	if exp.Status.Analysis != nil {
		*a = *exp.Status.Analysis
	}
	working.Status.Analysis = a
	return &working
}

func versionAssessments(log logr.Logger, exp *v2.Experiment) *v2.VersionAssessmentAnalysis {
	va := assessment.GetVersionAssessments(exp)
	log.V(1).Info("version assessments", "data", va.Data, "message", va.Message)
	return va
}

func winnerAssessment(log logr.Logger, exp *v2.Experiment) *v2.WinnerAssessmentAnalysis {
	wa := winner.GetWinnerAssessment(exp)
	winnerName := ""
	if wa.Data.Winner != nil {
		winnerName = *wa.Data.Winner
	}
	log.Info("winner assessment", "winnerFound", wa.Data.WinnerFound, "winner", winnerName,
		"bestVersions", wa.Data.BestVersions, "message", wa.Message)
	return wa
}

func computeWeights(log logr.Logger, exp *v2.Experiment, opts weights.Options) *v2.WeightsAnalysis {
	w := weights.GetWeights(exp, opts)
	log.Info("weights", "data", w.Data, "message", w.Message)
	return w
}
