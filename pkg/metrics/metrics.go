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

// Package metrics exports analytics outcomes as Prometheus metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	v2 "github.com/iter8-tools/iter8-analytics/pkg/analytics/api/v2"
)

const namespace = "iter8_analytics"

// Recorder records the outcome of analyses
type Recorder struct {
	AnalysesTotal       *prometheus.CounterVec
	WinnerFoundTotal    *prometheus.CounterVec
	ObjectivesSatisfied *prometheus.GaugeVec
	VersionWeight       *prometheus.GaugeVec
}

// NewRecorder creates a recorder whose collectors are registered with reg
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		AnalysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Total number of experiment analyses by testing pattern",
		}, []string{"testing_pattern"}),
		WinnerFoundTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "winner_assessments_total",
			Help:      "Total number of winner assessments by testing pattern and outcome",
		}, []string{"testing_pattern", "winner_found"}),
		ObjectivesSatisfied: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "objectives_satisfied",
			Help:      "Number of objectives satisfied by a version in the latest analysis",
		}, []string{"experiment", "version"}),
		VersionWeight: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "version_weight",
			Help:      "Recommended traffic percentage of a version in the latest analysis",
		}, []string{"experiment", "version"}),
	}
}

// Observe records an analysis of exp
func (r *Recorder) Observe(exp *v2.Experiment, analysis *v2.Analysis) {
	if r == nil || analysis == nil {
		return
	}
	pattern := string(exp.Spec.Strategy.TestingPattern)
	name := exp.Name
	r.AnalysesTotal.WithLabelValues(pattern).Inc()

	if va := analysis.VersionAssessments; va != nil {
		for version, outcomes := range va.Data {
			satisfied := 0
			for _, ok := range outcomes {
				if ok {
					satisfied++
				}
			}
			r.ObjectivesSatisfied.WithLabelValues(name, version).Set(float64(satisfied))
		}
	}

	if wa := analysis.WinnerAssessment; wa != nil {
		r.WinnerFoundTotal.WithLabelValues(pattern, strconv.FormatBool(wa.Data.WinnerFound)).Inc()
	}

	if w := analysis.Weights; w != nil {
		for _, vw := range w.Data {
			r.VersionWeight.WithLabelValues(name, vw.Name).Set(float64(vw.Value))
		}
	}
}

// WriteToTextfile gathers g and writes it in the text exposition format to path
func WriteToTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
