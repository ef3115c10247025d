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
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = validator.New()

// Validate checks that an experiment snapshot is well formed before analysis
func (e *Experiment) Validate() error {
	if err := validate.Struct(e); err != nil {
		return errors.Wrap(err, "invalid experiment")
	}

	candidates := len(e.Spec.VersionInfo.Candidates)
	switch e.Spec.Strategy.TestingPattern {
	case TestingPatternCanary, TestingPatternBlueGreen, TestingPatternAB:
		if candidates != 1 {
			return errors.Errorf("%s experiment requires exactly one candidate, got %d",
				e.Spec.Strategy.TestingPattern, candidates)
		}
	case TestingPatternABN:
		if candidates < 1 {
			return errors.Errorf("%s experiment requires at least one candidate", e.Spec.Strategy.TestingPattern)
		}
	case TestingPatternConformance:
		if candidates != 0 {
			return errors.Errorf("%s experiment cannot have candidates, got %d",
				e.Spec.Strategy.TestingPattern, candidates)
		}
	}

	seen := make(map[string]bool, candidates+1)
	for _, v := range e.Spec.GetVersions() {
		if seen[v] {
			return errors.Errorf("duplicate version name %q", v)
		}
		seen[v] = true
	}

	for _, w := range e.Status.CurrentWeightDistribution {
		if !seen[w.Name] {
			return errors.Errorf("current weight distribution refers to unknown version %q", w.Name)
		}
	}
	return nil
}
