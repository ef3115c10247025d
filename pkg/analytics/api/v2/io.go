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
	"io"
	"os"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// ReadExperiment reads an experiment snapshot in YAML or JSON form from a file
func ReadExperiment(path string) (*Experiment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open experiment file %s", path)
	}
	defer f.Close()

	exp, err := DecodeExperiment(f)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read experiment file %s", path)
	}
	return exp, nil
}

// DecodeExperiment decodes an experiment snapshot in YAML or JSON form
func DecodeExperiment(r io.Reader) (*Experiment, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read failed")
	}
	exp := &Experiment{}
	if err := yaml.Unmarshal(b, exp); err != nil {
		return nil, errors.Wrap(err, "decode failed")
	}
	return exp, nil
}
