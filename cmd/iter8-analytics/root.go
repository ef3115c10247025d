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
package main

import (
	"encoding/json"
	"io"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	"sigs.k8s.io/yaml"

	"github.com/iter8-tools/iter8-analytics/pkg/analytics"
	"github.com/iter8-tools/iter8-analytics/pkg/analytics/rounding"
	"github.com/iter8-tools/iter8-analytics/pkg/config"
	"github.com/iter8-tools/iter8-analytics/pkg/metrics"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

type rootOptions struct {
	configFile      string
	output          string
	seed            int64
	metricsTextfile string

	cfg      *config.Config
	registry *prometheus.Registry
	recorder *metrics.Recorder
}

// NewRootCmd returns the iter8-analytics command
func NewRootCmd() *cobra.Command {
	o := &rootOptions{}
	root := &cobra.Command{
		Use:          "iter8-analytics",
		Short:        "Assess versions, find winners and recommend traffic weights for iter8 experiments",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.complete(cmd)
		},
	}
	root.PersistentFlags().StringVar(&o.configFile, "config", "", "analytics config file path")
	root.PersistentFlags().StringVarP(&o.output, "output", "o", outputYAML, "output format, json or yaml")
	root.PersistentFlags().Int64Var(&o.seed, "seed", 0, "seed for weight rounding; a time based seed is used if unset")
	root.PersistentFlags().StringVar(&o.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics of the run to this file")

	root.AddCommand(newAnalyzeCmd(o))
	root.AddCommand(newVersionAssessmentsCmd(o))
	root.AddCommand(newWinnerAssessmentCmd(o))
	root.AddCommand(newWeightsCmd(o))
	root.AddCommand(newVirtualServiceCmd(o))
	return root
}

func (o *rootOptions) complete(cmd *cobra.Command) error {
	if o.output != outputJSON && o.output != outputYAML {
		return errors.Errorf("unsupported output format %q", o.output)
	}
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return err
	}
	o.cfg = cfg

	logger := zap.New(zap.Level(cfg.GetLogLevel()), zap.WriteTo(cmd.ErrOrStderr())).WithName("iter8-analytics")
	cmd.SetContext(logf.IntoContext(cmd.Context(), logger))

	o.registry = prometheus.NewRegistry()
	o.recorder = metrics.NewRecorder(o.registry)
	return nil
}

func (o *rootOptions) logger(cmd *cobra.Command) logr.Logger {
	return logf.FromContext(cmd.Context())
}

func (o *rootOptions) analyticsOptions(cmd *cobra.Command) analytics.Options {
	opts := analytics.Options{Weights: o.cfg.WeightsOptions(), Recorder: o.recorder}
	if cmd.Flags().Changed("seed") {
		opts.Weights.Source = rounding.NewSource(o.seed)
	}
	return opts
}

func (o *rootOptions) print(w io.Writer, objs ...interface{}) error {
	for i, obj := range objs {
		var b []byte
		var err error
		switch o.output {
		case outputJSON:
			b, err = json.MarshalIndent(obj, "", "  ")
			b = append(b, '\n')
		default:
			b, err = yaml.Marshal(obj)
			if i > 0 {
				b = append([]byte("---\n"), b...)
			}
		}
		if err != nil {
			return errors.Wrap(err, "cannot encode output")
		}
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

func (o *rootOptions) writeMetrics() error {
	if o.metricsTextfile == "" {
		return nil
	}
	if err := metrics.WriteToTextfile(o.metricsTextfile, o.registry); err != nil {
		return errors.Wrapf(err, "cannot write metrics to %s", o.metricsTextfile)
	}
	return nil
}

func requireFile(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return errors.Wrap(err, "expected exactly one experiment file")
	}
	return nil
}
