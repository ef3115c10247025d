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
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/iter8-tools/iter8-analytics/pkg/analytics"
	v2 "github.com/iter8-tools/iter8-analytics/pkg/analytics/api/v2"
	"github.com/iter8-tools/iter8-analytics/pkg/routing"
)

func newAnalyzeCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <experiment-file>",
		Short: "Run version assessment, winner assessment and weight computation",
		Args:  requireFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := v2.ReadExperiment(args[0])
			if err != nil {
				return err
			}
			a, err := analytics.Analyze(o.logger(cmd), exp, o.analyticsOptions(cmd))
			if err != nil {
				return err
			}
			if err := o.print(cmd.OutOrStdout(), a); err != nil {
				return err
			}
			return o.writeMetrics()
		},
	}
}

func newVersionAssessmentsCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version-assessments <experiment-file>",
		Short: "Check every version against the objectives using the aggregated metrics",
		Args:  requireFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := v2.ReadExperiment(args[0])
			if err != nil {
				return err
			}
			va, err := analytics.VersionAssessments(o.logger(cmd), exp)
			if err != nil {
				return err
			}
			return o.print(cmd.OutOrStdout(), va)
		},
	}
}

func newWinnerAssessmentCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "winner-assessment <experiment-file>",
		Short: "Select the winner using the version assessments in the experiment status",
		Args:  requireFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := v2.ReadExperiment(args[0])
			if err != nil {
				return err
			}
			wa, err := analytics.WinnerAssessment(o.logger(cmd), exp)
			if err != nil {
				return err
			}
			return o.print(cmd.OutOrStdout(), wa)
		},
	}
}

func newWeightsCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "weights <experiment-file>",
		Short: "Recommend weights using the winner assessment in the experiment status",
		Args:  requireFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := v2.ReadExperiment(args[0])
			if err != nil {
				return err
			}
			w, err := analytics.Weights(o.logger(cmd), exp, o.analyticsOptions(cmd).Weights)
			if err != nil {
				return err
			}
			return o.print(cmd.OutOrStdout(), w)
		},
	}
}

func newVirtualServiceCmd(o *rootOptions) *cobra.Command {
	var host string
	cmd := &cobra.Command{
		Use:   "virtual-service <experiment-file>",
		Short: "Analyze an experiment and render its recommended weights as Istio routing rules",
		Args:  requireFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := v2.ReadExperiment(args[0])
			if err != nil {
				return err
			}
			if exp.Spec.Strategy.TestingPattern == v2.TestingPatternPerformance {
				return errors.Errorf("experiment %s is a performance test; no weights to route", exp.Name)
			}
			a, err := analytics.Analyze(o.logger(cmd), exp, o.analyticsOptions(cmd))
			if err != nil {
				return err
			}
			dr := routing.NewDestinationRule(host, exp.Name, exp.Namespace).
				WithVersionSubsets(exp).
				Build()
			vs := routing.NewVirtualService(host, exp.Name, exp.Namespace).
				WithWeights(host, a.Weights.Data).
				Build()
			if err := o.print(cmd.OutOrStdout(), dr, vs); err != nil {
				return err
			}
			return o.writeMetrics()
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "host of the service under experiment")
	_ = cmd.MarkFlagRequired("host")
	return cmd
}
