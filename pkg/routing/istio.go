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

// Package routing renders recommended weights as Istio routing rules.
package routing

import (
	networkingv1alpha3 "istio.io/api/networking/v1alpha3"
	"istio.io/client-go/pkg/apis/networking/v1alpha3"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	v2 "github.com/iter8-tools/iter8-analytics/pkg/analytics/api/v2"
)

const (
	IstioRuleSuffix = ".iter8-experiment"
	ExperimentLabel = "iter8-tools/experiment"
	ExperimentHost  = "iter8-tools/host"
)

type DestinationRuleBuilder v1alpha3.DestinationRule
type VirtualServiceBuilder v1alpha3.VirtualService

func NewDestinationRule(host, experiment, namespace string) *DestinationRuleBuilder {
	dr := &v1alpha3.DestinationRule{
		TypeMeta: metav1.TypeMeta{
			APIVersion: v1alpha3.SchemeGroupVersion.String(),
			Kind:       "DestinationRule",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      host + "." + namespace + IstioRuleSuffix,
			Namespace: namespace,
			Labels: map[string]string{
				ExperimentLabel: experiment,
				ExperimentHost:  host,
			},
		},
		Spec: networkingv1alpha3.DestinationRule{
			Host:    host,
			Subsets: []*networkingv1alpha3.Subset{},
		},
	}

	return (*DestinationRuleBuilder)(dr)
}

// WithVersionSubsets adds one subset per version, selecting pods by the version's variables
func (b *DestinationRuleBuilder) WithVersionSubsets(exp *v2.Experiment) *DestinationRuleBuilder {
	details := append([]v2.VersionDetail{exp.Spec.VersionInfo.Baseline}, exp.Spec.VersionInfo.Candidates...)
	b.Spec.Subsets = make([]*networkingv1alpha3.Subset, 0, len(details))
	for _, d := range details {
		labels := make(map[string]string, len(d.Variables))
		for _, v := range d.Variables {
			labels[v.Name] = v.Value
		}
		b.Spec.Subsets = append(b.Spec.Subsets, &networkingv1alpha3.Subset{
			Name:   d.Name,
			Labels: labels,
		})
	}
	return b
}

func (b *DestinationRuleBuilder) Build() *v1alpha3.DestinationRule {
	return (*v1alpha3.DestinationRule)(b)
}

func NewVirtualService(host, experiment, namespace string) *VirtualServiceBuilder {
	vs := &v1alpha3.VirtualService{
		TypeMeta: metav1.TypeMeta{
			APIVersion: v1alpha3.SchemeGroupVersion.String(),
			Kind:       "VirtualService",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      host + "." + namespace + IstioRuleSuffix,
			Namespace: namespace,
			Labels: map[string]string{
				ExperimentLabel: experiment,
				ExperimentHost:  host,
			},
		},
		Spec: networkingv1alpha3.VirtualService{
			Hosts: []string{host},
		},
	}

	return (*VirtualServiceBuilder)(vs)
}

// WithWeights routes traffic to one subset per version with the recommended weights.
// Versions keep the order of the weights analysis.
func (b *VirtualServiceBuilder) WithWeights(host string, weights []v2.VersionWeight) *VirtualServiceBuilder {
	route := make([]*networkingv1alpha3.HTTPRouteDestination, 0, len(weights))
	for _, w := range weights {
		route = append(route, &networkingv1alpha3.HTTPRouteDestination{
			Destination: &networkingv1alpha3.Destination{
				Host:   host,
				Subset: w.Name,
			},
			Weight: w.Value,
		})
	}
	b.Spec.Http = []*networkingv1alpha3.HTTPRoute{{Route: route}}
	return b
}

func (b *VirtualServiceBuilder) Build() *v1alpha3.VirtualService {
	return (*v1alpha3.VirtualService)(b)
}
