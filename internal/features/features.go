// Package features reads the feature gates an API server reports in its
// Prometheus metrics.
package features

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/tapcraft-io/rk/internal/show"
)

const (
	metricsPath = "/metrics"
	metricName  = "kubernetes_feature_enabled"
)

// RawGetter performs a GET against an absolute API path
type RawGetter interface {
	Raw(ctx context.Context, path string) ([]byte, error)
}

// Get fetches /metrics and extracts the feature gates
func Get(ctx context.Context, c RawGetter) ([]show.FeatureGate, error) {
	body, err := c.Raw(ctx, metricsPath)
	if err != nil {
		return nil, err
	}
	return Parse(bytes.NewReader(body))
}

// Parse extracts kubernetes_feature_enabled samples from text exposition
// format, sorted by name.
func Parse(r io.Reader) ([]show.FeatureGate, error) {
	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse metrics: %w", err)
	}

	family, ok := families[metricName]
	if !ok {
		return nil, nil
	}

	gates := make([]show.FeatureGate, 0, len(family.GetMetric()))
	for _, m := range family.GetMetric() {
		gate := show.FeatureGate{Enabled: value(m) == 1}
		for _, l := range m.GetLabel() {
			switch l.GetName() {
			case "name":
				gate.Name = l.GetValue()
			case "stage":
				gate.Stage = l.GetValue()
			}
		}
		if gate.Name == "" {
			continue
		}
		gates = append(gates, gate)
	}

	sort.Slice(gates, func(i, j int) bool { return gates[i].Name < gates[j].Name })
	return gates, nil
}

func value(m *dto.Metric) float64 {
	switch {
	case m.GetGauge() != nil:
		return m.GetGauge().GetValue()
	case m.GetCounter() != nil:
		return m.GetCounter().GetValue()
	default:
		return m.GetUntyped().GetValue()
	}
}
