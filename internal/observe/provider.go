package observe

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

// Provider is an in-process meter provider whose totals are written to the
// log when the process exits. podium has no metrics backend to push to.
type Provider struct {
	mp     *sdkmetric.MeterProvider
	reader *sdkmetric.ManualReader
	log    *zap.Logger
}

// InstallProvider creates a Provider and registers it as the global meter
// provider. It must run before the first call to DefaultMetrics.
func InstallProvider(log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(mp)
	return &Provider{mp: mp, reader: reader, log: log}
}

// Totals collects the current value of every counter.
func (p *Provider) Totals(ctx context.Context) (map[string]float64, error) {
	var rm metricdata.ResourceMetrics
	if err := p.reader.Collect(ctx, &rm); err != nil {
		return nil, err
	}
	out := map[string]float64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					out[m.Name] += float64(dp.Value)
				}
			case metricdata.Sum[float64]:
				for _, dp := range data.DataPoints {
					out[m.Name] += dp.Value
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					out[m.Name+".count"] += float64(dp.Count)
					out[m.Name+".sum"] += dp.Sum
				}
			}
		}
	}
	return out, nil
}

// Shutdown logs the totals and stops the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	totals, err := p.Totals(ctx)
	if err == nil && len(totals) > 0 {
		fields := make([]zap.Field, 0, len(totals))
		for name, v := range totals {
			fields = append(fields, zap.Float64(name, v))
		}
		p.log.Info("metrics", fields...)
	}
	return errors.Join(err, p.mp.Shutdown(ctx))
}
