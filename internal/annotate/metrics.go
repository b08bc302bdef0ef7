package annotate

import "time"

// Metrics receives annotation observations.
type Metrics interface {
	ObserveScan(duration time.Duration, replacements int)
	IncrementChip(kind string)
	IncrementFusion()
}

// NoOpMetrics returns a metrics recorder that drops every observation.
func NoOpMetrics() Metrics {
	return noopMetrics{}
}

type noopMetrics struct{}

func (noopMetrics) ObserveScan(time.Duration, int) {}

func (noopMetrics) IncrementChip(string) {}

func (noopMetrics) IncrementFusion() {}
