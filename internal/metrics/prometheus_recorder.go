package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "mvdocs"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	buildDuration  *prom.HistogramVec
	buildOutcome   *prom.CounterVec
	documents      *prom.CounterVec
	linksRewritten prom.Counter
	hooks          *prom.CounterVec
	bytesWritten   prom.Counter
}

// NewPrometheusRecorder constructs and registers the build metrics on reg.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		buildDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Duration of a single version build",
			Buckets:   prom.DefBuckets,
		}, []string{"version"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by version and final status",
		}, []string{"version", "outcome"}),
		documents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Source documents processed by parser",
		}, []string{"parser"}),
		linksRewritten: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "links_rewritten_total",
			Help:      "Markdown link destinations rewritten by the link normalizer",
		}),
		hooks: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "hook_invocations_total",
			Help:      "Extension hook invocations by hook and result",
		}, []string{"hook", "result"}),
		bytesWritten: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "output_bytes_written_total",
			Help:      "Bytes written to the output tree",
		}),
	}
	reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.documents, pr.linksRewritten, pr.hooks, pr.bytesWritten)
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(version string, d time.Duration) {
	p.buildDuration.WithLabelValues(version).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(version string, outcome Outcome) {
	p.buildOutcome.WithLabelValues(version, string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncDocuments(parser string) {
	p.documents.WithLabelValues(parser).Inc()
}

func (p *PrometheusRecorder) AddLinksRewritten(n int) {
	if n > 0 {
		p.linksRewritten.Add(float64(n))
	}
}

func (p *PrometheusRecorder) IncHook(hook string, success bool) {
	res := "failed"
	if success {
		res = "success"
	}
	p.hooks.WithLabelValues(hook, res).Inc()
}

func (p *PrometheusRecorder) AddBytesWritten(n int) {
	if n > 0 {
		p.bytesWritten.Add(float64(n))
	}
}
