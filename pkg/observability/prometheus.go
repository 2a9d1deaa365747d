package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusHooks records clone events as Prometheus metrics.
type PrometheusHooks struct {
	documents     *prometheus.CounterVec
	batches       *prometheus.CounterVec
	instances     prometheus.Counter
	omittedIDs    prometheus.Counter
	batchDuration prometheus.Histogram
	cloneDuration prometheus.Histogram
	ioDuration    *prometheus.HistogramVec
}

// NewPrometheusHooks creates hooks whose metrics are registered on reg.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	h := &PrometheusHooks{
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "domclone_documents_total",
			Help: "Documents read or written, by operation and outcome",
		}, []string{"op", "outcome"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "domclone_batches_total",
			Help: "Clone batches completed, by outcome",
		}, []string{"outcome"}),
		instances: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "domclone_instances_cloned_total",
			Help: "Instances written to destination documents",
		}),
		omittedIDs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "domclone_unique_ids_omitted_total",
			Help: "UniqueId properties dropped because regeneration failed",
		}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "domclone_batch_duration_seconds",
			Help:    "Time spent cloning one batch",
			Buckets: prometheus.DefBuckets,
		}),
		cloneDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "domclone_clone_duration_seconds",
			Help:    "Time spent cloning a whole document",
			Buckets: prometheus.DefBuckets,
		}),
		ioDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "domclone_io_duration_seconds",
			Help:    "Time spent decoding or encoding documents",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}
	reg.MustRegister(h.documents, h.batches, h.instances, h.omittedIDs,
		h.batchDuration, h.cloneDuration, h.ioDuration)
	return h
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// OnDecode records a document read.
func (h *PrometheusHooks) OnDecode(_ context.Context, _ string, _ int, d time.Duration, err error) {
	h.documents.WithLabelValues("decode", outcome(err)).Inc()
	h.ioDuration.WithLabelValues("decode").Observe(d.Seconds())
}

// OnEncode records a document write.
func (h *PrometheusHooks) OnEncode(_ context.Context, _ string, _ int, d time.Duration, err error) {
	h.documents.WithLabelValues("encode", outcome(err)).Inc()
	h.ioDuration.WithLabelValues("encode").Observe(d.Seconds())
}

// OnCloneStart is a no-op; totals are recorded on completion.
func (h *PrometheusHooks) OnCloneStart(context.Context, int, int) {}

// OnBatchComplete records one finished batch.
func (h *PrometheusHooks) OnBatchComplete(_ context.Context, _ int, _ int, d time.Duration, err error) {
	h.batches.WithLabelValues(outcome(err)).Inc()
	h.batchDuration.Observe(d.Seconds())
}

// OnCloneComplete records a finished clone.
func (h *PrometheusHooks) OnCloneComplete(_ context.Context, instances, omittedIDs int, d time.Duration, err error) {
	if err == nil {
		h.instances.Add(float64(instances))
		h.omittedIDs.Add(float64(omittedIDs))
	}
	h.cloneDuration.Observe(d.Seconds())
}

var _ CloneHooks = (*PrometheusHooks)(nil)
