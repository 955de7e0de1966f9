package kinship

import (
	"context"
	"time"

	"github.com/athapong/kinship/pkg/graph"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds concurrent resolutions in a family batch
const DefaultWorkers = 8

var (
	pipelineDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "kinship_pipeline_duration_seconds",
			Help: "Time spent labelling a whole family relative to a root",
		},
		[]string{"status"},
	)

	pipelineLabelsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kinship_pipeline_labels_total",
			Help: "Total number of labels produced by family batches",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(pipelineDuration)
	prometheus.MustRegister(pipelineLabelsTotal)
}

// FamilyLabels is the result of one family batch
type FamilyLabels struct {
	BatchID  string            `json:"batch_id"`
	RootID   string            `json:"root_id"`
	Labels   map[string]string `json:"labels"`
	Duration time.Duration     `json:"duration"`
}

// Pipeline labels every person of a snapshot relative to one root
type Pipeline struct {
	workers int
	logger  *logrus.Logger
}

// PipelineOption configures a Pipeline
type PipelineOption func(*Pipeline)

// WithWorkers sets the number of concurrent resolutions
func WithWorkers(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithPipelineLogger replaces the pipeline's logger
func WithPipelineLogger(logger *logrus.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline creates a new family pipeline
func NewPipeline(opts ...PipelineOption) *Pipeline {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	p := &Pipeline{
		workers: DefaultWorkers,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ResolveFamily labels everyone in snap relative to rootID. The snapshot is
// read-only, so workers share it without locking. Cancelling ctx stops the
// batch and returns the context error.
func (p *Pipeline) ResolveFamily(ctx context.Context, snap *Snapshot, rootID string) (*FamilyLabels, error) {
	if snap == nil {
		return nil, errors.New("cannot resolve family of nil snapshot")
	}
	if !snap.Index().Has(rootID) {
		return nil, errors.Wrapf(graph.ErrPersonNotFound, "root %q", rootID)
	}

	people := snap.Index().People()
	batchID := uuid.New().String()
	logger := p.logger.WithFields(logrus.Fields{
		"batch_id": batchID,
		"root_id":  rootID,
		"people":   len(people),
	})
	logger.Info("Starting family resolution")

	start := time.Now()
	timer := prometheus.NewTimer(pipelineDuration.WithLabelValues("family"))
	defer timer.ObserveDuration()

	labels := make([]string, len(people))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, person := range people {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			labels[i] = snap.Resolve(person.ID, rootID)
			pipelineLabelsTotal.WithLabelValues("success").Inc()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		pipelineLabelsTotal.WithLabelValues("cancelled").Inc()
		logger.WithError(err).Error("Family resolution aborted")
		return nil, errors.Wrap(err, "family resolution failed")
	}

	out := &FamilyLabels{
		BatchID:  batchID,
		RootID:   rootID,
		Labels:   make(map[string]string, len(people)),
		Duration: time.Since(start),
	}
	for i, person := range people {
		out.Labels[person.ID] = labels[i]
	}

	logger.WithField("duration", out.Duration).Info("Family resolution completed")
	return out, nil
}
