package service

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/OwenK944/discompress/internal/domain"
	"github.com/OwenK944/discompress/internal/infrastructure/logger"
	"github.com/OwenK944/discompress/internal/infrastructure/metrics"
	"github.com/OwenK944/discompress/internal/port"
)

// CompressService runs a job through admission, probing, planning and the
// size-targeting loop. It never deletes files; callers hand job.Files() to a
// Janitor once delivery is done.
type CompressService struct {
	queue      *AdmissionQueue
	inspector  port.MediaInspector
	compressor *Compressor
}

func NewCompressService(queue *AdmissionQueue, inspector port.MediaInspector, compressor *Compressor) *CompressService {
	return &CompressService{
		queue:      queue,
		inspector:  inspector,
		compressor: compressor,
	}
}

func (s *CompressService) QueueStats() QueueStats {
	return s.queue.Stats()
}

// Compress returns the path of the file to deliver. An output that is still
// over budget after the whole schedule is a success; only probe and encoder
// failures (or cancellation) are errors.
func (s *CompressService) Compress(ctx context.Context, job *domain.Job) (string, error) {
	var inputSize uint64
	if info, err := os.Stat(job.InputPath); err == nil {
		inputSize = uint64(info.Size())
	}
	logger.Info.Printf("job %s queued: name=%s size=%s", job.ID, logger.SanitizeForLog(job.RequestedName), humanize.IBytes(inputSize))

	queuedAt := time.Now()
	var final string

	err := s.queue.Run(ctx, func(ctx context.Context) error {
		logger.Info.Printf("job %s: got encode slot after %s", job.ID, time.Since(queuedAt).Round(time.Millisecond))
		job.Status = domain.JobStatusRunning

		start := time.Now()
		defer func() { metrics.JobDuration.Observe(time.Since(start).Seconds()) }()

		probe, err := s.inspector.Probe(ctx, job.InputPath)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !errors.Is(err, domain.ErrProbe) {
				err = &domain.ProbeError{Path: job.InputPath, Err: err}
			}
			return err
		}

		duration := probe.Duration()
		width, height := probe.Dimensions()
		initial := s.compressor.InitialVideoKbps(duration, job.TargetBytes)
		logger.Info.Printf("job %s: %dx%d, %.2fs, planned %dk video", job.ID, width, height, duration, initial)

		final, err = s.compressor.Run(ctx, job, initial)
		return err
	})
	if err != nil {
		s.fail(job, err)
		return "", err
	}

	job.MarkAsDone(final)
	if job.HitTarget() {
		metrics.JobsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
		logger.Info.Printf("job %s done after %d attempt(s)", job.ID, len(job.Attempts))
	} else {
		metrics.JobsTotal.WithLabelValues(metrics.ResultOverBudget).Inc()
		last := job.LastAttempt()
		logger.Warn.Printf("job %s: schedule exhausted, delivering %s over a %s budget",
			job.ID, humanize.IBytes(uint64(last.ResultBytes)), humanize.IBytes(uint64(job.TargetBytes)))
	}
	return final, nil
}

func (s *CompressService) fail(job *domain.Job, err error) {
	var encErr *domain.EncodeError

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		job.MarkAsCancelled(err)
		metrics.JobsTotal.WithLabelValues(metrics.ResultCanceled).Inc()
		logger.Info.Printf("job %s cancelled: %v", job.ID, err)
		return
	case errors.Is(err, domain.ErrProbe):
		metrics.JobsTotal.WithLabelValues(metrics.ResultProbeError).Inc()
		logger.Error.Printf("job %s: %v", job.ID, err)
	case errors.As(err, &encErr):
		metrics.JobsTotal.WithLabelValues(metrics.ResultEncodeError).Inc()
		logger.Error.Printf("job %s: %v", job.ID, err)
		if encErr.Diagnostic != "" {
			logger.Error.Printf("job %s: encoder output:\n%s", job.ID, encErr.Diagnostic)
		}
	default:
		metrics.JobsTotal.WithLabelValues(metrics.ResultEncodeError).Inc()
		logger.Error.Printf("job %s: %v", job.ID, err)
	}
	job.MarkAsFailed(err)
}
