package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/OwenK944/discompress/internal/domain"
	"github.com/OwenK944/discompress/internal/infrastructure/logger"
	"github.com/OwenK944/discompress/internal/infrastructure/metrics"
	"github.com/OwenK944/discompress/internal/port"
)

// AttemptPaths hands out a fresh output location per attempt.
type AttemptPaths interface {
	AttemptPath(token string, index int) string
}

type CompressorSettings struct {
	AudioKbps int
	MaxWidth  int
	Schedule  domain.Schedule
	Floors    domain.Floors
}

// Compressor is the size-targeting loop. It re-encodes with a shrinking video
// bitrate until an output fits the job's budget or the schedule runs out.
type Compressor struct {
	encoder  port.MediaEncoder
	paths    AttemptPaths
	settings CompressorSettings
}

func NewCompressor(encoder port.MediaEncoder, paths AttemptPaths, settings CompressorSettings) (*Compressor, error) {
	if settings.Schedule == nil {
		settings.Schedule = domain.DefaultSchedule
	}
	if settings.Floors == (domain.Floors{}) {
		settings.Floors = domain.DefaultFloors
	}
	if err := settings.Schedule.Validate(); err != nil {
		return nil, err
	}
	if settings.AudioKbps <= 0 {
		return nil, fmt.Errorf("audio bitrate must be positive, got %d", settings.AudioKbps)
	}
	return &Compressor{encoder: encoder, paths: paths, settings: settings}, nil
}

// InitialVideoKbps plans the first attempt's video bitrate.
func (c *Compressor) InitialVideoKbps(durationSeconds float64, targetBytes int64) int {
	return domain.PlanVideoKbps(durationSeconds, targetBytes, c.settings.AudioKbps, c.settings.Floors)
}

// Run executes the schedule for job and returns the final output path.
//
// When no attempt fits the budget the last output is returned, not the
// smallest one observed. Superseded outputs stay on disk; they are part of
// job.Files() and are removed with the rest of the cleanup set.
func (c *Compressor) Run(ctx context.Context, job *domain.Job, initialVideoKbps int) (string, error) {
	var final string

	for i := range c.settings.Schedule {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("before attempt %d: %w", i, err)
		}

		attempt := job.AddAttempt(domain.Attempt{
			Index:      i,
			VideoKbps:  c.settings.Schedule.VideoKbpsAt(i, initialVideoKbps, c.settings.Floors),
			AudioKbps:  c.settings.AudioKbps,
			MaxWidth:   c.settings.MaxWidth,
			OutputPath: c.paths.AttemptPath(job.ID, i),
		})

		err := c.encoder.Encode(ctx, port.EncodeRequest{
			InputPath:  job.InputPath,
			OutputPath: attempt.OutputPath,
			VideoKbps:  attempt.VideoKbps,
			AudioKbps:  attempt.AudioKbps,
			MaxWidth:   attempt.MaxWidth,
		})
		if err != nil {
			metrics.AttemptsTotal.WithLabelValues(metrics.AttemptFailed).Inc()
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", fmt.Errorf("attempt %d: %w", i, ctxErr)
			}
			return "", attemptError(i, err)
		}

		info, err := os.Stat(attempt.OutputPath)
		if err != nil {
			metrics.AttemptsTotal.WithLabelValues(metrics.AttemptFailed).Inc()
			return "", &domain.EncodeError{Attempt: i, Err: fmt.Errorf("measure output: %w", err)}
		}
		attempt.ResultBytes = info.Size()
		attempt.Measured = true
		final = attempt.OutputPath

		fits := attempt.ResultBytes <= job.TargetBytes
		logger.Info.Printf("job %s: attempt %d at %dk video produced %s (target %s, fits=%t)",
			job.ID, i, attempt.VideoKbps,
			humanize.IBytes(uint64(attempt.ResultBytes)), humanize.IBytes(uint64(job.TargetBytes)), fits)

		if fits {
			metrics.AttemptsTotal.WithLabelValues(metrics.AttemptUnderTarget).Inc()
			break
		}
		metrics.AttemptsTotal.WithLabelValues(metrics.AttemptOverTarget).Inc()
	}

	return final, nil
}

func attemptError(index int, err error) error {
	var encErr *domain.EncodeError
	if errors.As(err, &encErr) {
		e := *encErr
		e.Attempt = index
		return &e
	}
	return &domain.EncodeError{Attempt: index, Err: err}
}
