package domain

import (
	"fmt"
	"math"
)

const (
	DefaultFloorTotalKbps = 200
	DefaultFloorVideoKbps = 64

	// bytesPerMiB converts the configured megabyte budget to bytes.
	bytesPerMiB = 1024 * 1024
)

// Schedule is the ordered list of multiplicative bitrate factors tried in sequence.
type Schedule []float64

var DefaultSchedule = Schedule{1.00, 0.82, 0.68, 0.56}

func (s Schedule) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidSchedule)
	}
	if s[0] != 1.0 {
		return fmt.Errorf("%w: first factor must be 1.0, got %v", ErrInvalidSchedule, s[0])
	}
	for i, f := range s {
		if math.IsNaN(f) || f <= 0 || f > 1 {
			return fmt.Errorf("%w: factor %d out of range: %v", ErrInvalidSchedule, i, f)
		}
		if i > 0 && f > s[i-1] {
			return fmt.Errorf("%w: factor %d (%v) exceeds previous (%v)", ErrInvalidSchedule, i, f, s[i-1])
		}
	}
	return nil
}

// Floors are the minimum bitrates the planner will ever ask the encoder for.
type Floors struct {
	TotalKbps int
	VideoKbps int
}

var DefaultFloors = Floors{TotalKbps: DefaultFloorTotalKbps, VideoKbps: DefaultFloorVideoKbps}

// TargetBytesFromMB converts a megabyte budget (MiB) to whole bytes.
func TargetBytesFromMB(mb float64) int64 {
	return int64(math.Floor(mb * bytesPerMiB))
}

// TotalKbps is the whole-stream bitrate that spreads targetBytes over the duration.
func TotalKbps(durationSeconds float64, targetBytes int64, floors Floors) int {
	d := EffectiveDuration(durationSeconds)
	kbps := int(math.Floor(float64(targetBytes) * 8 / d / 1000))
	return max(floors.TotalKbps, kbps)
}

// PlanVideoKbps returns the initial video bitrate for a job: the total budget
// minus the audio share, never below the video floor.
func PlanVideoKbps(durationSeconds float64, targetBytes int64, audioKbps int, floors Floors) int {
	total := TotalKbps(durationSeconds, targetBytes, floors)
	return max(floors.VideoKbps, total-audioKbps)
}

// VideoKbpsAt returns the video bitrate for schedule position index.
func (s Schedule) VideoKbpsAt(index, initialVideoKbps int, floors Floors) int {
	if index == 0 {
		return initialVideoKbps
	}
	return max(floors.VideoKbps, int(math.Floor(float64(initialVideoKbps)*s[index])))
}
