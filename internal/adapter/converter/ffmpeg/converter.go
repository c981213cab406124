package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/OwenK944/discompress/internal/domain"
	"github.com/OwenK944/discompress/internal/port"
)

var (
	ErrEmptyPath     = errors.New("path is empty")
	ErrInvalidPath   = errors.New("path contains null byte")
	ErrNoVideoStream = errors.New("no video stream found")
)

const (
	// maxrate is 115% of the target video bitrate, bufsize twice the target.
	maxratePercent = 115
	bufsizeFactor  = 2

	diagnosticLines = 20
	partialSuffix   = ".partial"
)

type Options struct {
	FFmpegPath  string
	FFprobePath string
	Preset      string
	// Threads pins the encoder's worker threads; 0 lets ffmpeg decide.
	Threads int
}

func DefaultOptions() Options {
	return Options{
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		Preset:      "veryfast",
		Threads:     1,
	}
}

type Converter struct {
	opts Options
}

func NewConverter(opts Options) *Converter {
	defaults := DefaultOptions()
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = defaults.FFmpegPath
	}
	if opts.FFprobePath == "" {
		opts.FFprobePath = defaults.FFprobePath
	}
	if opts.Preset == "" {
		opts.Preset = defaults.Preset
	}
	if opts.Threads < 0 {
		opts.Threads = 0
	}
	return &Converter{opts: opts}
}

// CheckTools reports whether both binaries can be found on PATH.
func (c *Converter) CheckTools() error {
	for _, bin := range []string{c.opts.FFmpegPath, c.opts.FFprobePath} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("%s not available: %w", bin, err)
		}
	}
	return nil
}

func validatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if strings.ContainsRune(path, 0) {
		return ErrInvalidPath
	}
	return nil
}

func (c *Converter) Probe(ctx context.Context, inputPath string) (*domain.ProbeResult, error) {
	if err := validatePath(inputPath); err != nil {
		return nil, &domain.ProbeError{Path: inputPath, Err: fmt.Errorf("invalid input path: %w", err)}
	}

	args := []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		inputPath,
	}
	cmd := exec.CommandContext(ctx, c.opts.FFprobePath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &domain.ProbeError{Path: inputPath, Err: fmt.Errorf("ffprobe failed: %w: %s", err, tail(stderr.String(), 3))}
	}

	return parseProbe(inputPath, stdout.Bytes())
}

func parseProbe(inputPath string, output []byte) (*domain.ProbeResult, error) {
	var result domain.ProbeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, &domain.ProbeError{Path: inputPath, Err: fmt.Errorf("failed to parse ffprobe output: %w", err)}
	}
	if result.VideoStream() == nil {
		return nil, &domain.ProbeError{Path: inputPath, Err: ErrNoVideoStream}
	}
	return &result, nil
}

// Encode writes to a partial file and renames it into place only after ffmpeg
// exits cleanly, so a failed run never leaves a measurable output behind.
func (c *Converter) Encode(ctx context.Context, req port.EncodeRequest) error {
	if err := validatePath(req.InputPath); err != nil {
		return fmt.Errorf("invalid input path: %w", err)
	}
	if err := validatePath(req.OutputPath); err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	if req.VideoKbps <= 0 || req.AudioKbps <= 0 {
		return fmt.Errorf("invalid bitrate: video=%dk audio=%dk", req.VideoKbps, req.AudioKbps)
	}

	partial := req.OutputPath + partialSuffix
	cmd := exec.CommandContext(ctx, c.opts.FFmpegPath, c.encodeArgs(req, partial)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		_ = os.Remove(partial)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &domain.EncodeError{
			Err:        fmt.Errorf("ffmpeg failed: %w", err),
			Diagnostic: tail(stderr.String(), diagnosticLines),
		}
	}

	if err := os.Rename(partial, req.OutputPath); err != nil {
		_ = os.Remove(partial)
		return &domain.EncodeError{Err: fmt.Errorf("finalize output: %w", err)}
	}
	return nil
}

func (c *Converter) encodeArgs(req port.EncodeRequest, outputPath string) []string {
	maxrate := req.VideoKbps * maxratePercent / 100
	bufsize := req.VideoKbps * bufsizeFactor

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-i", req.InputPath,
		"-map", "0:v:0",
		"-map", "0:a:0?",
		"-vf", scaleFilter(req.MaxWidth),
		"-c:v", "libx264",
		"-preset", c.opts.Preset,
		"-profile:v", "high",
		"-level:v", "4.1",
		"-pix_fmt", "yuv420p",
		"-b:v", fmt.Sprintf("%dk", req.VideoKbps),
		"-maxrate", fmt.Sprintf("%dk", maxrate),
		"-bufsize", fmt.Sprintf("%dk", bufsize),
		"-c:a", "aac",
		"-b:a", fmt.Sprintf("%dk", req.AudioKbps),
		"-movflags", "+faststart",
	}
	if c.opts.Threads > 0 {
		args = append(args, "-threads", fmt.Sprintf("%d", c.opts.Threads))
	}
	args = append(args, "-f", "mp4", outputPath)
	return args
}

// scaleFilter caps the width at maxWidth without upscaling and keeps both
// dimensions even.
func scaleFilter(maxWidth int) string {
	if maxWidth <= 0 {
		return "scale='trunc(iw/2)*2':-2,format=yuv420p"
	}
	return fmt.Sprintf("scale='trunc(min(%d,iw)/2)*2':-2,format=yuv420p", maxWidth)
}

func tail(s string, lines int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	parts := strings.Split(s, "\n")
	if len(parts) > lines {
		parts = parts[len(parts)-lines:]
	}
	return strings.Join(parts, "\n")
}

var (
	_ port.MediaInspector = (*Converter)(nil)
	_ port.MediaEncoder   = (*Converter)(nil)
)
