package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/OwenK944/discompress/internal/domain"
)

type Config struct {
	Port                 int
	TargetSizeMB         float64
	AudioBitrateKbps     int
	MaxWidth             int
	MaxUploadSizeMB      int
	MaxConcurrentEncodes int
	TmpDir               string
	AllowedOrigin        string
	CleanupDelay         time.Duration
	EncoderThreads       int
	EncoderPreset        string
	FFmpegPath           string
	FFprobePath          string
	MetricsAddr          string
	LogLevel             string
	// UploadsPerMinute caps uploads per client IP; 0 disables the limit.
	UploadsPerMinute int
}

func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "3000"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("invalid PORT: %d out of range", port)
	}

	targetSizeMB, err := strconv.ParseFloat(getEnv("TARGET_SIZE_MB", "9.8"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TARGET_SIZE_MB: %w", err)
	}
	if math.IsNaN(targetSizeMB) || math.IsInf(targetSizeMB, 0) || domain.TargetBytesFromMB(targetSizeMB) <= 0 {
		return nil, fmt.Errorf("invalid TARGET_SIZE_MB: must be positive, got %v", targetSizeMB)
	}

	audioKbps, err := positiveInt("AUDIO_BITRATE_KBPS", "96")
	if err != nil {
		return nil, err
	}

	maxWidth, err := positiveInt("MAX_WIDTH", "1280")
	if err != nil {
		return nil, err
	}

	maxUploadSizeMB, err := positiveInt("MAX_UPLOAD_SIZE_MB", "300")
	if err != nil {
		return nil, err
	}

	maxConcurrent, err := positiveInt("MAX_CONCURRENT_ENCODES", "1")
	if err != nil {
		return nil, err
	}

	cleanupDelay, err := time.ParseDuration(getEnv("CLEANUP_DELAY", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLEANUP_DELAY: %w", err)
	}
	if cleanupDelay < 0 {
		return nil, fmt.Errorf("invalid CLEANUP_DELAY: must not be negative")
	}

	threads, err := strconv.Atoi(getEnv("ENCODER_THREADS", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid ENCODER_THREADS: %w", err)
	}
	if threads < 0 {
		return nil, fmt.Errorf("invalid ENCODER_THREADS: must not be negative")
	}

	uploadsPerMinute, err := strconv.Atoi(getEnv("UPLOADS_PER_MINUTE", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid UPLOADS_PER_MINUTE: %w", err)
	}
	if uploadsPerMinute < 0 {
		return nil, fmt.Errorf("invalid UPLOADS_PER_MINUTE: must not be negative")
	}

	return &Config{
		Port:                 port,
		TargetSizeMB:         targetSizeMB,
		AudioBitrateKbps:     audioKbps,
		MaxWidth:             maxWidth,
		MaxUploadSizeMB:      maxUploadSizeMB,
		MaxConcurrentEncodes: maxConcurrent,
		TmpDir:               getEnv("TMP_DIR", filepath.Join(os.TempDir(), "discompress")),
		AllowedOrigin:        os.Getenv("ALLOWED_ORIGIN"),
		CleanupDelay:         cleanupDelay,
		EncoderThreads:       threads,
		EncoderPreset:        getEnv("ENCODER_PRESET", "veryfast"),
		FFmpegPath:           getEnv("FFMPEG_PATH", "ffmpeg"),
		FFprobePath:          getEnv("FFPROBE_PATH", "ffprobe"),
		MetricsAddr:          os.Getenv("METRICS_ADDR"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		UploadsPerMinute:     uploadsPerMinute,
	}, nil
}

// TargetBytes is the output budget in bytes.
func (c *Config) TargetBytes() int64 {
	return domain.TargetBytesFromMB(c.TargetSizeMB)
}

// MaxUploadBytes is the multipart body cap in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadSizeMB) << 20
}

func positiveInt(key, defaultValue string) (int, error) {
	v, err := strconv.Atoi(getEnv(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if v < 1 {
		return 0, fmt.Errorf("invalid %s: must be at least 1, got %d", key, v)
	}
	return v, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
