package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OwenK944/discompress/config"
	"github.com/OwenK944/discompress/internal/adapter/converter/ffmpeg"
	"github.com/OwenK944/discompress/internal/adapter/storage/workdir"
	"github.com/OwenK944/discompress/internal/infrastructure/logger"
	"github.com/OwenK944/discompress/internal/service"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "discompress",
		Short:         "Re-encode videos to fit under an upload size limit",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newCompressCmd())

	return root
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.SetLevel(cfg.LogLevel, nil)
	return cfg, nil
}

// pipeline is the compression stack shared by both commands.
type pipeline struct {
	dir         *workdir.Dir
	converter   *ffmpeg.Converter
	queue       *service.AdmissionQueue
	compressSvc *service.CompressService
}

func buildPipeline(cfg *config.Config) (*pipeline, error) {
	dir, err := workdir.Open(cfg.TmpDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open work directory: %w", err)
	}

	converter := ffmpeg.NewConverter(ffmpeg.Options{
		FFmpegPath:  cfg.FFmpegPath,
		FFprobePath: cfg.FFprobePath,
		Preset:      cfg.EncoderPreset,
		Threads:     cfg.EncoderThreads,
	})

	compressor, err := service.NewCompressor(converter, dir, service.CompressorSettings{
		AudioKbps: cfg.AudioBitrateKbps,
		MaxWidth:  cfg.MaxWidth,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure compressor: %w", err)
	}

	queue := service.NewAdmissionQueue(cfg.MaxConcurrentEncodes)

	return &pipeline{
		dir:         dir,
		converter:   converter,
		queue:       queue,
		compressSvc: service.NewCompressService(queue, converter, compressor),
	}, nil
}
