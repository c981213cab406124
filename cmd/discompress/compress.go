package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/OwenK944/discompress/internal/adapter/http/validation"
	"github.com/OwenK944/discompress/internal/domain"
	"github.com/OwenK944/discompress/internal/service"
)

func newCompressCmd() *cobra.Command {
	var output string
	var targetMB float64

	cmd := &cobra.Command{
		Use:   "compress <input>",
		Short: "Compress a local file with the same pipeline the service uses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("target-mb") {
				if math.IsNaN(targetMB) || math.IsInf(targetMB, 0) || domain.TargetBytesFromMB(targetMB) <= 0 {
					return fmt.Errorf("--target-mb must be positive")
				}
				cfg.TargetSizeMB = targetMB
			}

			input, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve input: %w", err)
			}
			if _, err := os.Stat(input); err != nil {
				return fmt.Errorf("input: %w", err)
			}
			if output == "" {
				output = defaultOutputPath(input)
			}

			p, err := buildPipeline(cfg)
			if err != nil {
				return err
			}

			name := validation.SanitizeName(filepath.Base(input))
			job := domain.NewJob(domain.NewJobID(), input, name, cfg.TargetBytes())

			// The input belongs to the caller; only attempt outputs are ours to delete.
			janitor := service.NewJanitor(p.dir, 0)
			defer func() { janitor.Schedule(attemptPaths(job)) }()

			final, err := p.compressSvc.Compress(cmd.Context(), job)
			printAttempts(cmd.OutOrStdout(), job)
			if err != nil {
				return fmt.Errorf("compression failed: %w", err)
			}

			if err := moveFile(final, output); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			last := job.LastAttempt()
			status := "fits"
			if !job.HitTarget() {
				status = "still over budget"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %s)\n", output, humanize.IBytes(uint64(last.ResultBytes)), status)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default discompress_<name>.mp4 in the current directory)")
	cmd.Flags().Float64Var(&targetMB, "target-mb", 0, "target size in MB (overrides TARGET_SIZE_MB)")

	return cmd
}

func defaultOutputPath(input string) string {
	return validation.DownloadFilename(filepath.Base(input))
}

func attemptPaths(job *domain.Job) []string {
	paths := make([]string, 0, len(job.Attempts))
	for _, a := range job.Attempts {
		if a.OutputPath != "" {
			paths = append(paths, a.OutputPath)
		}
	}
	return paths
}

func printAttempts(w io.Writer, job *domain.Job) {
	for _, a := range job.Attempts {
		if !a.Measured {
			fmt.Fprintf(w, "attempt %d: %dk video, failed\n", a.Index, a.VideoKbps)
			continue
		}
		fmt.Fprintf(w, "attempt %d: %dk video, %s\n", a.Index, a.VideoKbps, humanize.IBytes(uint64(a.ResultBytes)))
	}
}

// moveFile renames src to dst, copying when they are on different filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return errors.Join(err, os.Remove(dst))
	}
	return os.Remove(src)
}
