package http

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/OwenK944/discompress/internal/adapter/http/ratelimit"
	"github.com/OwenK944/discompress/internal/adapter/http/validation"
	"github.com/OwenK944/discompress/internal/domain"
	"github.com/OwenK944/discompress/internal/infrastructure/logger"
)

const (
	// multipartMemory is how much of a multipart body is buffered in memory
	// before parts spill to disk.
	multipartMemory = 32 << 20

	uploadField = "video"

	msgNoVideo         = "No video file uploaded"
	msgTooLarge        = "Upload too large"
	msgSaveFailed      = "Failed to save upload"
	msgCompressFailed  = "Compression failed. The file may be corrupt or not a supported video."
	msgDeliveryFailed  = "Failed to read compressed file"
	msgTooManyRequests = "Too many uploads, try again later"
)

type CompressService interface {
	Compress(ctx context.Context, job *domain.Job) (string, error)
}

type UploadStore interface {
	Save(token, originalName string, r io.Reader) (string, int64, error)
}

type CleanupScheduler interface {
	Schedule(paths []string)
}

type HandlerConfig struct {
	TargetBytes    int64
	MaxUploadBytes int64
	// Limiter throttles uploads per client; nil disables it.
	Limiter *ratelimit.Limiter
}

type Handlers struct {
	compressSvc CompressService
	store       UploadStore
	janitor     CleanupScheduler
	cfg         HandlerConfig
}

func NewHandlers(compressSvc CompressService, store UploadStore, janitor CleanupScheduler, cfg HandlerConfig) *Handlers {
	return &Handlers{
		compressSvc: compressSvc,
		store:       store,
		janitor:     janitor,
		cfg:         cfg,
	}
}

func (h *Handlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("OK"))
	}
}

func (h *Handlers) Upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.cfg.Limiter != nil {
			if allowed, wait := h.cfg.Limiter.Check(clientIP(r)); !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(wait.Round(time.Second).Seconds())))
				textError(w, http.StatusTooManyRequests, msgTooManyRequests)
				return
			}
		}

		r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)

		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			if isTooLarge(err) {
				logger.Warn.Printf("upload rejected: body over %s", humanize.IBytes(uint64(h.cfg.MaxUploadBytes)))
				textError(w, http.StatusRequestEntityTooLarge, msgTooLarge)
				return
			}
			logger.Debug.Printf("upload rejected: %v", err)
			textError(w, http.StatusBadRequest, msgNoVideo)
			return
		}
		defer r.MultipartForm.RemoveAll() //nolint:errcheck

		file, header, err := r.FormFile(uploadField)
		if err != nil {
			textError(w, http.StatusBadRequest, msgNoVideo)
			return
		}
		defer file.Close() //nolint:errcheck

		name := validation.SanitizeName(header.Filename)
		if mime, video, err := validation.SniffContainer(file); err == nil && !video {
			logger.Warn.Printf("upload %s sniffed as %s, probing anyway", logger.SanitizeForLog(name), mime)
		}

		id := domain.NewJobID()
		inputPath, n, err := h.store.Save(id, name, file)
		if err != nil {
			logger.Error.Printf("failed to save upload %s: %v", logger.SanitizeForLog(name), err)
			textError(w, http.StatusInternalServerError, msgSaveFailed)
			return
		}
		logger.Debug.Printf("job %s: saved %s to %s", id, humanize.IBytes(uint64(n)), inputPath)

		job := domain.NewJob(id, inputPath, name, h.cfg.TargetBytes)
		// The cleanup set grows while the job runs, so collect it at exit.
		defer func() { h.janitor.Schedule(job.Files()) }()

		final, err := h.compressSvc.Compress(r.Context(), job)
		if err != nil {
			textError(w, http.StatusInternalServerError, msgCompressFailed)
			return
		}

		h.deliver(w, job, final)
	}
}

func (h *Handlers) deliver(w http.ResponseWriter, job *domain.Job, finalPath string) {
	f, err := os.Open(finalPath)
	if err != nil {
		logger.Error.Printf("job %s: open output: %v", job.ID, err)
		textError(w, http.StatusInternalServerError, msgDeliveryFailed)
		return
	}
	defer f.Close() //nolint:errcheck

	info, err := f.Stat()
	if err != nil {
		logger.Error.Printf("job %s: stat output: %v", job.ID, err)
		textError(w, http.StatusInternalServerError, msgDeliveryFailed)
		return
	}

	filename := validation.DownloadFilename(job.RequestedName)
	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition", validation.ContentDisposition(filename, false))
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	w.WriteHeader(http.StatusOK)

	written, err := io.Copy(w, f)
	if err != nil {
		logger.Warn.Printf("job %s: stream aborted after %s: %v", job.ID, humanize.IBytes(uint64(written)), err)
		return
	}
	logger.Info.Printf("job %s: delivered %s as %s", job.ID, humanize.IBytes(uint64(written)), logger.SanitizeForLog(filename))
}

func textError(w http.ResponseWriter, status int, msg string) {
	http.Error(w, msg, status)
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
