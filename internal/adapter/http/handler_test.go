package http

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/OwenK944/discompress/internal/adapter/http/ratelimit"
	"github.com/OwenK944/discompress/internal/adapter/storage/workdir"
	"github.com/OwenK944/discompress/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompressor struct {
	dir     *workdir.Dir
	err     error
	output  []byte
	calls   int
	lastJob *domain.Job
}

func (f *fakeCompressor) Compress(_ context.Context, job *domain.Job) (string, error) {
	f.calls++
	f.lastJob = job

	out := f.dir.AttemptPath(job.ID, 0)
	if err := os.WriteFile(out, f.output, 0644); err != nil {
		return "", err
	}
	job.AddAttempt(domain.Attempt{Index: 0, OutputPath: out, ResultBytes: int64(len(f.output)), Measured: true})

	if f.err != nil {
		return "", f.err
	}
	return out, nil
}

type recordingScheduler struct {
	scheduled [][]string
}

func (r *recordingScheduler) Schedule(paths []string) {
	r.scheduled = append(r.scheduled, paths)
}

type handlerFixture struct {
	handlers  *Handlers
	dir       *workdir.Dir
	compress  *fakeCompressor
	scheduler *recordingScheduler
}

func newHandlerFixture(t *testing.T, cfg HandlerConfig) handlerFixture {
	t.Helper()
	dir, err := workdir.Open(t.TempDir())
	require.NoError(t, err)

	if cfg.TargetBytes == 0 {
		cfg.TargetBytes = domain.TargetBytesFromMB(9.8)
	}
	if cfg.MaxUploadBytes == 0 {
		cfg.MaxUploadBytes = 10 << 20
	}

	compress := &fakeCompressor{dir: dir, output: []byte("compressed")}
	scheduler := &recordingScheduler{}

	return handlerFixture{
		handlers:  NewHandlers(compress, dir, scheduler, cfg),
		dir:       dir,
		compress:  compress,
		scheduler: scheduler,
	}
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func uploadRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	body, contentType := multipartBody(t, field, filename, content)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	return req
}

func TestHandlers_Health(t *testing.T) {
	f := newHandlerFixture(t, HandlerConfig{})

	rec := httptest.NewRecorder()
	f.handlers.Health()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestHandlers_Upload_Success(t *testing.T) {
	f := newHandlerFixture(t, HandlerConfig{})

	rec := httptest.NewRecorder()
	f.handlers.Upload()(rec, uploadRequest(t, "video", "../../evil name!.mov", []byte("source video bytes")))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "video/mp4", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="discompress_....evil name.mp4"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "10", rec.Header().Get("Content-Length"))
	assert.Equal(t, "compressed", rec.Body.String())

	job := f.compress.lastJob
	require.NotNil(t, job)
	assert.Equal(t, "....evil name.mov", job.RequestedName)
	assert.Equal(t, domain.TargetBytesFromMB(9.8), job.TargetBytes)
	assert.Equal(t, f.dir.UploadPath(job.ID, "x.mov"), job.InputPath)

	data, err := os.ReadFile(job.InputPath)
	require.NoError(t, err)
	assert.Equal(t, "source video bytes", string(data))

	require.Len(t, f.scheduler.scheduled, 1)
	assert.Equal(t, []string{job.InputPath, f.dir.AttemptPath(job.ID, 0)}, f.scheduler.scheduled[0])
}

func TestHandlers_Upload_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		request func(t *testing.T) *http.Request
	}{
		{
			name: "wrong field name",
			request: func(t *testing.T) *http.Request {
				return uploadRequest(t, "file", "clip.mov", []byte("data"))
			},
		},
		{
			name: "not multipart",
			request: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(`{"video":"x"}`))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
		},
		{
			name: "empty body",
			request: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/upload", nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(t, HandlerConfig{})

			rec := httptest.NewRecorder()
			f.handlers.Upload()(rec, tt.request(t))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "No video file uploaded", strings.TrimSpace(rec.Body.String()))
			assert.Zero(t, f.compress.calls)
			assert.Empty(t, f.scheduler.scheduled)
		})
	}
}

func TestHandlers_Upload_TooLarge(t *testing.T) {
	f := newHandlerFixture(t, HandlerConfig{MaxUploadBytes: 1024})

	rec := httptest.NewRecorder()
	f.handlers.Upload()(rec, uploadRequest(t, "video", "clip.mov", bytes.Repeat([]byte("x"), 8192)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Zero(t, f.compress.calls)
}

func TestHandlers_Upload_CompressFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "probe error", err: &domain.ProbeError{Path: "in", Err: errors.New("Invalid data found")}},
		{name: "encode error", err: &domain.EncodeError{Attempt: 2, Err: errors.New("exit status 1"), Diagnostic: "secret internal path /srv/tmp"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(t, HandlerConfig{})
			f.compress.err = tt.err

			rec := httptest.NewRecorder()
			f.handlers.Upload()(rec, uploadRequest(t, "video", "clip.mov", []byte("data")))

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Contains(t, rec.Body.String(), "Compression failed")
			assert.NotContains(t, rec.Body.String(), "/srv/tmp", "diagnostics stay in the logs")
			assert.Empty(t, rec.Header().Get("Content-Disposition"))

			job := f.compress.lastJob
			require.Len(t, f.scheduler.scheduled, 1)
			assert.Equal(t, []string{job.InputPath, f.dir.AttemptPath(job.ID, 0)}, f.scheduler.scheduled[0],
				"upload and partial attempts are still cleaned up")
		})
	}
}

func TestHandlers_Upload_RateLimited(t *testing.T) {
	limiter := ratelimit.NewLimiter(1, time.Minute, time.Minute)
	defer limiter.Close()
	f := newHandlerFixture(t, HandlerConfig{Limiter: limiter})

	first := httptest.NewRecorder()
	f.handlers.Upload()(first, uploadRequest(t, "video", "clip.mov", []byte("data")))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	f.handlers.Upload()(second, uploadRequest(t, "video", "clip.mov", []byte("data")))

	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))
	assert.Equal(t, 1, f.compress.calls)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	assert.Equal(t, "10.1.2.3", clientIP(req))

	req.RemoteAddr = "no-port"
	assert.Equal(t, "no-port", clientIP(req))
}
