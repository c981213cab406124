package domain

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusDone      JobStatus = "done"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Job is one compress-and-deliver request. It owns the uploaded input and every
// attempt output until the cleanup set is handed to the janitor.
type Job struct {
	ID              string
	InputPath       string
	RequestedName   string
	TargetBytes     int64
	Status          JobStatus
	Attempts        []Attempt
	FinalOutputPath string
	ErrorMessage    string
	CreatedAt       time.Time
	CompletedAt     time.Time
}

// Attempt is one encoder invocation within a Job. Measured is false when the
// attempt failed before producing a readable file.
type Attempt struct {
	Index       int
	VideoKbps   int
	AudioKbps   int
	MaxWidth    int
	OutputPath  string
	ResultBytes int64
	Measured    bool
}

// NewJobID returns the token embedded in every file name a Job generates.
func NewJobID() string {
	return uuid.New().String()
}

func NewJob(id, inputPath, requestedName string, targetBytes int64) *Job {
	return &Job{
		ID:            id,
		InputPath:     inputPath,
		RequestedName: requestedName,
		TargetBytes:   targetBytes,
		Status:        JobStatusQueued,
		CreatedAt:     time.Now(),
	}
}

func (j *Job) AddAttempt(a Attempt) *Attempt {
	j.Attempts = append(j.Attempts, a)
	return &j.Attempts[len(j.Attempts)-1]
}

func (j *Job) LastAttempt() *Attempt {
	if len(j.Attempts) == 0 {
		return nil
	}
	return &j.Attempts[len(j.Attempts)-1]
}

// HitTarget reports whether the final output fits the budget.
func (j *Job) HitTarget() bool {
	last := j.LastAttempt()
	return last != nil && last.Measured && last.OutputPath == j.FinalOutputPath && last.ResultBytes <= j.TargetBytes
}

// Files returns the cleanup set: the input followed by every attempt output,
// including attempts that failed or were superseded.
func (j *Job) Files() []string {
	files := make([]string, 0, len(j.Attempts)+1)
	if j.InputPath != "" {
		files = append(files, j.InputPath)
	}
	for _, a := range j.Attempts {
		if a.OutputPath != "" {
			files = append(files, a.OutputPath)
		}
	}
	return files
}

func (j *Job) MarkAsDone(finalPath string) {
	j.FinalOutputPath = finalPath
	j.Status = JobStatusDone
	j.CompletedAt = time.Now()
}

func (j *Job) MarkAsFailed(err error) {
	j.Status = JobStatusFailed
	j.ErrorMessage = err.Error()
	j.CompletedAt = time.Now()
}

func (j *Job) MarkAsCancelled(err error) {
	j.Status = JobStatusCancelled
	j.ErrorMessage = err.Error()
	j.CompletedAt = time.Now()
}
