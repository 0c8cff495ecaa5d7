package export

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cryptadb/crypta/internal/directory"
	"github.com/cryptadb/crypta/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	errJobNotRunnable     = errors.New("export job is no longer runnable")
	errExportNotPermitted = errors.New("no grant permits exporting this resource")
)

// GridSource produces the permission-scoped result grid an export writes
// out. Implemented by the directory service.
type GridSource interface {
	Grid(ctx context.Context, grants []domain.Grant, base domain.EntityKind, filters map[string][]string, statBounds map[string]string) (*directory.Grid, error)
}

// AccessGate decides whether a caller's grants permit exporting a base at
// all; read visibility alone does not. Implemented by the permissions
// resolver.
type AccessGate interface {
	AllowsExport(grants []domain.Grant, base domain.EntityKind) bool
}

// Service queues directory exports and runs them on background workers.
// Files land in exportDir and are served through signed, expiring links.
type Service struct {
	grids GridSource
	gate  AccessGate

	exportDir  string
	jobTimeout time.Duration
	now        func() time.Time
	logger     *zap.Logger

	jobs           *registry
	downloadSigner *downloadSigner

	workerCancels sync.Map // map[uuid.UUID]context.CancelFunc
}

type Option func(*Service)

func WithExportDirectory(dir string) Option {
	return func(s *Service) {
		if strings.TrimSpace(dir) != "" {
			s.exportDir = filepath.Clean(dir)
		}
	}
}

func WithJobTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.jobTimeout = timeout
		}
	}
}

// WithDownloadToken customizes the secret and TTL for download links.
func WithDownloadToken(secret string, ttl time.Duration) Option {
	return func(s *Service) {
		s.downloadSigner = newDownloadSigner(secret, ttl)
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(grids GridSource, gate AccessGate, opts ...Option) *Service {
	service := &Service{
		grids:      grids,
		gate:       gate,
		exportDir:  filepath.Join(os.TempDir(), "crypta-exports"),
		jobTimeout: 30 * time.Minute,
		now:        time.Now,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(service)
	}
	if service.downloadSigner == nil {
		service.downloadSigner = newDownloadSigner("", 5*time.Minute)
	}
	service.jobs = newRegistry(service.now)
	return service
}

// Request describes one export: the caller's grants scope it exactly like
// an interactive grid request would be scoped.
type Request struct {
	Grants     []domain.Grant
	Base       domain.EntityKind
	Filters    map[string][]string
	StatBounds map[string]string
	Format     Format
}

// Queue registers the job and starts its worker. The returned job is in
// PENDING state; callers poll for completion. Queueing fails closed: a
// caller without an export-capable grant on the base is rejected before
// any work starts.
func (s *Service) Queue(_ context.Context, req Request) (Job, error) {
	if s.gate == nil || !s.gate.AllowsExport(req.Grants, req.Base) {
		return Job{}, errExportNotPermitted
	}
	switch req.Format {
	case FormatCSV, FormatXLSX:
	case "":
		req.Format = FormatCSV
	default:
		return Job{}, fmt.Errorf("unsupported export format %q", req.Format)
	}

	job := s.jobs.create(req.Base, req.Format)
	s.launchWorker(job, req)
	return job, nil
}

// GetJob returns job metadata for status polling.
func (s *Service) GetJob(id uuid.UUID) (Job, error) {
	job, ok := s.jobs.get(id)
	if !ok {
		return Job{}, fmt.Errorf("export job %s not found", id)
	}
	return job, nil
}

// ListJobs returns jobs newest first, optionally filtered by status.
func (s *Service) ListJobs(statuses []JobStatus) []Job {
	return s.jobs.list(statuses)
}

// CancelJob stops a pending or running export. Completed jobs are left
// untouched.
func (s *Service) CancelJob(id uuid.UUID) (Job, error) {
	job, ok := s.jobs.transition(id, []JobStatus{JobStatusPending, JobStatusRunning}, func(j *Job) {
		j.Status = JobStatusCancelled
		j.Error = "cancelled by user"
	})
	if !ok {
		if job.ID == uuid.Nil {
			return Job{}, fmt.Errorf("export job %s not found", id)
		}
		return job, fmt.Errorf("export job in status %s cannot be cancelled", job.Status)
	}
	if cancel, loaded := s.workerCancels.LoadAndDelete(id); loaded {
		if fn, okCast := cancel.(context.CancelFunc); okCast {
			fn()
		}
	}
	return job, nil
}

// BuildDownloadURL signs a short-lived download link for a completed job.
func (s *Service) BuildDownloadURL(job Job) string {
	if job.Status != JobStatusCompleted || job.FilePath == "" {
		return ""
	}
	values := url.Values{}
	values.Set("token", s.downloadSigner.Sign(job.ID, s.now()))
	return fmt.Sprintf("/api/v1/exports/files/%s?%s", job.ID.String(), values.Encode())
}

// ValidateDownloadToken checks the token against the job it claims.
func (s *Service) ValidateDownloadToken(jobID uuid.UUID, token string) error {
	return s.downloadSigner.Verify(jobID, token, s.now())
}

// OpenJobFile opens a completed export file for streaming to the client.
func (s *Service) OpenJobFile(job Job) (*os.File, error) {
	if job.Status != JobStatusCompleted {
		return nil, errors.New("export is not completed")
	}
	if job.FilePath == "" {
		return nil, errors.New("export file is unavailable")
	}
	file, err := os.Open(job.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open export file: %w", err)
	}
	return file, nil
}

func (s *Service) launchWorker(job Job, req Request) {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	s.workerCancels.Store(job.ID, cancel)
	go func() {
		defer func() {
			cancel()
			s.workerCancels.Delete(job.ID)
		}()
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic while processing export job",
					zap.String("job_id", job.ID.String()),
					zap.Any("panic", rec))
				s.failJob(job.ID, fmt.Errorf("panic: %v", rec))
			}
		}()
		if err := s.run(ctx, job, req); err != nil {
			switch {
			case errors.Is(err, context.Canceled):
				s.logger.Info("export job cancelled", zap.String("job_id", job.ID.String()))
			case errors.Is(err, errJobNotRunnable):
				s.logger.Info("export job not runnable, skipping", zap.String("job_id", job.ID.String()))
			default:
				s.failJob(job.ID, err)
			}
		}
	}()
}

func (s *Service) run(ctx context.Context, job Job, req Request) error {
	if _, ok := s.jobs.transition(job.ID, []JobStatus{JobStatusPending}, func(j *Job) {
		j.Status = JobStatusRunning
	}); !ok {
		return errJobNotRunnable
	}

	grid, err := s.grids.Grid(ctx, req.Grants, req.Base, req.Filters, req.StatBounds)
	if err != nil {
		return fmt.Errorf("load export grid: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := s.ensureExportDirectory(); err != nil {
		return err
	}
	tempFile, err := os.CreateTemp(s.exportDir, fmt.Sprintf("%s-*.%s", job.ID, job.Format))
	if err != nil {
		return fmt.Errorf("create temp export file: %w", err)
	}
	tempPath := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = tempFile.Close()
			_ = os.Remove(tempPath)
		}
	}()

	buffered := bufio.NewWriterSize(tempFile, 1<<20)
	var rows int
	switch job.Format {
	case FormatXLSX:
		rows, err = writeXLSX(buffered, grid)
	default:
		rows, err = writeCSV(buffered, grid)
	}
	if err != nil {
		return err
	}
	if err := buffered.Flush(); err != nil {
		return fmt.Errorf("flush export file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("sync export file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}

	finalPath := filepath.Join(s.exportDir, fmt.Sprintf("%s-%s.%s", job.Base, job.ID, job.Format))
	if err := os.Rename(tempPath, finalPath); err != nil {
		return fmt.Errorf("promote export file: %w", err)
	}
	cleanup = false
	info, err := os.Stat(finalPath)
	if err != nil {
		return fmt.Errorf("stat export file: %w", err)
	}

	if _, ok := s.jobs.transition(job.ID, []JobStatus{JobStatusRunning}, func(j *Job) {
		j.Status = JobStatusCompleted
		j.RowsExported = rows
		j.FilePath = finalPath
		j.FileMimeType = mimeType(job.Format)
		j.FileByteSize = info.Size()
	}); !ok {
		// Cancelled while writing; drop the orphaned file.
		_ = os.Remove(finalPath)
		return nil
	}
	s.logger.Info("export job completed",
		zap.String("job_id", job.ID.String()),
		zap.Int("rows", rows),
		zap.String("path", finalPath))
	return nil
}

func (s *Service) failJob(jobID uuid.UUID, err error) {
	if err == nil {
		return
	}
	s.jobs.transition(jobID, []JobStatus{JobStatusPending, JobStatusRunning}, func(j *Job) {
		j.Status = JobStatusFailed
		j.Error = truncateError(err)
	})
	s.logger.Error("export job failed",
		zap.String("job_id", jobID.String()),
		zap.Error(err))
}

func (s *Service) ensureExportDirectory() error {
	if strings.TrimSpace(s.exportDir) == "" {
		return errors.New("export directory is not configured")
	}
	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return fmt.Errorf("ensure export directory: %w", err)
	}
	return nil
}

func mimeType(format Format) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

func truncateError(err error) string {
	const maxLen = 512
	msg := err.Error()
	if len(msg) > maxLen {
		return msg[:maxLen]
	}
	return msg
}
