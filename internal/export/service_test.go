package export

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/cryptadb/crypta/internal/directory"
	"github.com/cryptadb/crypta/internal/domain"
	"github.com/cryptadb/crypta/internal/permissions"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type openGate struct{}

func (openGate) AllowsExport([]domain.Grant, domain.EntityKind) bool { return true }

type closedGate struct{}

func (closedGate) AllowsExport([]domain.Grant, domain.EntityKind) bool { return false }

type fakeGridSource struct {
	grid *directory.Grid
	err  error
}

func (f *fakeGridSource) Grid(context.Context, []domain.Grant, domain.EntityKind, map[string][]string, map[string]string) (*directory.Grid, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.grid, nil
}

func testGrid() *directory.Grid {
	return &directory.Grid{
		Columns: []domain.Column{
			{Title: "Name", Field: "Name", Category: "Primary Info"},
			{Title: "Vicariate", Field: "Vicariate", Category: "Primary Info"},
		},
		Records: []domain.ProjectedRecord{
			{"Name": "St. Mark", "Vicariate": "Charlotte"},
			{"Name": "St. Ann", "Vicariate": "Charlotte"},
		},
	}
}

func newTestExportService(t *testing.T, source GridSource) *Service {
	t.Helper()
	return NewService(source, openGate{}, WithExportDirectory(t.TempDir()))
}

func waitForStatus(t *testing.T, svc *Service, id uuid.UUID, status JobStatus) Job {
	t.Helper()
	var job Job
	require.Eventually(t, func() bool {
		var err error
		job, err = svc.GetJob(id)
		return err == nil && job.Status == status
	}, 5*time.Second, 10*time.Millisecond)
	return job
}

func TestExportCSVRoundTrip(t *testing.T) {
	svc := newTestExportService(t, &fakeGridSource{grid: testGrid()})

	job, err := svc.Queue(context.Background(), Request{Base: domain.KindLocation, Format: FormatCSV})
	require.NoError(t, err)
	assert.Equal(t, JobStatusPending, job.Status)

	job = waitForStatus(t, svc, job.ID, JobStatusCompleted)
	assert.Equal(t, 2, job.RowsExported)
	assert.Equal(t, "text/csv", job.FileMimeType)
	assert.Greater(t, job.FileByteSize, int64(0))

	file, err := svc.OpenJobFile(job)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "Vicariate"}, rows[0])
	assert.Equal(t, []string{"St. Mark", "Charlotte"}, rows[1])
}

func TestExportXLSXCompletes(t *testing.T) {
	svc := newTestExportService(t, &fakeGridSource{grid: testGrid()})

	job, err := svc.Queue(context.Background(), Request{Base: domain.KindLocation, Format: FormatXLSX})
	require.NoError(t, err)

	job = waitForStatus(t, svc, job.ID, JobStatusCompleted)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", job.FileMimeType)

	info, err := os.Stat(job.FilePath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportDefaultsToCSV(t *testing.T) {
	svc := newTestExportService(t, &fakeGridSource{grid: testGrid()})

	job, err := svc.Queue(context.Background(), Request{Base: domain.KindPerson})
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, job.Format)
}

func TestExportUnknownFormatRejected(t *testing.T) {
	svc := newTestExportService(t, &fakeGridSource{grid: testGrid()})

	_, err := svc.Queue(context.Background(), Request{Base: domain.KindPerson, Format: "pdf"})
	require.Error(t, err)
}

func TestExportRequiresExportGrant(t *testing.T) {
	resolver := permissions.NewResolver(permissions.DefaultRelations(), zap.NewNop())
	svc := NewService(&fakeGridSource{grid: testGrid()}, resolver, WithExportDirectory(t.TempDir()))

	// Read visibility alone must not let a caller queue an export.
	_, err := svc.Queue(context.Background(), Request{
		Grants: []domain.Grant{{ResourceType: "location", AccessType: domain.AccessRead}},
		Base:   domain.KindLocation,
	})
	require.ErrorIs(t, err, errExportNotPermitted)

	_, err = svc.Queue(context.Background(), Request{Base: domain.KindLocation})
	require.ErrorIs(t, err, errExportNotPermitted, "no grants fails closed")

	job, err := svc.Queue(context.Background(), Request{
		Grants: []domain.Grant{{ResourceType: "location", AccessType: domain.AccessExport}},
		Base:   domain.KindLocation,
	})
	require.NoError(t, err)
	waitForStatus(t, svc, job.ID, JobStatusCompleted)
}

func TestExportFailureMarksJobFailed(t *testing.T) {
	svc := newTestExportService(t, &fakeGridSource{err: errors.New("boom")})

	job, err := svc.Queue(context.Background(), Request{Base: domain.KindLocation})
	require.NoError(t, err)

	job = waitForStatus(t, svc, job.ID, JobStatusFailed)
	assert.Contains(t, job.Error, "boom")
}

func TestDownloadTokenRoundTrip(t *testing.T) {
	signer := newDownloadSigner("test-secret", time.Minute)
	jobID := uuid.New()
	now := time.Now()

	token := signer.Sign(jobID, now)
	require.NoError(t, signer.Verify(jobID, token, now))

	assert.Error(t, signer.Verify(uuid.New(), token, now), "token must be bound to its job")
	assert.Error(t, signer.Verify(jobID, token, now.Add(2*time.Minute)), "expired token must fail")
	assert.Error(t, signer.Verify(jobID, "not-a-token", now))

	other := newDownloadSigner("other-secret", time.Minute)
	assert.Error(t, other.Verify(jobID, token, now), "token signed with a different secret must fail")
}

func TestDownloadURLOnlyForCompletedJobs(t *testing.T) {
	svc := newTestExportService(t, &fakeGridSource{grid: testGrid()})

	job, err := svc.Queue(context.Background(), Request{Base: domain.KindLocation})
	require.NoError(t, err)
	assert.Empty(t, svc.BuildDownloadURL(job))

	job = waitForStatus(t, svc, job.ID, JobStatusCompleted)
	url := svc.BuildDownloadURL(job)
	assert.Contains(t, url, job.ID.String())
	assert.Contains(t, url, "token=")
}

func TestCancelPendingJob(t *testing.T) {
	// A source that blocks until the context is cancelled keeps the job
	// in RUNNING state long enough to cancel it.
	blocking := &blockingGridSource{release: make(chan struct{})}
	svc := newTestExportService(t, blocking)

	job, err := svc.Queue(context.Background(), Request{Base: domain.KindLocation})
	require.NoError(t, err)

	waitForStatus(t, svc, job.ID, JobStatusRunning)
	cancelled, err := svc.CancelJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusCancelled, cancelled.Status)
	close(blocking.release)

	_, err = svc.CancelJob(job.ID)
	require.Error(t, err, "second cancel must be rejected")
}

type blockingGridSource struct {
	release chan struct{}
}

func (b *blockingGridSource) Grid(ctx context.Context, _ []domain.Grant, _ domain.EntityKind, _ map[string][]string, _ map[string]string) (*directory.Grid, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-b.release:
		return testGrid(), nil
	}
}
