package backup

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/vlog-studio/internal/domain/media"
	"github.com/khoahotran/vlog-studio/internal/domain/project"
	"github.com/khoahotran/vlog-studio/internal/domain/settings"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

type stubSettings map[uuid.UUID]settings.UserSettings

func (s stubSettings) FindByUser(_ context.Context, id uuid.UUID) (*settings.UserSettings, error) {
	v, ok := s[id]
	if !ok {
		return nil, apperror.NewNotFound("settings", id.String())
	}
	return &v, nil
}

func (stubSettings) Create(context.Context, *settings.UserSettings) error { return nil }
func (stubSettings) Update(context.Context, *settings.UserSettings) error { return nil }

type stubProjects struct {
	project.Repository
	list []*project.Project
	err  error
}

func (s stubProjects) ListByOwner(context.Context, uuid.UUID) ([]*project.Project, error) {
	return s.list, s.err
}

type captureUploader struct {
	folder   string
	publicID string
	body     []byte
	err      error
}

func (u *captureUploader) Upload(_ context.Context, file io.Reader, folder, publicID string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.folder, u.publicID = folder, publicID
	b, err := io.ReadAll(file)
	u.body = b
	return "https://cdn.example/" + folder + "/" + publicID, err
}

func (u *captureUploader) Delete(context.Context, string) error { return nil }

func (u *captureUploader) ThumbnailURL(string, media.Type) (string, error) { return "", nil }

func newUseCase(pr project.Repository, sr settings.Repository, up *captureUploader) *BackupUseCase {
	uc := NewBackupUseCase(pr, sr, up, logger.NewNop())
	uc.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return uc
}

func TestBackupUploadsSnapshotWhenEnabled(t *testing.T) {
	owner := uuid.New()
	p := &project.Project{ID: uuid.NewString(), UserID: owner, Name: "Vlog Jan 1, 2024"}
	up := &captureUploader{}
	uc := newUseCase(stubProjects{list: []*project.Project{p}}, stubSettings{owner: {UserID: owner, AutoBackup: true}}, up)

	url, err := uc.Execute(context.Background(), owner)
	require.NoError(t, err)

	assert.Equal(t, "users/"+owner.String()+"/backups", up.folder)
	assert.Equal(t, "projects-2024-01-02_03-04-05", up.publicID)
	assert.Contains(t, url, up.publicID)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(up.body, &snap))
	assert.Equal(t, owner, snap.OwnerID)
	require.Len(t, snap.Projects, 1)
	assert.Equal(t, p.ID, snap.Projects[0].ID)
}

func TestBackupSkippedWhenDisabledOrUnset(t *testing.T) {
	owner := uuid.New()
	up := &captureUploader{}

	uc := newUseCase(stubProjects{}, stubSettings{owner: {UserID: owner}}, up)
	url, err := uc.Execute(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, url)

	uc = newUseCase(stubProjects{}, stubSettings{}, up)
	url, err = uc.Execute(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, url)
	assert.Nil(t, up.body)
}

func TestBackupPropagatesUploadFailure(t *testing.T) {
	owner := uuid.New()
	boom := errors.New("cloud down")
	uc := newUseCase(stubProjects{}, stubSettings{owner: {UserID: owner, AutoBackup: true}}, &captureUploader{err: boom})

	_, err := uc.Execute(context.Background(), owner)
	assert.ErrorIs(t, err, boom)
}
