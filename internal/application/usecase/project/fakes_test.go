package project

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/vlog-studio/internal/application/service"
	"github.com/khoahotran/vlog-studio/internal/domain/media"
	"github.com/khoahotran/vlog-studio/internal/domain/project"
	"github.com/khoahotran/vlog-studio/internal/domain/user"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
)

type memRepo struct {
	mu        sync.Mutex
	projects  map[string]project.Project
	creates   int
	updates   int
	createErr error
	updateErr error
}

func newMemRepo() *memRepo {
	return &memRepo{projects: map[string]project.Project{}}
}

func (r *memRepo) Create(_ context.Context, p *project.Project) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.createErr != nil {
		return "", r.createErr
	}
	id := uuid.NewString()
	stored := p.Clone()
	stored.ID = id
	r.projects[id] = stored
	return id, nil
}

func (r *memRepo) Update(_ context.Context, p *project.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	if r.updateErr != nil {
		return r.updateErr
	}
	cur, ok := r.projects[p.ID]
	if !ok || cur.UserID != p.UserID {
		return apperror.NewNotFound("project", p.ID)
	}
	r.projects[p.ID] = p.Clone()
	return nil
}

func (r *memRepo) UpdateIfUnchanged(ctx context.Context, p *project.Project, seen time.Time) error {
	r.mu.Lock()
	cur, ok := r.projects[p.ID]
	r.mu.Unlock()
	if ok && !cur.UpdatedAt.Equal(seen) {
		return apperror.NewAppError(apperror.ErrConflict, "project conflict", p.ID, project.ErrStaleProject)
	}
	return r.Update(ctx, p)
}

func (r *memRepo) Delete(_ context.Context, id string, ownerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.projects[id]; ok && cur.UserID == ownerID {
		delete(r.projects, id)
	}
	return nil
}

func (r *memRepo) FindByID(_ context.Context, id string, ownerID uuid.UUID) (*project.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.projects[id]
	if !ok || cur.UserID != ownerID {
		return nil, apperror.NewNotFound("project", id)
	}
	p := cur.Clone()
	return &p, nil
}

func (r *memRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*project.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*project.Project
	for _, cur := range r.projects {
		if cur.UserID == ownerID {
			p := cur.Clone()
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *memRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	list, err := r.ListByOwner(ctx, ownerID)
	return len(list), err
}

type fixedSession struct {
	session user.Session
}

func (f fixedSession) Session(context.Context) user.Session {
	return f.session
}

func activeFor(id uuid.UUID) fixedSession {
	return fixedSession{session: user.Session{UserID: id, IsActive: true}}
}

type recordingEvents struct {
	mu      sync.Mutex
	project []service.ProjectEventPayload
	media   []service.MediaEventPayload
}

func (e *recordingEvents) PublishProjectEvent(_ context.Context, p service.ProjectEventPayload) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.project = append(e.project, p)
	return nil
}

func (e *recordingEvents) PublishMediaEvent(_ context.Context, p service.MediaEventPayload) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.media = append(e.media, p)
	return nil
}

func (e *recordingEvents) types() []service.ProjectEventType {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]service.ProjectEventType, len(e.project))
	for i, p := range e.project {
		out[i] = p.EventType
	}
	return out
}

type staticSource []media.Item

func (s staticSource) Scan(context.Context, uuid.UUID) ([]media.Item, error) {
	out := make([]media.Item, len(s))
	copy(out, s)
	return out, nil
}

type stubLLM struct {
	reply  string
	err    error
	prompt string
}

func (s *stubLLM) GenerateChatResponse(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.reply, s.err
}

type fileStitcher struct {
	dir   string
	clips []service.Clip
	err   error
}

func (s *fileStitcher) Stitch(_ context.Context, clips []service.Clip) (string, error) {
	s.clips = clips
	if s.err != nil {
		return "", s.err
	}
	out := filepath.Join(s.dir, "out.mp4")
	return out, os.WriteFile(out, []byte("video"), 0o600)
}

type memUploader struct {
	folder   string
	publicID string
	body     []byte
}

func (u *memUploader) Upload(_ context.Context, file io.Reader, folder, publicID string) (string, error) {
	u.folder, u.publicID = folder, publicID
	b, err := io.ReadAll(file)
	u.body = b
	return "https://cdn.example/" + folder + "/" + publicID, err
}

func (u *memUploader) Delete(context.Context, string) error { return nil }

func (u *memUploader) ThumbnailURL(publicID string, _ media.Type) (string, error) {
	return "https://cdn.example/thumb/" + publicID, nil
}

type memMediaRepo struct {
	latest   map[string]*media.Upload
	onLookup func()
}

func (m *memMediaRepo) Save(context.Context, *media.Upload) error { return nil }

func (m *memMediaRepo) SetThumbnail(context.Context, uuid.UUID, string, string) error { return nil }

func (m *memMediaRepo) FindByStoragePath(_ context.Context, _ uuid.UUID, path string) (*media.Upload, error) {
	return nil, apperror.NewNotFound("media", path)
}

func (m *memMediaRepo) LatestByAssetID(_ context.Context, _ uuid.UUID, ids []string) (map[string]*media.Upload, error) {
	if m.onLookup != nil {
		m.onLookup()
	}
	out := map[string]*media.Upload{}
	for _, id := range ids {
		if u, ok := m.latest[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (m *memMediaRepo) ListByOwner(context.Context, uuid.UUID) ([]*media.Upload, error) {
	return nil, nil
}

func msAt(s string) int64 {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t.UnixMilli()
}

func strPtr(s string) *string { return &s }
