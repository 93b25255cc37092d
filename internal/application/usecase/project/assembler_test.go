package project

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/vlog-studio/internal/application/catalog"
	"github.com/khoahotran/vlog-studio/internal/application/service"
	"github.com/khoahotran/vlog-studio/internal/domain/media"
	"github.com/khoahotran/vlog-studio/internal/domain/project"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

func newRangeFixture(userID uuid.UUID, items ...media.Item) (*AssembleFromRangeUseCase, *memRepo, *recordingEvents) {
	repo := newMemRepo()
	events := &recordingEvents{}
	cat := catalog.New(staticSource(items), logger.NewNop())
	return NewAssembleFromRangeUseCase(cat, repo, activeFor(userID), events, logger.NewNop()), repo, events
}

func januaryItems() []media.Item {
	return []media.Item{
		{ID: "jan1", URI: "file:///a.mp4", Type: media.TypeVideo, Timestamp: msAt("2024-01-01T12:00:00Z")},
		{ID: "jan5", URI: "file:///b.jpg", Type: media.TypePhoto, Timestamp: msAt("2024-01-05T09:00:00Z")},
	}
}

func TestAssembleFromRange(t *testing.T) {
	userID := uuid.New()
	uc, repo, events := newRangeFixture(userID, januaryItems()...)

	out, err := uc.Execute(context.Background(), AssembleFromRangeInput{
		UserID: userID,
		Range:  project.DateRange{Start: "2024-01-01", End: "2024-01-02"},
	})
	require.NoError(t, err)

	p := out.Project
	assert.True(t, p.IsDurable())
	assert.Equal(t, "Vlog Jan 1, 2024", p.Name)
	assert.Equal(t, "2024-01-01", p.DateRangeStart)
	assert.Equal(t, "2024-01-02", p.DateRangeEnd)
	require.Len(t, p.Clips, 1)
	assert.Equal(t, "jan1", p.Clips[0].ID)
	assert.Equal(t, userID, p.UserID)

	stored, ok := repo.projects[p.ID]
	require.True(t, ok, "returned id must be the id the store assigned")
	assert.Equal(t, p.Name, stored.Name)
	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, []service.ProjectEventType{service.ProjectEventCreated}, events.types())
}

func TestAssembleFromRangeEmptyDoesNotStore(t *testing.T) {
	userID := uuid.New()
	uc, repo, events := newRangeFixture(userID, januaryItems()...)

	out, err := uc.Execute(context.Background(), AssembleFromRangeInput{
		UserID: userID,
		Range:  project.DateRange{Start: "2024-02-01", End: "2024-02-28"},
	})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, project.ErrEmptySelection)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.Zero(t, repo.creates)
	assert.Empty(t, events.types())
}

func TestAssembleFromRangePreconditions(t *testing.T) {
	userID := uuid.New()

	testCases := []struct {
		desc   string
		userID uuid.UUID
		r      project.DateRange
		expect error
	}{
		{"missing start", userID, project.DateRange{End: "2024-01-02"}, project.ErrMissingRange},
		{"missing end", userID, project.DateRange{Start: "2024-01-01"}, project.ErrMissingRange},
		{"unparseable", userID, project.DateRange{Start: "soon", End: "2024-01-02"}, project.ErrInvalidRange},
		{"inverted", userID, project.DateRange{Start: "2024-01-05", End: "2024-01-01"}, project.ErrInvalidRange},
		{"other user", uuid.New(), project.DateRange{Start: "2024-01-01", End: "2024-01-02"}, project.ErrNoSession},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			uc, repo, _ := newRangeFixture(userID, januaryItems()...)
			out, err := uc.Execute(context.Background(), AssembleFromRangeInput{UserID: tc.userID, Range: tc.r})
			assert.Nil(t, out)
			assert.ErrorIs(t, err, tc.expect)
			assert.Zero(t, repo.creates)
		})
	}
}

func TestAssembleWithoutSession(t *testing.T) {
	userID := uuid.New()
	repo := newMemRepo()
	cat := catalog.New(staticSource(januaryItems()), logger.NewNop())
	uc := NewAssembleFromRangeUseCase(cat, repo, fixedSession{}, nil, logger.NewNop())

	_, err := uc.Execute(context.Background(), AssembleFromRangeInput{
		UserID: userID,
		Range:  project.DateRange{Start: "2024-01-01", End: "2024-01-02"},
	})
	assert.ErrorIs(t, err, project.ErrNoSession)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	assert.Zero(t, repo.creates)
}

func TestAssembleStoreFailureIsReturnedUnchanged(t *testing.T) {
	userID := uuid.New()
	uc, repo, events := newRangeFixture(userID, januaryItems()...)
	storeErr := apperror.NewPersistence("insert project", errors.New("connection reset"))
	repo.createErr = storeErr

	out, err := uc.Execute(context.Background(), AssembleFromRangeInput{
		UserID: userID,
		Range:  project.DateRange{Start: "2024-01-01", End: "2024-01-02"},
	})
	assert.Nil(t, out)
	assert.Same(t, storeErr, err)
	assert.Empty(t, repo.projects)
	assert.Empty(t, events.types())
}

func TestAssembleFromSelection(t *testing.T) {
	userID := uuid.New()
	repo := newMemRepo()
	uc := NewAssembleFromSelectionUseCase(repo, activeFor(userID), nil, logger.NewNop())

	items := []media.Item{
		{ID: "a", Type: media.TypeVideo, Timestamp: 100},
		{ID: "b", Type: media.TypePhoto, Timestamp: 50},
		{ID: "c", Type: media.TypeVideo, Timestamp: 200},
	}

	out, err := uc.Execute(context.Background(), AssembleFromSelectionInput{UserID: userID, Items: items})
	require.NoError(t, err)
	p := out.Project
	assert.Equal(t, "Project 1", p.Name)
	assert.Equal(t, project.FormatInstant(100), p.DateRangeStart)
	assert.Equal(t, project.FormatInstant(200), p.DateRangeEnd)
	assert.Equal(t, []string{"a", "b", "c"}, []string{p.Clips[0].ID, p.Clips[1].ID, p.Clips[2].ID})
	assert.True(t, p.IsDurable())

	items[0].ID = "mutated"
	assert.Equal(t, "a", p.Clips[0].ID)

	out, err = uc.Execute(context.Background(), AssembleFromSelectionInput{UserID: userID, Items: items[:1]})
	require.NoError(t, err)
	assert.Equal(t, "Project 2", out.Project.Name)
}

func TestAssembleFromSelectionRejects(t *testing.T) {
	userID := uuid.New()
	repo := newMemRepo()
	uc := NewAssembleFromSelectionUseCase(repo, activeFor(userID), nil, logger.NewNop())

	_, err := uc.Execute(context.Background(), AssembleFromSelectionInput{UserID: userID})
	assert.ErrorIs(t, err, project.ErrEmptySelection)

	dur := 3.0
	_, err = uc.Execute(context.Background(), AssembleFromSelectionInput{
		UserID: userID,
		Items:  []media.Item{{ID: "p", Type: media.TypePhoto, Duration: &dur}},
	})
	assert.ErrorIs(t, err, media.ErrPhotoWithDuration)

	_, err = uc.Execute(context.Background(), AssembleFromSelectionInput{
		UserID: uuid.New(),
		Items:  []media.Item{{ID: "v", Type: media.TypeVideo}},
	})
	assert.ErrorIs(t, err, project.ErrNoSession)
	assert.Zero(t, repo.creates)
}
