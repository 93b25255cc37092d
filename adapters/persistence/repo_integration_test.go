package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/khoahotran/vlog-studio/internal/domain/media"
	"github.com/khoahotran/vlog-studio/internal/domain/project"
	"github.com/khoahotran/vlog-studio/internal/domain/settings"
	"github.com/khoahotran/vlog-studio/internal/domain/user"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

type RepoIntegrationTestSuite struct {
	suite.Suite
	dbPool         *pgxpool.Pool
	pgContainer    *postgres.PostgresContainer
	redisContainer *tcredis.RedisContainer
	rdb            *redis.Client
	testLogger     logger.Logger
	projectRepo    project.Repository
	mediaRepo      media.Repository
	settingsRepo   settings.Repository
	userRepo       user.Repository
	testOwner      *user.User
}

func (s *RepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	s.testLogger = logger.NewNop()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	m, err := migrate.New("file://../../migrations", dsn)
	if err != nil {
		s.T().Fatalf("Failed to create migrate instance: %s", err)
	}
	if err := m.Up(); err != nil {
		s.T().Fatalf("Failed to run migrations: %s", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		s.T().Fatalf("Failed to create pgxpool: %s", err)
	}
	s.dbPool = pool

	redisContainer, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		s.T().Fatalf("Failed to start redis container: %s", err)
	}
	s.redisContainer = redisContainer
	redisURL, err := redisContainer.ConnectionString(ctx)
	if err != nil {
		s.T().Fatalf("Failed to get redis connection string: %s", err)
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		s.T().Fatalf("Failed to parse redis url: %s", err)
	}
	s.rdb = redis.NewClient(opts)

	s.projectRepo = NewPostgresProjectRepo(s.dbPool, s.testLogger)
	s.mediaRepo = NewPostgresMediaRepo(s.dbPool, s.testLogger)
	s.settingsRepo = NewPostgresSettingsRepo(s.dbPool, s.testLogger)
	s.userRepo = NewPostgresUserRepo(s.dbPool, s.testLogger)

	s.testOwner = &user.User{
		ID:           uuid.New(),
		Email:        "testowner@example.com",
		PasswordHash: "hashedpassword",
	}
	if err := s.userRepo.Create(ctx, s.testOwner); err != nil {
		s.T().Fatalf("Failed to seed owner: %s", err)
	}
}

func (s *RepoIntegrationTestSuite) TearDownSuite() {
	if s.rdb != nil {
		s.rdb.Close()
	}
	if s.redisContainer != nil {
		if err := s.redisContainer.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate redis container: %s", err)
		}
	}
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate postgres container: %s", err)
		}
	}
}

func (s *RepoIntegrationTestSuite) SetupTest() {
	ctx := context.Background()
	_, err := s.dbPool.Exec(ctx, `TRUNCATE projects, media, user_settings`)
	s.Require().NoError(err)
	s.Require().NoError(s.rdb.FlushAll(ctx).Err())
}

func TestRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(RepoIntegrationTestSuite))
}

func (s *RepoIntegrationTestSuite) newDraft(name string, updatedAt time.Time) *project.Project {
	return &project.Project{
		ID:             project.NewTempID(),
		Name:           name,
		DateRangeStart: "2024-01-01",
		DateRangeEnd:   "2024-01-02",
		Clips: []media.Item{
			{ID: "a", URI: "file:///a.mp4", Type: media.TypeVideo, Timestamp: 1704110400000},
		},
		UserID:    s.testOwner.ID,
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
	}
}

func (s *RepoIntegrationTestSuite) Test_Project_Create_Assigns_Durable_ID() {
	ctx := context.Background()
	draft := s.newDraft("Vlog Jan 1, 2024", time.Now().UTC().Truncate(time.Millisecond))

	id, err := s.projectRepo.Create(ctx, draft)
	s.Require().NoError(err)
	s.False(project.IsTempID(id))
	_, err = uuid.Parse(id)
	s.NoError(err)

	found, err := s.projectRepo.FindByID(ctx, id, s.testOwner.ID)
	s.Require().NoError(err)
	s.Equal(id, found.ID)
	s.Equal(draft.Name, found.Name)
	s.Equal(draft.Clips, found.Clips)
	s.True(draft.UpdatedAt.Equal(found.UpdatedAt))

	_, err = s.projectRepo.FindByID(ctx, id, uuid.New())
	s.ErrorIs(err, apperror.ErrNotFound)
	_, err = s.projectRepo.FindByID(ctx, draft.ID, s.testOwner.ID)
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *RepoIntegrationTestSuite) Test_Project_Update_And_Delete() {
	ctx := context.Background()
	draft := s.newDraft("Before", time.Now().UTC())
	id, err := s.projectRepo.Create(ctx, draft)
	s.Require().NoError(err)
	s.Require().NoError(draft.Finalize(id))

	narration := "hello"
	draft.Name = "After"
	draft.Narration = &narration
	draft.Clips = nil
	s.Require().NoError(s.projectRepo.Update(ctx, draft))

	found, err := s.projectRepo.FindByID(ctx, id, s.testOwner.ID)
	s.Require().NoError(err)
	s.Equal("After", found.Name)
	s.Equal("hello", *found.Narration)
	s.Empty(found.Clips)

	missing := s.newDraft("ghost", time.Now().UTC())
	missing.ID = uuid.NewString()
	s.ErrorIs(s.projectRepo.Update(ctx, missing), apperror.ErrNotFound)

	s.NoError(s.projectRepo.Delete(ctx, id, s.testOwner.ID))
	s.NoError(s.projectRepo.Delete(ctx, id, s.testOwner.ID))
	s.NoError(s.projectRepo.Delete(ctx, "not-a-uuid", s.testOwner.ID))
	_, err = s.projectRepo.FindByID(ctx, id, s.testOwner.ID)
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *RepoIntegrationTestSuite) Test_Project_Unreadable_Clips_Is_An_Error() {
	ctx := context.Background()
	id, err := s.projectRepo.Create(ctx, s.newDraft("broken", time.Now().UTC()))
	s.Require().NoError(err)
	_, err = s.dbPool.Exec(ctx, `UPDATE projects SET clips = '{"a": 1}'::jsonb WHERE id = $1`, id)
	s.Require().NoError(err)

	_, err = s.projectRepo.FindByID(ctx, id, s.testOwner.ID)
	s.ErrorIs(err, apperror.ErrPersistence)
	_, err = s.projectRepo.ListByOwner(ctx, s.testOwner.ID)
	s.ErrorIs(err, apperror.ErrPersistence)
}

func (s *RepoIntegrationTestSuite) Test_Project_Update_If_Unchanged() {
	ctx := context.Background()
	seen := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	draft := s.newDraft("guarded", seen)
	id, err := s.projectRepo.Create(ctx, draft)
	s.Require().NoError(err)
	s.Require().NoError(draft.Finalize(id))

	draft.Name = "first"
	draft.Touch(seen.Add(time.Minute))
	s.Require().NoError(s.projectRepo.UpdateIfUnchanged(ctx, draft, seen))

	draft.Name = "stale"
	draft.Touch(seen.Add(time.Hour))
	err = s.projectRepo.UpdateIfUnchanged(ctx, draft, seen)
	s.ErrorIs(err, project.ErrStaleProject)
	s.ErrorIs(err, apperror.ErrConflict)

	found, err := s.projectRepo.FindByID(ctx, id, s.testOwner.ID)
	s.Require().NoError(err)
	s.Equal("first", found.Name)
	s.True(seen.Add(time.Minute).Equal(found.UpdatedAt))
}

func (s *RepoIntegrationTestSuite) Test_Project_List_Newest_First() {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	oldID, err := s.projectRepo.Create(ctx, s.newDraft("old", base))
	s.Require().NoError(err)
	newID, err := s.projectRepo.Create(ctx, s.newDraft("new", base.Add(time.Hour)))
	s.Require().NoError(err)

	list, err := s.projectRepo.ListByOwner(ctx, s.testOwner.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(newID, list[0].ID)
	s.Equal(oldID, list[1].ID)

	n, err := s.projectRepo.CountByOwner(ctx, s.testOwner.ID)
	s.NoError(err)
	s.Equal(2, n)
}

func (s *RepoIntegrationTestSuite) Test_Cached_Project_List_Is_Invalidated_On_Write() {
	ctx := context.Background()
	cached := NewCachedProjectRepo(s.projectRepo, s.rdb, time.Minute, s.testLogger)

	_, err := cached.Create(ctx, s.newDraft("first", time.Now().UTC()))
	s.Require().NoError(err)

	list, err := cached.ListByOwner(ctx, s.testOwner.ID)
	s.Require().NoError(err)
	s.Len(list, 1)
	s.EqualValues(1, s.rdb.Exists(ctx, projectListKey(s.testOwner.ID)).Val())

	_, err = s.projectRepo.Create(ctx, s.newDraft("behind the cache", time.Now().UTC()))
	s.Require().NoError(err)
	list, err = cached.ListByOwner(ctx, s.testOwner.ID)
	s.Require().NoError(err)
	s.Len(list, 1)

	id, err := cached.Create(ctx, s.newDraft("second", time.Now().UTC()))
	s.Require().NoError(err)
	s.EqualValues(0, s.rdb.Exists(ctx, projectListKey(s.testOwner.ID)).Val())

	list, err = cached.ListByOwner(ctx, s.testOwner.ID)
	s.Require().NoError(err)
	s.Len(list, 3)

	s.Require().NoError(cached.Delete(ctx, id, s.testOwner.ID))
	list, err = cached.ListByOwner(ctx, s.testOwner.ID)
	s.Require().NoError(err)
	s.Len(list, 2)
}

func (s *RepoIntegrationTestSuite) Test_Media_Latest_By_Asset() {
	ctx := context.Background()
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	save := func(asset, path string, uploadedAt time.Time) {
		item, err := media.Item{ID: asset, URI: "file:///" + asset, Type: media.TypePhoto, Timestamp: at.UnixMilli()}.
			WithUpload(path, "https://cdn.example/"+path, uploadedAt)
		s.Require().NoError(err)
		s.Require().NoError(s.mediaRepo.Save(ctx, &media.Upload{Item: item, OwnerID: s.testOwner.ID}))
	}
	save("a", "users/x/media/a-1", at)
	save("a", "users/x/media/a-2", at.Add(time.Minute))
	save("b", "users/x/media/b-1", at)

	err := s.mediaRepo.Save(ctx, &media.Upload{
		OwnerID: s.testOwner.ID,
		Item: media.Item{
			ID: "a", Type: media.TypePhoto,
			StoragePath: strPtr("users/x/media/a-1"), PublicURL: strPtr("https://dup"), UploadedAt: &at,
		},
	})
	s.ErrorIs(err, apperror.ErrConflict)

	latest, err := s.mediaRepo.LatestByAssetID(ctx, s.testOwner.ID, []string{"a", "b", "zzz"})
	s.Require().NoError(err)
	s.Len(latest, 2)
	s.Equal("users/x/media/a-2", *latest["a"].StoragePath)
	s.Equal("users/x/media/b-1", *latest["b"].StoragePath)

	s.Require().NoError(s.mediaRepo.SetThumbnail(ctx, s.testOwner.ID, "users/x/media/b-1", "https://thumb"))
	found, err := s.mediaRepo.FindByStoragePath(ctx, s.testOwner.ID, "users/x/media/b-1")
	s.Require().NoError(err)
	s.Equal("https://thumb", *found.ThumbnailURL)
	s.ErrorIs(s.mediaRepo.SetThumbnail(ctx, s.testOwner.ID, "nope", "x"), apperror.ErrNotFound)

	all, err := s.mediaRepo.ListByOwner(ctx, s.testOwner.ID)
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *RepoIntegrationTestSuite) Test_Settings_Create_Is_Idempotent() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	defaults := settings.Defaults(s.testOwner.ID, now)

	s.Require().NoError(s.settingsRepo.Create(ctx, defaults))
	changed := defaults.Apply(settings.Patch{Theme: themePtr(settings.ThemeDark)}, now.Add(time.Second))
	s.Require().NoError(s.settingsRepo.Update(ctx, &changed))
	s.Require().NoError(s.settingsRepo.Create(ctx, defaults))

	found, err := s.settingsRepo.FindByUser(ctx, s.testOwner.ID)
	s.Require().NoError(err)
	s.Equal(settings.ThemeDark, found.Theme)

	_, err = s.settingsRepo.FindByUser(ctx, uuid.New())
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *RepoIntegrationTestSuite) Test_User_Email_Is_Unique() {
	ctx := context.Background()
	err := s.userRepo.Create(ctx, &user.User{ID: uuid.New(), Email: s.testOwner.Email, PasswordHash: "x"})
	s.ErrorIs(err, apperror.ErrConflict)

	found, err := s.userRepo.FindByEmail(ctx, s.testOwner.Email)
	s.Require().NoError(err)
	s.Equal(s.testOwner.ID, found.ID)
}

func strPtr(s string) *string { return &s }

func themePtr(t settings.Theme) *settings.Theme { return &t }
