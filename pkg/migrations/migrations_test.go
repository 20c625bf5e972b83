package migrations

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLogger struct {
	mu    sync.Mutex
	infos []string
	warns []string
}

func (l *testLogger) Info(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *testLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *testLogger) Error(string, ...any) {}

type fakeMigrator struct {
	upErr      error
	stepsErr   error
	steps      int
	version    uint
	dirty      bool
	versionErr error

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
}

func (m *fakeMigrator) Up() error {
	if m.closeCh != nil {
		<-m.closeCh
	}
	return m.upErr
}

func (m *fakeMigrator) Steps(n int) error {
	m.steps = n
	return m.stepsErr
}

func (m *fakeMigrator) Version() (uint, bool, error) {
	return m.version, m.dirty, m.versionErr
}

func (m *fakeMigrator) Close() (error, error) {
	m.closeOnce.Do(func() {
		m.closed.Store(true)
		if m.closeCh != nil {
			close(m.closeCh)
		}
	})
	return nil, nil
}

type captured struct {
	sourceURL string
	dialect   string
	cfg       Config
}

func useFakes(t *testing.T, m *fakeMigrator) *captured {
	t.Helper()
	origDriver, origMigrator := driverFactory, migratorFactory
	t.Cleanup(func() {
		driverFactory = origDriver
		migratorFactory = origMigrator
	})

	got := &captured{}
	driverFactory = func(_ *sql.DB, cfg Config) (database.Driver, error) {
		got.cfg = cfg
		return nil, nil
	}
	migratorFactory = func(sourceURL, dialect string, _ database.Driver) (migrator, error) {
		got.sourceURL = sourceURL
		got.dialect = dialect
		return m, nil
	}
	return got
}

func TestUp_NilDB(t *testing.T) {
	assert.Error(t, Up(context.Background(), nil, Config{}))
}

func TestUp_CancelledContextSkipsDriver(t *testing.T) {
	got := useFakes(t, &fakeMigrator{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Up(ctx, &sql.DB{}, Config{Dir: t.TempDir()})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, got.sourceURL)
}

func TestUp_DeadlineClosesMigrator(t *testing.T) {
	m := &fakeMigrator{closeCh: make(chan struct{})}
	useFakes(t, m)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := Up(ctx, &sql.DB{}, Config{Dir: t.TempDir()})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, m.closed.Load())
}

func TestUp_NoChangeIsNotAnError(t *testing.T) {
	useFakes(t, &fakeMigrator{upErr: migrate.ErrNoChange})
	logger := &testLogger{}

	require.NoError(t, Up(context.Background(), &sql.DB{}, Config{Dir: t.TempDir(), Logger: logger}))
	assert.Contains(t, logger.infos, "No migrations to apply")
}

func TestUp_DefaultsAndSourceURL(t *testing.T) {
	got := useFakes(t, &fakeMigrator{})
	dir := filepath.Join(t.TempDir(), "sql files")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	logger := &testLogger{}
	require.NoError(t, Up(context.Background(), &sql.DB{}, Config{Dir: dir, Logger: logger}))

	abs, _ := filepath.Abs(dir)
	parsed, err := url.Parse(got.sourceURL)
	require.NoError(t, err)
	assert.Equal(t, "file", parsed.Scheme)
	assert.Equal(t, filepath.ToSlash(abs), parsed.Path)
	assert.Equal(t, DialectPostgres, got.dialect)
	assert.Equal(t, "schema_migrations", got.cfg.MigrationsTable)
	assert.Contains(t, logger.infos, "Migrations applied successfully")
}

func TestUp_WrapsMigrationError(t *testing.T) {
	useFakes(t, &fakeMigrator{upErr: errors.New("syntax error at or near")})

	err := Up(context.Background(), &sql.DB{}, Config{Dir: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrations: up")
}

func TestDown_StepsBackwards(t *testing.T) {
	m := &fakeMigrator{}
	useFakes(t, m)

	require.NoError(t, Down(context.Background(), &sql.DB{}, Config{Dir: t.TempDir()}, 2))
	assert.Equal(t, -2, m.steps)

	assert.Error(t, Down(context.Background(), &sql.DB{}, Config{Dir: t.TempDir()}, 0))
}

func TestVersion(t *testing.T) {
	useFakes(t, &fakeMigrator{version: 3, dirty: true})

	v, dirty, err := Version(context.Background(), &sql.DB{}, Config{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.EqualValues(t, 3, v)
	assert.True(t, dirty)
}

func TestVersion_NothingApplied(t *testing.T) {
	useFakes(t, &fakeMigrator{versionErr: migrate.ErrNilVersion})

	v, dirty, err := Version(context.Background(), &sql.DB{}, Config{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.Zero(t, v)
	assert.False(t, dirty)
}
