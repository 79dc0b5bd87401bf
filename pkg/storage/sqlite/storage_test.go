package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/JSON-FX/monopoly-tracker-sub001/internal/logging"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/entities"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type SQLiteStorageTestSuite struct {
	suite.Suite
	path    string
	storage *Storage
}

func TestSQLiteStorage(t *testing.T) {
	suite.Run(t, new(SQLiteStorageTestSuite))
}

func (s *SQLiteStorageTestSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "db", "tracker.db")
	store, err := New(context.Background(), &storage.Options{Path: s.path}, logging.Discard)
	s.Require().NoError(err)
	s.storage = store
}

func (s *SQLiteStorageTestSuite) TearDownTest() {
	s.storage.Close()
}

func (s *SQLiteStorageTestSuite) TestLoadWithoutSnapshot() {
	_, err := s.storage.Load(context.Background())
	s.ErrorIs(err, storage.ErrNoSnapshot)
}

func (s *SQLiteStorageTestSuite) TestSaveUpsertsSingleRow() {
	ctx := context.Background()

	s.Require().NoError(s.storage.Save(ctx, &entities.Snapshot{Active: true, CurrentCapital: decimal.NewFromInt(100)}))
	s.Require().NoError(s.storage.Save(ctx, &entities.Snapshot{Active: true, CurrentCapital: decimal.NewFromInt(200)}))

	loaded, err := s.storage.Load(ctx)
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(200).Equal(loaded.CurrentCapital))

	var rows int
	s.Require().NoError(s.storage.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM snapshots").Scan(&rows))
	s.Equal(1, rows)
}

func (s *SQLiteStorageTestSuite) TestSnapshotSurvivesReopen() {
	ctx := context.Background()
	s.Require().NoError(s.storage.Save(ctx, &entities.Snapshot{SessionID: "sess-9", TotalBets: 3}))
	s.Require().NoError(s.storage.Close())

	reopened, err := New(ctx, &storage.Options{Path: s.path}, logging.Discard)
	s.Require().NoError(err)
	s.storage = reopened

	loaded, err := reopened.Load(ctx)
	s.Require().NoError(err)
	s.Equal("sess-9", loaded.SessionID)
	s.Equal(3, loaded.TotalBets)
}

func (s *SQLiteStorageTestSuite) TestKeysAreIsolated() {
	ctx := context.Background()
	other, err := New(ctx, &storage.Options{Path: s.path, Key: "other"}, logging.Discard)
	s.Require().NoError(err)
	defer other.Close()

	s.Require().NoError(s.storage.Save(ctx, &entities.Snapshot{SessionID: "main"}))

	_, err = other.Load(ctx)
	s.ErrorIs(err, storage.ErrNoSnapshot)
}
