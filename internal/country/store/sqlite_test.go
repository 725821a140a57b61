package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"countries/internal/platform/sqlite"
)

type SQLiteStoreSuite struct {
	storeContract
	db *sql.DB
}

func TestSQLiteStoreSuite(t *testing.T) {
	suite.Run(t, new(SQLiteStoreSuite))
}

func (s *SQLiteStoreSuite) SetupTest() {
	s.ctx = context.Background()
	db, err := sqlite.Open(s.ctx, ":memory:")
	s.Require().NoError(err)
	s.db = db

	st := NewSQLite(db)
	s.Require().NoError(st.Migrate(s.ctx))
	s.store = st
}

func (s *SQLiteStoreSuite) TearDownTest() {
	s.Require().NoError(s.db.Close())
}

func (s *SQLiteStoreSuite) TestMigrateIsIdempotent() {
	s.NoError(NewSQLite(s.db).Migrate(s.ctx))
}
