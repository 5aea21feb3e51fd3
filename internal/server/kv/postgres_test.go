package kv

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/proposalkeeper/internal/common"
)

func newStoreWithMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return &PostgresStore{db: db}, mock, db
}

const (
	selectQuery = `(?s)^SELECT\s+data,\s*version\s+FROM\s+collections\s+WHERE\s+key\s*=\s*\$1\s*$`
	insertQuery = `(?s)^\s*INSERT\s+INTO\s+collections\s*\(key,\s*data,\s*version,\s*updated_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*1,\s*now\(\)\)\s*ON\s+CONFLICT\s*\(key\)\s+DO\s+NOTHING\s*$`
	updateQuery = `(?s)^\s*UPDATE\s+collections\s+SET\s+data\s*=\s*\$2,\s*version\s*=\s*version\s*\+\s*1,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+key\s*=\s*\$1\s+AND\s+version\s*=\s*\$3\s*$`
)

func TestPostgresGet_Found(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"data", "version"}).AddRow([]byte(`["m1"]`), int64(3))
	mock.ExpectQuery(selectQuery).WithArgs("memos").WillReturnRows(rows)

	data, version, err := store.Get(context.Background(), "memos")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if string(data) != `["m1"]` || version != 3 {
		t.Fatalf("unexpected result: %s v%d", data, version)
	}
}

func TestPostgresGet_MissingKey(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQuery).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	data, version, err := store.Get(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if data != nil || version != 0 {
		t.Fatalf("expected empty result, got %s v%d", data, version)
	}
}

func TestPostgresGet_DBError(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQuery).WithArgs("memos").WillReturnError(errors.New("db down"))

	_, _, err := store.Get(context.Background(), "memos")
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestPostgresPut_Create(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQuery).
		WithArgs("memos", []byte(`[]`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.Put(context.Background(), "memos", []byte(`[]`), 0); err != nil {
		t.Fatalf("Put error: %v", err)
	}
}

func TestPostgresPut_CreateExisting(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQuery).
		WithArgs("memos", []byte(`[]`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Put(context.Background(), "memos", []byte(`[]`), 0)
	if !errors.Is(err, common.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
}

func TestPostgresPut_Update(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	mock.ExpectExec(updateQuery).
		WithArgs("memos", []byte(`["m1"]`), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.Put(context.Background(), "memos", []byte(`["m1"]`), 3); err != nil {
		t.Fatalf("Put error: %v", err)
	}
}

// Covers both the stale-version overwrite and the delete-then-stale-write
// case: a nonzero version always goes through the UPDATE, which affects no
// rows when the stored version differs or the row is gone. The in-memory
// store conflicts on the same call.
func TestPostgresPut_StaleVersion(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	mock.ExpectExec(updateQuery).
		WithArgs("memos", []byte(`["m1"]`), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Put(context.Background(), "memos", []byte(`["m1"]`), 2)
	if !errors.Is(err, common.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
}

func TestPostgresPut_DBError(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	mock.ExpectExec(updateQuery).
		WithArgs("memos", []byte(`["m1"]`), int64(3)).
		WillReturnError(errors.New("db down"))

	err := store.Put(context.Background(), "memos", []byte(`["m1"]`), 3)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestPostgresDelete(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+collections\s+WHERE\s+key\s*=\s*\$1\s*$`
	mock.ExpectExec(q).WithArgs("memos").WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.Delete(context.Background(), "memos"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}
