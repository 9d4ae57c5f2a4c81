package sessions

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const (
	insertQ        = `(?s)^\s*INSERT\s+INTO\s+sessions\s*\(id,\s*account_id,\s*token_hash,\s*expires_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*$`
	selectByAcctQ  = `(?s)^\s*SELECT\s+id,\s*account_id,\s*token_hash,\s*expires_at,\s*created_at,\s*updated_at\s+FROM\s+sessions\s+WHERE\s+account_id\s*=\s*\$1\s*$`
	selectAllQ     = `(?s)^\s*SELECT\s+id,\s*account_id,\s*token_hash,\s*expires_at,\s*created_at,\s*updated_at\s+FROM\s+sessions\s*$`
	deleteByIDQ    = `(?s)^\s*DELETE\s+FROM\s+sessions\s+WHERE\s+id\s*=\s*\$1\s*$`
	deleteExpiredQ = `(?s)^\s*DELETE\s+FROM\s+sessions\s+WHERE\s+expires_at\s*<=\s*\$1\s*$`
)

var sessionColumns = []string{"id", "account_id", "token_hash", "expires_at", "created_at", "updated_at"}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	expires := time.Now().Add(7 * 24 * time.Hour)
	mock.ExpectExec(insertQ).
		WithArgs(sqlmock.AnyArg(), "acc-1", []byte("hash"), expires).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := repo.Create(context.Background(), "acc-1", []byte("hash"), expires)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("id is not a uuid: %q", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).
		WithArgs(sqlmock.AnyArg(), "acc-1", []byte("hash"), sqlmock.AnyArg()).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), "acc-1", []byte("hash"), time.Now())
	if err == nil || !regexp.MustCompile(`error performing sql request: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFindByAccount_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(sessionColumns).
		AddRow("s1", "acc-1", []byte("h1"), now.Add(time.Hour), now, now).
		AddRow("s2", "acc-1", []byte("h2"), now.Add(-time.Hour), now, now)
	mock.ExpectQuery(selectByAcctQ).WithArgs("acc-1").WillReturnRows(rows)

	got, err := repo.FindByAccount(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "s1" || string(got[1].TokenHash) != "h2" {
		t.Fatalf("unexpected rows: %+v", got)
	}
}

func TestFindByAccount_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectByAcctQ).WithArgs("ghost").WillReturnRows(sqlmock.NewRows(sessionColumns))

	got, err := repo.FindByAccount(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no rows, got %d", len(got))
	}
}

func TestFindByAccount_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectByAcctQ).WithArgs("acc-1").WillReturnError(errors.New("db err"))

	_, err := repo.FindByAccount(context.Background(), "acc-1")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFindByAccount_ScanError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(sessionColumns).AddRow("s1", "acc-1", []byte("h"), "not-a-time", "x", "y")
	mock.ExpectQuery(selectByAcctQ).WithArgs("acc-1").WillReturnRows(rows)

	if _, err := repo.FindByAccount(context.Background(), "acc-1"); err == nil {
		t.Fatal("expected scan error")
	}
}

func TestFindAll_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(sessionColumns).
		AddRow("s1", "acc-1", []byte("h1"), now, now, now).
		AddRow("s2", "acc-2", []byte("h2"), now, now, now)
	mock.ExpectQuery(selectAllQ).WillReturnRows(rows)

	got, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[1].AccountID != "acc-2" {
		t.Fatalf("unexpected rows: %+v", got)
	}
}

func TestFindAll_RowError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(sessionColumns).
		AddRow("s1", "acc-1", []byte("h1"), now, now, now).
		RowError(0, errors.New("row broke"))
	mock.ExpectQuery(selectAllQ).WillReturnRows(rows)

	_, err := repo.FindAll(context.Background())
	if err == nil || !regexp.MustCompile(`db error: .*row broke`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped row error, got %v", err)
	}
}

func TestDeleteByID_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteByIDQ).WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteByID(context.Background(), "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteByID_MissingIsNotAnError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteByIDQ).WithArgs("gone").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteByID(context.Background(), "gone"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteByID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteByIDQ).WithArgs("s1").WillReturnError(errors.New("db err"))

	err := repo.DeleteByID(context.Background(), "s1")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestDeleteExpired(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(deleteExpiredQ).WithArgs(now).WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 rows removed, got %d", n)
	}
}

func TestDeleteExpired_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteExpiredQ).WithArgs(sqlmock.AnyArg()).WillReturnError(errors.New("db err"))

	if _, err := repo.DeleteExpired(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error")
	}
}
