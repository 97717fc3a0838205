package templates

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/lockwise/internal/biometrics"
	"github.com/dmitrijs2005/lockwise/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	userID = "6f1c2a7e-2b7d-4a51-9a39-0f6f5c1d2e3f"

	getQuery     = `(?s)^SELECT\s+descriptor,\s*version,\s*created_at,\s*updated_at\s+FROM\s+face_templates\s+WHERE\s+user_id\s*=\s*\$1\s*$`
	putQuery     = `(?s)^INSERT\s+INTO\s+face_templates\s*\(user_id,\s*descriptor,\s*version\)\s*VALUES\s*\(\$1,\s*\$2,\s*nextval\('face_template_versions'\)\).*ON\s+CONFLICT\s*\(user_id\)\s+DO\s+UPDATE.*version\s*=\s*EXCLUDED\.version.*RETURNING\s+version,\s*created_at,\s*updated_at\s*$`
	updateQuery  = `(?s)^UPDATE\s+face_templates\s+SET\s+descriptor\s*=\s*\$2,\s*version\s*=\s*nextval\('face_template_versions'\).*WHERE\s+user_id\s*=\s*\$1\s+AND\s+version\s*=\s*\$3.*RETURNING\s+version`
	versionQuery = `(?s)^SELECT\s+version\s+FROM\s+face_templates\s+WHERE\s+user_id\s*=\s*\$1$`
	deleteQuery  = `(?s)^DELETE\s+FROM\s+face_templates\s+WHERE\s+user_id\s*=\s*\$1\s*$`
)

// float8Array matches the text form lib/pq produces for a float8[] parameter.
type float8Array string

func (a float8Array) Match(v driver.Value) bool {
	switch t := v.(type) {
	case string:
		return t == string(a)
	case []byte:
		return string(t) == string(a)
	}
	return false
}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestPostgresGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"descriptor", "version", "created_at", "updated_at"}).
		AddRow([]byte("{0.1,NaN,-2.5}"), int64(4), now, now)
	mock.ExpectQuery(getQuery).WithArgs(userID).WillReturnRows(rows)

	got, err := repo.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Version != 4 || len(got.Descriptor) != 3 {
		t.Fatalf("unexpected template: %+v", got)
	}
	if got.Descriptor[0] != 0.1 || !math.IsNaN(got.Descriptor[1]) || got.Descriptor[2] != -2.5 {
		t.Fatalf("unexpected descriptor: %v", got.Descriptor)
	}
}

func TestPostgresGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getQuery).WithArgs(userID).WillReturnError(sql.ErrNoRows)

	if _, err := repo.Get(context.Background(), userID); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestPostgresGet_MalformedID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	if _, err := repo.Get(context.Background(), "u1"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no query expected: %v", err)
	}
}

func TestPostgresGet_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getQuery).WithArgs(userID).WillReturnError(errors.New("db down"))

	_, err := repo.Get(context.Background(), userID)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestPostgresPut(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(putQuery).
		WithArgs(userID, float8Array("{1,2.5}")).
		WillReturnRows(sqlmock.NewRows([]string{"version", "created_at", "updated_at"}).AddRow(int64(2), now, now))

	d := biometrics.Descriptor{1, 2.5}
	got, err := repo.Put(context.Background(), userID, d)
	if err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if got.Version != 2 || got.UserID != userID {
		t.Fatalf("unexpected template: %+v", got)
	}
	d[0] = 99
	if got.Descriptor[0] != 1 {
		t.Fatal("returned template aliases caller descriptor")
	}
}

func TestPostgresPut_UnknownUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(putQuery).
		WithArgs(userID, sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	if _, err := repo.Put(context.Background(), userID, biometrics.Descriptor{1}); !errors.Is(err, common.ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
}

func TestPostgresUpdateReference_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(updateQuery).
		WithArgs(userID, float8Array("{0.8,1.6}"), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"version", "created_at", "updated_at"}).AddRow(int64(4), now, now))

	got, err := repo.UpdateReference(context.Background(), userID, 3, biometrics.Descriptor{0.8, 1.6})
	if err != nil {
		t.Fatalf("UpdateReference error: %v", err)
	}
	if got.Version != 4 {
		t.Fatalf("want version 4, got %d", got.Version)
	}
}

func TestPostgresUpdateReference_Conflict(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(updateQuery).
		WithArgs(userID, sqlmock.AnyArg(), int64(3)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(versionQuery).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(int64(5)))

	_, err := repo.UpdateReference(context.Background(), userID, 3, biometrics.Descriptor{1})
	if !errors.Is(err, common.ErrVersionConflict) {
		t.Fatalf("want ErrVersionConflict, got %v", err)
	}
}

func TestPostgresUpdateReference_Missing(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(updateQuery).
		WithArgs(userID, sqlmock.AnyArg(), int64(1)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(versionQuery).
		WithArgs(userID).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateReference(context.Background(), userID, 1, biometrics.Descriptor{1})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestPostgresDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteQuery).WithArgs(userID).WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), userID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := repo.Delete(context.Background(), "not-a-uuid"); err != nil {
		t.Fatalf("Delete of malformed id should be a no-op, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
