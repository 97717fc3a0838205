package entries

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/lockwise/internal/common"
	"github.com/dmitrijs2005/lockwise/internal/server/models"
)

const (
	insertQuery = `(?s)^INSERT\s+INTO\s+password_entries\s*\(user_id,\s*payload,\s*nonce\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,\s*created_at,\s*updated_at\s*$`
	listQuery   = `(?s)^SELECT\s+id,\s*user_id,\s*payload,\s*nonce,\s*created_at,\s*updated_at\s+FROM\s+password_entries\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at,\s*id\s*$`
	getQuery    = `(?s)^SELECT\s+id,\s*user_id,\s*payload,\s*nonce,\s*created_at,\s*updated_at\s+FROM\s+password_entries\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s+FOR\s+UPDATE\s*$`
	updateQuery = `(?s)^UPDATE\s+password_entries\s+SET\s+payload\s*=\s*\$3,\s*nonce\s*=\s*\$4,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s+RETURNING\s+created_at,\s*updated_at\s*$`
	deleteQuery = `(?s)^DELETE\s+FROM\s+password_entries\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`

	userID  = "6f1c2a7e-2b7d-4a51-9a39-0f6f5c1d2e3f"
	entryID = "0b0e7a53-5d2c-4a55-8a0c-9a1f3e7c2d11"
)

var entryColumns = []string{"id", "user_id", "payload", "nonce", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(insertQuery).
		WithArgs(userID, []byte("ct"), []byte("nonce")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(entryID, now, now))

	got, err := repo.Create(context.Background(), &models.Entry{UserID: userID, Payload: []byte("ct"), Nonce: []byte("nonce")})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != entryID || !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).WillReturnError(errors.New("conn refused"))

	if _, err := repo.Create(context.Background(), &models.Entry{UserID: userID}); err == nil {
		t.Fatal("expected error")
	}
}

func TestListByUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(entryColumns).
		AddRow(entryID, userID, []byte("a"), []byte("n1"), now, now).
		AddRow("1c6b2f0e-8e55-4c52-8f0f-2a0e6d3e9b77", userID, []byte("b"), []byte("n2"), now, now)
	mock.ExpectQuery(listQuery).WithArgs(userID).WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	if len(got) != 2 || got[0].ID != entryID || string(got[1].Payload) != "b" {
		t.Fatalf("unexpected entries: %+v", got)
	}
}

func TestListByUser_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQuery).WithArgs(userID).WillReturnRows(sqlmock.NewRows(entryColumns))

	got, err := repo.ListByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", got)
	}
}

func TestGet(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(getQuery).WithArgs(entryID, userID).
		WillReturnRows(sqlmock.NewRows(entryColumns).AddRow(entryID, userID, []byte("ct"), []byte("n"), now, now))

	got, err := repo.Get(context.Background(), userID, entryID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.ID != entryID || string(got.Nonce) != "n" {
		t.Fatalf("unexpected entry: %+v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getQuery).WithArgs(entryID, userID).WillReturnError(sql.ErrNoRows)

	if _, err := repo.Get(context.Background(), userID, entryID); !errors.Is(err, common.ErrEntryNotFound) {
		t.Fatalf("want ErrEntryNotFound, got %v", err)
	}
}

func TestMalformedIDs_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()
	ctx := context.Background()

	if _, err := repo.Get(ctx, userID, "nope"); !errors.Is(err, common.ErrEntryNotFound) {
		t.Fatalf("Get: %v", err)
	}
	if _, err := repo.Update(ctx, &models.Entry{ID: "nope", UserID: userID}); !errors.Is(err, common.ErrEntryNotFound) {
		t.Fatalf("Update: %v", err)
	}
	if err := repo.Delete(ctx, userID, "nope"); !errors.Is(err, common.ErrEntryNotFound) {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no query expected: %v", err)
	}
}

func TestUpdate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Now().Add(-time.Hour)
	now := time.Now()
	mock.ExpectQuery(updateQuery).
		WithArgs(entryID, userID, []byte("ct2"), []byte("n2")).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(created, now))

	got, err := repo.Update(context.Background(), &models.Entry{ID: entryID, UserID: userID, Payload: []byte("ct2"), Nonce: []byte("n2")})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if !got.CreatedAt.Equal(created) || !got.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected timestamps: %+v", got)
	}
}

func TestUpdate_OtherUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(updateQuery).WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), &models.Entry{ID: entryID, UserID: "someone-else"})
	if !errors.Is(err, common.ErrEntryNotFound) {
		t.Fatalf("want ErrEntryNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteQuery).WithArgs(entryID, userID).WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Delete(context.Background(), userID, entryID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	mock.ExpectExec(deleteQuery).WithArgs(entryID, userID).WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Delete(context.Background(), userID, entryID); !errors.Is(err, common.ErrEntryNotFound) {
		t.Fatalf("want ErrEntryNotFound on second delete, got %v", err)
	}

	mock.ExpectExec(deleteQuery).WillReturnError(errors.New("conn refused"))
	if err := repo.Delete(context.Background(), userID, entryID); err == nil || errors.Is(err, common.ErrEntryNotFound) {
		t.Fatalf("want db error, got %v", err)
	}
}
