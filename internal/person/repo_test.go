package person

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mehmetcc/financeu/internal/tier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var columns = []string{"id", "email", "name", "password", "role", "membership_tier", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (PersonRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewPersonRepo(db, zap.NewNop()), mock
}

func TestGetByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT (.+) FROM persons WHERE lower\(email\) = lower\(\$1\)`).
		WithArgs("a@b.com").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), "a@b.com", "Ada", "$2a$hash", "user", "premium", now, now))

	p, err := repo.GetByEmail(context.Background(), " a@b.com ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, RoleUser, p.Role)
	assert.Equal(t, tier.Premium, p.MembershipTier)
	assert.Equal(t, "$2a$hash", p.Password)
}

func TestGetByEmailNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM persons`).
		WithArgs("nobody@b.com").
		WillReturnError(sql.ErrNoRows)

	p, err := repo.GetByEmail(context.Background(), "nobody@b.com")
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrPersonNotFound)
}

func TestGetByEmailPropagatesStoreErrors(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery(`SELECT (.+) FROM persons`).WillReturnError(boom)

	_, err := repo.GetByEmail(context.Background(), "a@b.com")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrPersonNotFound)
}

func TestCreateNormalizesAndDefaults(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO persons`).
		WithArgs("ada@b.com", "Ada", "hashed", RoleUser, tier.Free).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(7), "ada@b.com", "Ada", "hashed", "user", "free", now, now))

	p, err := repo.Create(context.Background(), &PersonDTO{Email: " Ada@B.com", Name: " Ada ", Password: "hashed"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, tier.Free, p.MembershipTier)
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO persons`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "persons_email_lower_key"})

	_, err := repo.Create(context.Background(), &PersonDTO{Email: "a@b.com", Name: "Ada", Password: "x"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestList(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT (.+) FROM persons ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(2), "b@b.com", "Bo", "h", "admin", "pro", now, now).
			AddRow(int64(1), "a@b.com", "Ada", "h", "user", "free", now, now))

	persons, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, persons, 2)
	assert.True(t, persons[0].IsAdmin())
	assert.False(t, persons[1].IsAdmin())
}

func TestUpdateTier(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE persons SET membership_tier`).
		WithArgs(int64(3), tier.Pro).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateTier(context.Background(), 3, tier.Pro))

	mock.ExpectExec(`UPDATE persons SET membership_tier`).
		WithArgs(int64(4), tier.Pro).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.UpdateTier(context.Background(), 4, tier.Pro), ErrPersonNotFound)

	assert.ErrorIs(t, repo.UpdateTier(context.Background(), 3, tier.Tier("gold")), tier.ErrUnknownTier)
}

func TestDelete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM persons WHERE id = \$1`).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 9), ErrPersonNotFound)
}

func TestPublicOmitsPassword(t *testing.T) {
	p := &Person{ID: 1, Email: "a@b.com", Name: "Ada", Password: "hash", Role: RoleUser, MembershipTier: tier.Free}
	pub := p.Public()
	assert.Equal(t, int64(1), pub.ID)
	assert.Equal(t, tier.Free, pub.MembershipTier)
}
