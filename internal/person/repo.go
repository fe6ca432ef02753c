package person

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mehmetcc/financeu/internal/tier"
	"go.uber.org/zap"
)

type PersonDTO struct {
	Email    string
	Name     string
	Password string
}

type PersonRepo interface {
	Create(ctx context.Context, dto *PersonDTO) (*Person, error)
	GetByEmail(ctx context.Context, email string) (*Person, error)
	GetByID(ctx context.Context, id int64) (*Person, error)
	List(ctx context.Context) ([]*Person, error)
	UpdateTier(ctx context.Context, id int64, t tier.Tier) error
	UpdateRole(ctx context.Context, id int64, role Role) error
	Delete(ctx context.Context, id int64) error
}

type personRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPersonRepo(db *sql.DB, logger *zap.Logger) PersonRepo {
	return &personRepo{
		db:     db,
		logger: logger,
	}
}

const (
	personColumns = `id, email, name, password, role, membership_tier, created_at, updated_at`

	insertPersonQuery = `
						INSERT INTO persons (email, name, password, role, membership_tier)
						VALUES ($1, $2, $3, $4, $5)
						RETURNING ` + personColumns
	selectPersonByEmailQuery = `
						SELECT ` + personColumns + `
						FROM persons
						WHERE lower(email) = lower($1)
						`
	selectPersonByIDQuery = `
						SELECT ` + personColumns + `
						FROM persons
						WHERE id = $1
						`
	listPersonsQuery = `
						SELECT ` + personColumns + `
						FROM persons
						ORDER BY created_at DESC
						`
	updateTierQuery = `
						UPDATE persons
						SET membership_tier = $2, updated_at = now()
						WHERE id = $1
						`
	updateRoleQuery = `
						UPDATE persons
						SET role = $2, updated_at = now()
						WHERE id = $1
						`
	deletePersonQuery = `
						DELETE FROM persons WHERE id = $1
						`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (*Person, error) {
	var p Person
	if err := row.Scan(
		&p.ID,
		&p.Email,
		&p.Name,
		&p.Password,
		&p.Role,
		&p.MembershipTier,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *personRepo) Create(ctx context.Context, dto *PersonDTO) (*Person, error) {
	row := p.db.QueryRowContext(ctx,
		insertPersonQuery,
		strings.ToLower(strings.TrimSpace(dto.Email)),
		strings.TrimSpace(dto.Name),
		dto.Password,
		RoleUser,
		tier.Free,
	)

	created, err := scanPerson(row)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			p.logger.Warn("create person canceled/timed out", zap.Error(err))
			return nil, err
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == pgerrcode.UniqueViolation {
				p.logger.Debug("duplicate email",
					zap.String("email", dto.Email),
					zap.String("constraint", pgErr.ConstraintName),
				)
				return nil, ErrDuplicateEmail
			}
			p.logger.Error("postgres error",
				zap.String("code", pgErr.Code),
				zap.String("msg", pgErr.Message),
				zap.String("detail", pgErr.Detail),
			)
			return nil, err
		}

		p.logger.Error("driver/scan error", zap.Error(err))
		return nil, err
	}

	p.logger.Debug("person created", zap.Int64("id", created.ID))
	return created, nil
}

func (p *personRepo) GetByEmail(ctx context.Context, email string) (*Person, error) {
	found, err := scanPerson(p.db.QueryRowContext(ctx, selectPersonByEmailQuery, strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPersonNotFound
		}
		p.logger.Error("failed to get person by email", zap.Error(err))
		return nil, err
	}
	return found, nil
}

func (p *personRepo) GetByID(ctx context.Context, id int64) (*Person, error) {
	found, err := scanPerson(p.db.QueryRowContext(ctx, selectPersonByIDQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPersonNotFound
		}
		p.logger.Error("failed to get person by id", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return found, nil
}

func (p *personRepo) List(ctx context.Context) ([]*Person, error) {
	rows, err := p.db.QueryContext(ctx, listPersonsQuery)
	if err != nil {
		p.logger.Error("failed to list persons", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	persons := make([]*Person, 0)
	for rows.Next() {
		found, err := scanPerson(rows)
		if err != nil {
			p.logger.Error("failed to scan person", zap.Error(err))
			return nil, err
		}
		persons = append(persons, found)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("failed to iterate persons", zap.Error(err))
		return nil, err
	}
	return persons, nil
}

func (p *personRepo) UpdateTier(ctx context.Context, id int64, t tier.Tier) error {
	if !t.Valid() {
		return tier.ErrUnknownTier
	}
	return p.execAffectingOne(ctx, "update tier", updateTierQuery, id, t)
}

func (p *personRepo) UpdateRole(ctx context.Context, id int64, role Role) error {
	return p.execAffectingOne(ctx, "update role", updateRoleQuery, id, role)
}

func (p *personRepo) Delete(ctx context.Context, id int64) error {
	return p.execAffectingOne(ctx, "delete person", deletePersonQuery, id)
}

// execAffectingOne runs query and returns ErrPersonNotFound when no row was
// touched.
func (p *personRepo) execAffectingOne(ctx context.Context, op, query string, args ...any) error {
	res, err := p.db.ExecContext(ctx, query, args...)
	if err != nil {
		p.logger.Error("failed to "+op, zap.Error(err))
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		p.logger.Debug(op+": no rows affected", zap.Any("args", args))
		return ErrPersonNotFound
	}
	return nil
}
