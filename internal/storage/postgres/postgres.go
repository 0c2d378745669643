package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"contact_keeper/internal/config"
	"contact_keeper/internal/models"
	"contact_keeper/internal/storage"
	"contact_keeper/internal/storage/postgres/migrations"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepo struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, cfg *config.Config) (*PostgresRepo, error) {
	const op = "storage.postgres.New"

	dsn := dsn(cfg)

	if err := migrate(ctx, dsn); err != nil {
		return nil, fmt.Errorf("%s: failed to apply migrations: %w", op, err)
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse config: %w", op, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create pool: %w", op, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	return &PostgresRepo{pool: pool}, nil
}

func migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

func (r *PostgresRepo) SaveUser(ctx context.Context, name, email string, passHash []byte) (int64, error) {
	const op = "storage.postgres.SaveUser"

	query := `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id;
	`

	var id int64

	err := r.pool.QueryRow(ctx, query, name, email, string(passHash)).Scan(&id)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return 0, storage.ErrUserExists
		}

		return 0, fmt.Errorf("%s: failed to save user: %w", op, err)
	}

	return id, nil
}

func (r *PostgresRepo) UserByEmail(ctx context.Context, email string) (models.User, error) {
	query := `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE email = $1;
	`

	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *PostgresRepo) UserByID(ctx context.Context, id int64) (models.User, error) {
	query := `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE id = $1;
	`

	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PostgresRepo) scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PassHash,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrUserNotFound
		}

		return models.User{}, err
	}

	return u, nil
}

func (r *PostgresRepo) SaveContact(ctx context.Context, c models.Contact) (models.Contact, error) {
	const op = "storage.postgres.SaveContact"

	query := `
		INSERT INTO contacts (user_id, name, email, phone, type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at;
	`

	err := r.pool.QueryRow(ctx, query, c.UserID, c.Name, c.Email, c.Phone, c.Type).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return models.Contact{}, fmt.Errorf("%s: failed to save contact: %w", op, err)
	}

	return c, nil
}

func (r *PostgresRepo) ContactByID(ctx context.Context, id int64) (models.Contact, error) {
	query := `
		SELECT id, user_id, name, email, phone, type, created_at
		FROM contacts
		WHERE id = $1;
	`

	var c models.Contact
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Type,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Contact{}, storage.ErrContactNotFound
		}

		return models.Contact{}, err
	}

	return c, nil
}

func (r *PostgresRepo) ContactsByOwner(ctx context.Context, ownerID int64) ([]models.Contact, error) {
	const op = "storage.postgres.ContactsByOwner"

	query := `
		SELECT id, user_id, name, email, phone, type, created_at
		FROM contacts
		WHERE user_id = $1
		ORDER BY id;
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	return scanContacts(rows)
}

// FindDuplicates returns the owner's contacts whose email or phone equals the
// submitted values. A nil email/phone never matches. excludeID skips the
// contact being updated; pass 0 on create.
func (r *PostgresRepo) FindDuplicates(ctx context.Context, ownerID int64, email, phone *string, excludeID int64) ([]models.Contact, error) {
	const op = "storage.postgres.FindDuplicates"

	query := `
		SELECT id, user_id, name, email, phone, type, created_at
		FROM contacts
		WHERE user_id = $1
		  AND (email = $2 OR phone = $3)
		  AND id <> $4
		ORDER BY id;
	`

	rows, err := r.pool.Query(ctx, query, ownerID, email, phone, excludeID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	return scanContacts(rows)
}

func (r *PostgresRepo) UpdateContact(ctx context.Context, id int64, patch models.ContactPatch) (models.Contact, error) {
	const op = "storage.postgres.UpdateContact"

	query := `
		UPDATE contacts
		SET name  = COALESCE($2, name),
		    email = COALESCE($3, email),
		    phone = COALESCE($4, phone),
		    type  = COALESCE($5, type)
		WHERE id = $1
		RETURNING id, user_id, name, email, phone, type, created_at;
	`

	var c models.Contact
	err := r.pool.QueryRow(ctx, query, id, patch.Name, patch.Email, patch.Phone, patch.Type).Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Type,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Contact{}, storage.ErrContactNotFound
		}

		return models.Contact{}, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (r *PostgresRepo) DeleteContact(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeleteContact"

	tag, err := r.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrContactNotFound
	}

	return nil
}

func (r *PostgresRepo) Close() {
	r.pool.Close()
}

func scanContacts(rows pgx.Rows) ([]models.Contact, error) {
	var contacts []models.Contact

	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.Name,
			&c.Email,
			&c.Phone,
			&c.Type,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}

	return contacts, rows.Err()
}

func dsn(cfg *config.Config) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)
}
