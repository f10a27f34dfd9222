package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// User is an account allowed to run calculations.
type User struct {
	ID           int
	Login        string
	PasswordHash string
	Role         string
}

type Users interface {
	GetByLogin(ctx context.Context, login string) (User, error)
}

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// NormalizeDSN forces TLS unless the connection string already chooses a mode.
func NormalizeDSN(dsn string) string {
	if dsn == "" {
		dsn = "user=postgres dbname=postgres password=password sslmode=disable"
	}
	if strings.Contains(dsn, "sslmode=") {
		return dsn
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "sslmode=require"
	}
	return dsn + " sslmode=require"
}

func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", NormalizeDSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id       SERIAL PRIMARY KEY,
	login    TEXT UNIQUE NOT NULL,
	password TEXT NOT NULL,
	role     TEXT NOT NULL DEFAULT 'engineer'
);
CREATE TABLE IF NOT EXISTS catalogs (
	id           UUID PRIMARY KEY,
	name         TEXT NOT NULL,
	manufacturer TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS catalog_entries (
	catalog_id      UUID NOT NULL REFERENCES catalogs(id) ON DELETE CASCADE,
	position        INT NOT NULL,
	reference       TEXT NOT NULL,
	block_height_cm INT NOT NULL,
	spacing_cm      INT NOT NULL,
	topping_cm      DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_height_cm DOUBLE PRECISION NOT NULL DEFAULT 0,
	weight_kg_m     DOUBLE PRECISION NOT NULL DEFAULT 0,
	bands           JSONB NOT NULL,
	PRIMARY KEY (catalog_id, position)
);`

func (r *Postgres) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (r *Postgres) GetByLogin(ctx context.Context, login string) (User, error) {
	u := User{Login: login}
	query := "SELECT id, password, role FROM users WHERE login=$1"
	err := r.db.QueryRowContext(ctx, query, login).Scan(&u.ID, &u.PasswordHash, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user %q: %w", login, err)
	}
	return u, nil
}

// CreateUser stores a login with an already hashed password and returns its id.
func (r *Postgres) CreateUser(ctx context.Context, login, passwordHash, role string) (int, error) {
	if role == "" {
		role = "engineer"
	}
	var id int
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO users (login, password, role) VALUES ($1, $2, $3) RETURNING id",
		login, passwordHash, role).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create user %q: %w", login, err)
	}
	return id, nil
}
