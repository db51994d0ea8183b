package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/avoronova/bankledger/internal/logger"
	"github.com/avoronova/bankledger/internal/models"
)

// pgUniqueViolation is the Postgres SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

// ClientRepository stores clients in Postgres. It runs against whatever
// executor it is constructed with: the shared pool for plain reads, or a
// transaction handle when handed out by the Unit of Work.
type ClientRepository struct {
	db sqlx.ExtContext
}

// NewClientRepository creates a new ClientRepository.
func NewClientRepository(db sqlx.ExtContext) *ClientRepository {
	return &ClientRepository{db: db}
}

// Add stores a new client, assigning an id if absent. A login collision
// surfaces as models.ErrLoginTaken.
func (r *ClientRepository) Add(ctx context.Context, client *models.Client) error {
	const query = `
		INSERT INTO clients (id, login, password_hash)
		VALUES ($1, $2, $3)
	`

	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}

	_, err := r.db.ExecContext(ctx, query, client.ID, client.Login, client.PasswordHash)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{client.ID, client.Login},
		"error", err,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return models.ErrLoginTaken
	}
	return err
}

// GetByID returns the client with the given id, or (nil, nil) when absent.
func (r *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	const query = `
		SELECT id, login, password_hash
		FROM clients
		WHERE id = $1
	`

	var client models.Client
	err := sqlx.GetContext(ctx, r.db, &client, query, id)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// GetByLogin returns the client with the given login, or (nil, nil) when absent.
func (r *ClientRepository) GetByLogin(ctx context.Context, login string) (*models.Client, error) {
	const query = `
		SELECT id, login, password_hash
		FROM clients
		WHERE login = $1
	`

	var client models.Client
	err := sqlx.GetContext(ctx, r.db, &client, query, login)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{login},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// Update overwrites the client's login and password digest.
func (r *ClientRepository) Update(ctx context.Context, client *models.Client) error {
	const query = `
		UPDATE clients
		SET login = $2, password_hash = $3
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, client.ID, client.Login, client.PasswordHash)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{client.ID, client.Login},
		"result", rowsAffected,
		"error", err,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return models.ErrLoginTaken
	}
	return err
}
