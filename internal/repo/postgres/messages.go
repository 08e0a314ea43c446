package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/clubhouse/messageboard/internal/domain/message"
	"github.com/clubhouse/messageboard/internal/observability"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrEmptyMessage = errors.New("message title and body must not be empty")

type MessagesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewMessagesRepo(pool *pgxpool.Pool, prom *observability.Prom) *MessagesRepo {
	return &MessagesRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *MessagesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *MessagesRepo) Create(ctx context.Context, title, body, authorID string) (message.Message, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)

	if title == "" || body == "" {
		return message.Message{}, ErrEmptyMessage
	}

	m := message.Message{
		ID:        uuid.NewString(),
		Title:     title,
		Body:      body,
		CreatedAt: time.Now().UTC(),
		AuthorID:  &authorID,
	}

	err := r.observe("messages.create", func() error {
		_, execErr := r.pool.Exec(ctx,
			`INSERT INTO messages (id, title, body, created_at, author_id)
			VALUES ($1,$2,$3,$4,$5)
			`,
			m.ID, m.Title, m.Body, m.CreatedAt, m.AuthorID,
		)
		return execErr
	})

	if err != nil {
		return message.Message{}, err
	}

	return m, nil
}

// ListWithAuthors returns every message in ascending timestamp order with the
// author's display name resolved. The LEFT JOIN keeps messages whose author
// was deleted; those render with an empty author name.
func (r *MessagesRepo) ListWithAuthors(ctx context.Context) ([]message.Message, error) {
	out := make([]message.Message, 0)

	err := r.observe("messages.list", func() error {
		rows, err := r.pool.Query(ctx, `
			SELECT m.id, m.title, m.body, m.created_at, m.author_id,
				COALESCE(trim(u.first_name || ' ' || u.last_name), '') AS author_name
			FROM messages m
			LEFT JOIN users u ON u.id = m.author_id
			ORDER BY m.created_at ASC, m.id ASC
		`)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var m message.Message

			err := rows.Scan(&m.ID, &m.Title, &m.Body, &m.CreatedAt, &m.AuthorID, &m.AuthorName)

			if err != nil {
				return err
			}

			out = append(out, m)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

// Delete is idempotent: deleting an id that does not exist is not an error.
// A malformed id cannot name an existing row either, so it is the same no-op.
func (r *MessagesRepo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}

	return r.observe("messages.delete", func() error {
		_, err := r.pool.Exec(ctx, `
			DELETE FROM messages
			WHERE id = $1
		`, id)

		return err
	})
}
