package postgres

import (
	"context"
	"fmt"
	"log"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/s21platform/chat-client/internal/config"
	"github.com/s21platform/chat-client/internal/model"
)

const defaultPeerLimit = 50

type Repository struct {
	connection *sqlx.DB
}

func New(cfg *config.Config) *Repository {
	conn, err := sqlx.Connect("postgres", cfg.PostgresDSN())
	if err != nil {
		log.Fatal("error connect: ", err)
	}

	return &Repository{
		connection: conn,
	}
}

func (r *Repository) Close() {
	_ = r.connection.Close()
}

// QueryConversation returns every message exchanged in either direction between the pair.
func (r *Repository) QueryConversation(ctx context.Context, pair model.Pair) ([]model.DurableMessage, error) {
	query, args, err := conversationQuery(pair).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var messages []model.DurableMessage
	err = r.connection.SelectContext(ctx, &messages, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	return messages, nil
}

func (r *Repository) InsertMessage(ctx context.Context, msg model.NewMessage) error {
	query, args, err := insertMessageQuery(msg).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.connection.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}

	return nil
}

// SearchPeers finds users whose email contains query, case-insensitively, excluding excludeID.
func (r *Repository) SearchPeers(ctx context.Context, query, excludeID string, limit uint64) (model.IdentityList, error) {
	sql, args, err := searchPeersQuery(query, excludeID, limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var peers model.IdentityList
	err = r.connection.SelectContext(ctx, &peers, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search peers: %w", err)
	}

	return peers, nil
}

func conversationQuery(pair model.Pair) sq.SelectBuilder {
	return sq.Select(
		"id",
		"sender_id",
		"recipient_id",
		"content",
		"timestamp",
	).
		From("chat_messages").
		Where(sq.Or{
			sq.And{
				sq.Eq{"sender_id": pair.CurrentUserID},
				sq.Eq{"recipient_id": pair.PeerID},
			},
			sq.And{
				sq.Eq{"sender_id": pair.PeerID},
				sq.Eq{"recipient_id": pair.CurrentUserID},
			},
		}).
		OrderBy("timestamp ASC").
		PlaceholderFormat(sq.Dollar)
}

func insertMessageQuery(msg model.NewMessage) sq.InsertBuilder {
	return sq.Insert("chat_messages").
		Columns("sender_id", "recipient_id", "content").
		Values(msg.SenderID, msg.RecipientID, msg.Content).
		PlaceholderFormat(sq.Dollar)
}

func searchPeersQuery(query, excludeID string, limit uint64) sq.SelectBuilder {
	if limit == 0 {
		limit = defaultPeerLimit
	}

	builder := sq.Select("id", "email").
		From("users").
		Where(sq.NotEq{"id": excludeID}).
		OrderBy("email ASC").
		Limit(limit).
		PlaceholderFormat(sq.Dollar)

	if query != "" {
		builder = builder.Where(sq.ILike{"email": "%" + query + "%"})
	}

	return builder
}
