package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ysato/feedgate/internal/model"
)

// PostgresFeedRepo はPostgreSQLを使用したフィードリポジトリ。
type PostgresFeedRepo struct {
	q Querier
}

// NewPostgresFeedRepo はPostgresFeedRepoを生成する。
// qには*sql.DBまたはトランザクションスコープの*sql.Txを渡す。
func NewPostgresFeedRepo(q Querier) *PostgresFeedRepo {
	return &PostgresFeedRepo{q: q}
}

// FindByID は指定IDのフィードを取得する。見つからない場合はnilを返す。
func (r *PostgresFeedRepo) FindByID(ctx context.Context, id string) (*model.Feed, error) {
	feed, err := r.findOne(ctx,
		`SELECT id, title, link, description, image, type, created_at
		 FROM feeds WHERE id = $1`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("フィードの取得に失敗しました: %w", err)
	}
	return feed, nil
}

// FindByLink は正規リンクの完全一致でフィードを検索する。見つからない場合はnilを返す。
func (r *PostgresFeedRepo) FindByLink(ctx context.Context, link string) (*model.Feed, error) {
	feed, err := r.findOne(ctx,
		`SELECT id, title, link, description, image, type, created_at
		 FROM feeds WHERE link = $1`,
		link,
	)
	if err != nil {
		return nil, fmt.Errorf("リンクによるフィードの検索に失敗しました: %w", err)
	}
	return feed, nil
}

// findOne は単一フィード行を取得する共通処理。該当行がない場合は(nil, nil)を返す。
func (r *PostgresFeedRepo) findOne(ctx context.Context, query string, arg any) (*model.Feed, error) {
	feed := &model.Feed{}
	var image sql.NullString

	err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&feed.ID, &feed.Title, &feed.Link, &feed.Description,
		&image, &feed.Type, &feed.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	feed.Image = nullStringValue(image)
	return feed, nil
}

// Create は新しいIDを採番してメタデータを永続化し、作成されたフィードを返す。
// link列の一意性制約違反はラップして返すため、IsUniqueViolationで判定できる。
func (r *PostgresFeedRepo) Create(ctx context.Context, meta *model.FeedMetadata) (*model.Feed, error) {
	feed := &model.Feed{
		ID:          uuid.New().String(),
		Title:       meta.Title,
		Link:        meta.Link,
		Description: meta.Description,
		Image:       meta.Image,
		Type:        meta.Type,
		CreatedAt:   time.Now(),
	}

	_, err := r.q.ExecContext(ctx,
		`INSERT INTO feeds (id, title, link, description, image, type, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		feed.ID, feed.Title, feed.Link, feed.Description,
		nullString(feed.Image), feed.Type, feed.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("フィードの作成に失敗しました: %w", err)
	}

	return feed, nil
}

// nullString は空文字列をsql.NullStringに変換する。
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullStringValue はsql.NullStringから文字列を取得する。
func nullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// compile-time interface check
var _ FeedRepository = (*PostgresFeedRepo)(nil)
