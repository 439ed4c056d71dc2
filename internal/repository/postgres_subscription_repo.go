package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ysato/feedgate/internal/model"
)

// PostgresSubscriptionRepo はPostgreSQLを使用した購読リポジトリ。
type PostgresSubscriptionRepo struct {
	q Querier
}

// NewPostgresSubscriptionRepo はPostgresSubscriptionRepoを生成する。
// qには*sql.DBまたはトランザクションスコープの*sql.Txを渡す。
func NewPostgresSubscriptionRepo(q Querier) *PostgresSubscriptionRepo {
	return &PostgresSubscriptionRepo{q: q}
}

// FindByID は指定IDの購読を取得する。見つからない場合はnilを返す。
func (r *PostgresSubscriptionRepo) FindByID(ctx context.Context, id string) (*model.Subscription, error) {
	sub := &model.Subscription{}
	err := r.q.QueryRowContext(ctx,
		`SELECT id, user_id, feed_id, created_at
		 FROM subscriptions WHERE id = $1`,
		id,
	).Scan(&sub.ID, &sub.UserID, &sub.FeedID, &sub.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("購読の取得に失敗しました: %w", err)
	}

	return sub, nil
}

// ListByUserAndFeed はユーザーIDとフィードIDに一致する購読を全件返す。
// 重複行の検出のため件数を制限しない。
func (r *PostgresSubscriptionRepo) ListByUserAndFeed(ctx context.Context, userID, feedID string) ([]*model.Subscription, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, user_id, feed_id, created_at
		 FROM subscriptions WHERE user_id = $1 AND feed_id = $2
		 ORDER BY created_at ASC`,
		userID, feedID,
	)
	if err != nil {
		return nil, fmt.Errorf("ユーザーとフィードによる購読の検索に失敗しました: %w", err)
	}
	defer rows.Close()

	var subs []*model.Subscription
	for rows.Next() {
		sub := &model.Subscription{}
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.FeedID, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("購読行の読み取りに失敗しました: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("購読の走査に失敗しました: %w", err)
	}
	return subs, nil
}

// Create は新しいIDを採番して購読を作成する。
// (user_id, feed_id) の一意性制約違反はラップして返すため、IsUniqueViolationで判定できる。
func (r *PostgresSubscriptionRepo) Create(ctx context.Context, userID, feedID string) (*model.Subscription, error) {
	sub := &model.Subscription{
		ID:        uuid.New().String(),
		UserID:    userID,
		FeedID:    feedID,
		CreatedAt: time.Now(),
	}

	_, err := r.q.ExecContext(ctx,
		`INSERT INTO subscriptions (id, user_id, feed_id, created_at)
		 VALUES ($1, $2, $3, $4)`,
		sub.ID, sub.UserID, sub.FeedID, sub.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("購読の作成に失敗しました: %w", err)
	}

	return sub, nil
}

// ListByUserIDWithFeed はユーザーの購読一覧をフィード情報付きで返す。
func (r *PostgresSubscriptionRepo) ListByUserIDWithFeed(ctx context.Context, userID string) ([]SubscriptionWithFeed, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT s.id, s.user_id, s.feed_id, s.created_at,
		        f.title, f.link, f.type
		 FROM subscriptions s
		 JOIN feeds f ON s.feed_id = f.id
		 WHERE s.user_id = $1
		 ORDER BY s.created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("購読一覧（フィード情報付き）の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var results []SubscriptionWithFeed
	for rows.Next() {
		var info SubscriptionWithFeed
		if err := rows.Scan(
			&info.ID, &info.UserID, &info.FeedID, &info.CreatedAt,
			&info.FeedTitle, &info.FeedLink, &info.FeedType,
		); err != nil {
			return nil, fmt.Errorf("購読行（フィード情報付き）の読み取りに失敗しました: %w", err)
		}
		results = append(results, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("購読一覧（フィード情報付き）の走査に失敗しました: %w", err)
	}
	return results, nil
}

// Delete は指定IDの購読を削除する。
func (r *PostgresSubscriptionRepo) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("購読の削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("購読が見つかりません: %s", id)
	}
	return nil
}

// compile-time interface check
var _ SubscriptionRepository = (*PostgresSubscriptionRepo)(nil)
