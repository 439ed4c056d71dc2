package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore は*sql.DBを基盤とするStore実装。
// 発見リクエストごとに単一のトランザクションスコープを払い出す。
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore はPostgresStoreを生成する。
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Begin は新しいトランザクションスコープを開始する。
func (s *PostgresStore) Begin(ctx context.Context) (StoreTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	return &postgresStoreTx{tx: tx}, nil
}

// postgresStoreTx は単一の*sql.Txに束縛されたStoreTx実装。
// Feeds/Subscriptionsが返すリポジトリは全て同一トランザクション上で動作する。
type postgresStoreTx struct {
	tx *sql.Tx
}

// Feeds はこのトランザクションに束縛されたフィードリポジトリを返す。
func (t *postgresStoreTx) Feeds() FeedRepository {
	return NewPostgresFeedRepo(t.tx)
}

// Subscriptions はこのトランザクションに束縛された購読リポジトリを返す。
func (t *postgresStoreTx) Subscriptions() SubscriptionRepository {
	return NewPostgresSubscriptionRepo(t.tx)
}

// Commit はトランザクションを確定する。
func (t *postgresStoreTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションの確定に失敗しました: %w", err)
	}
	return nil
}

// Rollback はトランザクションを破棄する。
// Commit済みの場合はsql.ErrTxDoneを無視して正常終了するため、
// deferによる確実な解放に使用できる。
func (t *postgresStoreTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return fmt.Errorf("トランザクションの破棄に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var (
	_ Store   = (*PostgresStore)(nil)
	_ StoreTx = (*postgresStoreTx)(nil)
)
