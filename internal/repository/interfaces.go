// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"database/sql"

	"github.com/ysato/feedgate/internal/model"
)

// Querier はクエリ実行のインターフェース。
// *sql.DBと*sql.Txの両方が満たすため、リポジトリを単発クエリにも
// トランザクションスコープにも束縛できる。
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// FeedRepository はフィードデータの永続化インターフェース。
type FeedRepository interface {
	// FindByID は指定IDのフィードを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Feed, error)

	// FindByLink は正規リンクの完全一致でフィードを検索する。見つからない場合はnilを返す。
	// リンクによる重複排除の唯一の判定手段となる。
	FindByLink(ctx context.Context, link string) (*model.Feed, error)

	// Create は新しいIDを採番してメタデータを永続化し、作成されたフィードを返す。
	// FindByLinkで不在を確認した後、同一トランザクションスコープ内で実行すること。
	// link列の一意性制約違反はそのままエラーとして返すため、呼び出し側で
	// IsUniqueViolationにより競合判定を行う。
	Create(ctx context.Context, meta *model.FeedMetadata) (*model.Feed, error)
}

// SubscriptionRepository は購読データの永続化インターフェース。
type SubscriptionRepository interface {
	// FindByID は指定IDの購読を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Subscription, error)

	// ListByUserAndFeed はユーザーIDとフィードIDに一致する購読を全件返す。
	// 正常な状態では0件または1件だが、事前に重複が存在する異常状態を
	// 検出できるよう、件数を制限せずに返す。
	ListByUserAndFeed(ctx context.Context, userID, feedID string) ([]*model.Subscription, error)

	// Create は新しいIDを採番して購読を作成する。
	// (user_id, feed_id) の一意性制約違反はそのままエラーとして返すため、
	// 呼び出し側でIsUniqueViolationにより競合判定を行う。
	Create(ctx context.Context, userID, feedID string) (*model.Subscription, error)

	// ListByUserIDWithFeed はユーザーの購読一覧をフィード情報付きで返す。
	ListByUserIDWithFeed(ctx context.Context, userID string) ([]SubscriptionWithFeed, error)

	// Delete は指定IDの購読を削除する。
	Delete(ctx context.Context, id string) error
}

// SubscriptionWithFeed は購読とフィード情報を結合した構造体。
type SubscriptionWithFeed struct {
	model.Subscription
	FeedTitle string
	FeedLink  string
	FeedType  model.FeedType
}

// Store は発見リクエスト単位のトランザクションスコープを開始する。
type Store interface {
	// Begin は新しいトランザクションスコープを取得する。
	// 取得したスコープは成功・検証失敗・予期しないエラーの全ての経路で
	// 解放（CommitまたはRollback）しなければならない。
	Begin(ctx context.Context) (StoreTx, error)
}

// StoreTx は単一トランザクションに束縛されたリポジトリ群。
// フィード検索・フィード作成・購読作成は同一スコープ上で順次実行される。
type StoreTx interface {
	Feeds() FeedRepository
	Subscriptions() SubscriptionRepository

	// Commit はトランザクションを確定する。
	Commit() error
	// Rollback はトランザクションを破棄する。Commit後の呼び出しは無害。
	Rollback() error
}
