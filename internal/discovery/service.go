// Package discovery はフィード発見・購読登録のドメインロジックを提供する。
package discovery

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ysato/feedgate/internal/event"
	"github.com/ysato/feedgate/internal/model"
	"github.com/ysato/feedgate/internal/repository"
)

// Fetcher は候補URLの取得とContent-Type検証のインターフェース。
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Extractor はフィードXMLからのメタデータ抽出のインターフェース。
type Extractor interface {
	Extract(body []byte, requestURL string) (*model.FeedMetadata, error)
}

// MetricsRecorder は発見操作のメトリクス記録のインターフェース。
type MetricsRecorder interface {
	RecordDiscoverySuccess()
	RecordDiscoveryFailure(code string)
	RecordDiscoveryLatency(duration time.Duration)
}

// Result は発見操作の終端結果を表す。
// 成功時はFeedが設定され、失敗時はErrorCodesに閉じた語彙のコードが入る。
// 途中で失敗した操作が成功として報告されることはない。
type Result struct {
	Feed       *model.Feed
	ErrorCodes []model.ErrorCode
}

// Succeeded は結果が成功かどうかを返す。
func (r Result) Succeeded() bool {
	return r.Feed != nil && len(r.ErrorCodes) == 0
}

// Service はフィード発見のオーケストレータ。
// リンクによる既存フィード検索 → （既知なら）購読登録、（未知なら）
// フェッチ → 抽出 → フィード作成 → 購読作成 → イベント発行のフローを統括する。
type Service struct {
	store     repository.Store
	fetcher   Fetcher
	extractor Extractor
	publisher event.Publisher
	logger    *slog.Logger
	metrics   MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilを許容する（記録なしで動作する）。
func NewService(
	store repository.Store,
	fetcher Fetcher,
	extractor Extractor,
	publisher event.Publisher,
	logger *slog.Logger,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		store:     store,
		fetcher:   fetcher,
		extractor: extractor,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// AddDiscoverFeed は候補URLをフィードとして検証し、呼び出しユーザーとの
// 購読関係を確立する。結果は必ず成功または型付き失敗のどちらかであり、
// 予期しない内部エラーは境界でログに記録した上で包括コードに丸められる。
func (s *Service) AddDiscoverFeed(ctx context.Context, userID, rawURL string) Result {
	start := time.Now()

	feed, newSub, err := s.discover(ctx, userID, rawURL)
	if s.metrics != nil {
		s.metrics.RecordDiscoveryLatency(time.Since(start))
	}

	if err != nil {
		var discErr *model.DiscoveryError
		if !errors.As(err, &discErr) {
			// 分類できないエラーは境界で捕捉し、詳細はログにのみ残す。
			s.logger.Error("フィード発見で予期しないエラーが発生しました",
				slog.String("url", rawURL),
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
			discErr = model.NewInternalError(err)
		} else {
			s.logger.Warn("フィード発見が失敗しました",
				slog.String("url", rawURL),
				slog.String("user_id", userID),
				slog.String("code", string(discErr.Code)),
				slog.String("reason", discErr.Message),
			)
		}
		if s.metrics != nil {
			s.metrics.RecordDiscoveryFailure(string(discErr.Code))
		}
		return Result{ErrorCodes: []model.ErrorCode{discErr.Code}}
	}

	if s.metrics != nil {
		s.metrics.RecordDiscoverySuccess()
	}

	// 新規フィードの発見成功時のみイベントを発行する。
	// 発行は確定済みの結果から切り離されており、失敗してもログのみ。
	if newSub != nil {
		if err := s.publisher.EntityCreated(ctx, event.NewEntityCreated(feed, newSub.ID, userID)); err != nil {
			s.logger.Error("発見イベントの発行に失敗しました",
				slog.String("feed_id", feed.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return Result{Feed: feed}
}

// discover は単一トランザクションスコープ上で発見フローを実行する。
// 新規フィード経路で作成された購読を第2戻り値で返す（既存フィード経路ではnil）。
// スコープは成功・失敗を問わず必ず解放される。
func (s *Service) discover(ctx context.Context, userID, rawURL string) (*model.Feed, *model.Subscription, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	// Commit後のRollbackは無害なため、全ての経路でスコープを解放できる。
	defer tx.Rollback()

	feeds := tx.Feeds()
	subs := tx.Subscriptions()

	existing, err := feeds.FindByLink(ctx, rawURL)
	if err != nil {
		return nil, nil, err
	}

	if existing != nil {
		if err := s.joinExistingFeed(ctx, subs, userID, existing.ID); err != nil {
			return nil, nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, nil, err
		}
		return existing, nil, nil
	}

	feed, sub, err := s.createNewFeed(ctx, feeds, subs, userID, rawURL)
	if err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	s.logger.Info("新規フィードを発見しました",
		slog.String("feed_id", feed.ID),
		slog.String("link", feed.Link),
		slog.String("type", string(feed.Type)),
		slog.String("user_id", userID),
	)

	return feed, sub, nil
}

// joinExistingFeed は既知フィードに対する購読を登録する。
//   - 既存行が複数: 事前に重複した異常状態であり、上乗せせずに競合として失敗する。
//   - 既存行が1件: その購読を参照する成功として扱い、再挿入しない。
//   - 既存行なし: 新規に挿入する。一意性制約違反は競合に変換する。
func (s *Service) joinExistingFeed(ctx context.Context, subs repository.SubscriptionRepository, userID, feedID string) error {
	rows, err := subs.ListByUserAndFeed(ctx, userID, feedID)
	if err != nil {
		return err
	}

	switch {
	case len(rows) > 1:
		return model.NewDuplicateSubscriptionError(userID, feedID)
	case len(rows) == 1:
		return nil
	}

	if _, err := subs.Create(ctx, userID, feedID); err != nil {
		if repository.IsUniqueViolation(err) {
			return model.NewDuplicateSubscriptionError(userID, feedID)
		}
		return err
	}
	return nil
}

// createNewFeed は未知のURLをフェッチ・検証・抽出し、フィードと購読を作成する。
// lookupとinsertの間の競合はストアの一意制約が検出し、競合として返される。
func (s *Service) createNewFeed(
	ctx context.Context,
	feeds repository.FeedRepository,
	subs repository.SubscriptionRepository,
	userID, rawURL string,
) (*model.Feed, *model.Subscription, error) {
	body, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, nil, err
	}

	meta, err := s.extractor.Extract(body, rawURL)
	if err != nil {
		return nil, nil, err
	}

	feed, err := feeds.Create(ctx, meta)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, nil, model.NewConcurrentDiscoveryError(rawURL)
		}
		return nil, nil, err
	}

	sub, err := subs.Create(ctx, userID, feed.ID)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, nil, model.NewDuplicateSubscriptionError(userID, feed.ID)
		}
		return nil, nil, err
	}

	return feed, sub, nil
}
