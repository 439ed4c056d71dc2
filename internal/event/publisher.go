// Package event は発見イベントの発行を提供する。
//
// フィード発見の成功経路はイベント発行の成否に依存しない。
// 発行失敗はログに記録されるのみで、確定済みの購読を巻き戻すことはない。
package event

import (
	"context"
	"time"

	"github.com/ysato/feedgate/internal/model"
)

// KindRSSFeed はRSSフィード作成イベントのエンティティ種別。
const KindRSSFeed = "RSS_FEED"

// EntityCreated はエンティティ作成イベントの内容を表す。
type EntityCreated struct {
	Kind    string               `json:"kind"`
	OwnerID string               `json:"ownerId"`
	Payload EntityCreatedPayload `json:"payload"`
	SentAt  time.Time            `json:"sentAt"`
}

// EntityCreatedPayload はエンティティ作成イベントのペイロード。
// 作成されたフィードと、発見の起点となった購読のIDを運ぶ。
type EntityCreatedPayload struct {
	Feed           FeedPayload `json:"feed"`
	SubscriptionID string      `json:"subscriptionId"`
}

// FeedPayload はイベントに載せるフィードのワイヤ表現。
type FeedPayload struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	Type        string `json:"type"`
}

// NewEntityCreated はフィードと購読からエンティティ作成イベントを構築する。
func NewEntityCreated(feed *model.Feed, subscriptionID, ownerID string) EntityCreated {
	return EntityCreated{
		Kind:    KindRSSFeed,
		OwnerID: ownerID,
		Payload: EntityCreatedPayload{
			Feed: FeedPayload{
				ID:          feed.ID,
				Title:       feed.Title,
				Link:        feed.Link,
				Description: feed.Description,
				Image:       feed.Image,
				Type:        string(feed.Type),
			},
			SubscriptionID: subscriptionID,
		},
		SentAt: time.Now(),
	}
}

// Publisher はエンティティ作成イベントの発行インターフェース。
type Publisher interface {
	// EntityCreated はイベントを発行する。
	EntityCreated(ctx context.Context, ev EntityCreated) error
}

// NopPublisher は何も発行しないPublisher実装。
// イベントトランスポートが未構成の環境で使用する。
type NopPublisher struct{}

// EntityCreated は何もせずnilを返す。
func (NopPublisher) EntityCreated(_ context.Context, _ EntityCreated) error {
	return nil
}

// compile-time interface check
var _ Publisher = NopPublisher{}
