// Package model はドメインモデルを定義する。
package model

import "time"

// FeedType はフィードのフォーマット種別を表す。
// RDF（RSS 1.0）はrssに正規化されるため、永続化される値はrssとatomの2種類のみ。
type FeedType string

const (
	// FeedTypeRSS はRSS（RSS 0.9x/1.0/2.0、RDF含む）フィード。
	FeedTypeRSS FeedType = "rss"
	// FeedTypeAtom はAtomフィード。
	FeedTypeAtom FeedType = "atom"
)

// Feed は発見済みのシンディケーションフィードを表す。
// Linkが重複排除キーであり、同一Linkのフィード行は最大1件しか存在しない。
// 作成後はこのエンジンから変更・削除されることはない。
type Feed struct {
	ID          string
	Title       string
	Link        string
	Description string
	Image       string
	Type        FeedType
	CreatedAt   time.Time
}

// FeedMetadata はフィード文書から抽出した正規化済みメタデータを表す。
// ID未採番の状態でリポジトリに渡され、作成時にIDが割り当てられる。
type FeedMetadata struct {
	Title       string
	Description string
	Image       string
	Link        string
	Type        FeedType
}

// Subscription はユーザーとフィードの購読関係を表す。
// (UserID, FeedID) の組み合わせごとに有効な購読は1件のみ。
type Subscription struct {
	ID        string
	UserID    string
	FeedID    string
	CreatedAt time.Time
}
