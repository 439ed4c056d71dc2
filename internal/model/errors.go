// Package model はドメインモデルを定義する。
package model

import "fmt"

// ErrorCode は呼び出し元に公開される閉じたエラーコード語彙。
// 内部エラーの詳細はログにのみ記録し、APIにはこの3種類のみを返す。
type ErrorCode string

const (
	// ErrCodeBadRequest は対象URLが有効なフィードを提供していないことを示す。
	// Content-Type不一致、XML解析不能、認識できないルート要素、タイトル欠落が該当する。
	ErrCodeBadRequest ErrorCode = "BAD_REQUEST"
	// ErrCodeConflict は重複した購読状態が検出されたことを示す。
	// 既存の重複行、または挿入時の一意性制約違反が該当する。
	ErrCodeConflict ErrorCode = "CONFLICT"
	// ErrCodeUnauthorized は境界での予期しないエラーの包括コード。
	// 分類できない内部エラーはすべてこのコードに丸めて返す。
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
)

// DiscoveryError はフィード発見処理の型付き失敗を表す。
// 検証失敗は例外としてではなく、この型の値として返却される。
type DiscoveryError struct {
	Code     ErrorCode // 公開エラーコード
	Message  string    // エラーメッセージ（ログ・デバッグ用）
	Category string    // カテゴリ: validation, feed, system
}

// Error はerrorインターフェースを実装する。
func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewInvalidContentTypeError は許可されないContent-Typeのエラーを生成する。
func NewInvalidContentTypeError(contentType string) *DiscoveryError {
	return &DiscoveryError{
		Code:     ErrCodeBadRequest,
		Message:  fmt.Sprintf("フィードとして許可されないContent-Typeです: %s", contentType),
		Category: "validation",
	}
}

// NewNotAFeedError は文書がRSS/Atom/RDFとして認識できない場合のエラーを生成する。
func NewNotAFeedError(url string) *DiscoveryError {
	return &DiscoveryError{
		Code:     ErrCodeBadRequest,
		Message:  fmt.Sprintf("指定されたURLの文書をフィードとして認識できませんでした: %s", url),
		Category: "feed",
	}
}

// NewMissingTitleError はタイトルを持たないフィードのエラーを生成する。
// タイトル欠落は不正フィードの典型的なシグナルとして扱う。
func NewMissingTitleError(url string) *DiscoveryError {
	return &DiscoveryError{
		Code:     ErrCodeBadRequest,
		Message:  fmt.Sprintf("フィードに有効なタイトルがありません: %s", url),
		Category: "feed",
	}
}

// NewInvalidURLError は無効なURLのエラーを生成する。
func NewInvalidURLError(reason string) *DiscoveryError {
	return &DiscoveryError{
		Code:     ErrCodeBadRequest,
		Message:  fmt.Sprintf("無効なURLです: %s", reason),
		Category: "validation",
	}
}

// NewDuplicateSubscriptionError は重複した購読状態が検出された場合のエラーを生成する。
func NewDuplicateSubscriptionError(userID, feedID string) *DiscoveryError {
	return &DiscoveryError{
		Code:     ErrCodeConflict,
		Message:  fmt.Sprintf("重複した購読が検出されました: user=%s feed=%s", userID, feedID),
		Category: "feed",
	}
}

// NewConcurrentDiscoveryError は並行した発見リクエスト間の競合により
// ストアの一意性制約違反が発生した場合のエラーを生成する。
func NewConcurrentDiscoveryError(link string) *DiscoveryError {
	return &DiscoveryError{
		Code:     ErrCodeConflict,
		Message:  fmt.Sprintf("並行した発見リクエストと競合しました: %s", link),
		Category: "feed",
	}
}

// NewInternalError は境界で捕捉された予期しないエラーを包括コードに変換する。
// 内部の詳細はMessageに保持するが、呼び出し元にはCodeのみが公開される。
func NewInternalError(err error) *DiscoveryError {
	return &DiscoveryError{
		Code:     ErrCodeUnauthorized,
		Message:  fmt.Sprintf("予期しないエラーが発生しました: %v", err),
		Category: "system",
	}
}
