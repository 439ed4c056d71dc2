// Package handler はHTTP APIハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ysato/feedgate/internal/discovery"
	"github.com/ysato/feedgate/internal/middleware"
	"github.com/ysato/feedgate/internal/model"
)

// DiscoveryServiceInterface はフィード発見ハンドラーが必要とするサービスインターフェース。
type DiscoveryServiceInterface interface {
	// AddDiscoverFeed はURLをフィードとして検証し、ユーザーの購読として登録する。
	AddDiscoverFeed(ctx context.Context, userID, rawURL string) discovery.Result
}

// DiscoveryHandler はフィード発見のHTTPハンドラー。
type DiscoveryHandler struct {
	service DiscoveryServiceInterface
}

// NewDiscoveryHandler はDiscoveryHandlerを生成する。
func NewDiscoveryHandler(service DiscoveryServiceInterface) *DiscoveryHandler {
	return &DiscoveryHandler{service: service}
}

// discoverFeedRequest はフィード発見リクエストのボディ。
type discoverFeedRequest struct {
	URL string `json:"url"`
}

// feedResponse はフィード情報のAPIレスポンス。
type feedResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
}

// discoverySuccessResponse は発見成功時のレスポンス。
type discoverySuccessResponse struct {
	Feed feedResponse `json:"feed"`
}

// discoveryFailureResponse は発見失敗時のレスポンス。
// 内部エラーの詳細は含まれず、閉じた語彙のエラーコードのみを返す。
type discoveryFailureResponse struct {
	ErrorCodes []model.ErrorCode `json:"errorCodes"`
}

// DiscoverFeed はフィード発見を処理する。
// POST /api/feeds/discover
func (h *DiscoveryHandler) DiscoverFeed(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req discoverFeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDiscoveryFailure(w, http.StatusBadRequest, model.ErrCodeBadRequest)
		return
	}

	if req.URL == "" {
		writeDiscoveryFailure(w, http.StatusBadRequest, model.ErrCodeBadRequest)
		return
	}

	result := h.service.AddDiscoverFeed(r.Context(), userID, req.URL)
	if !result.Succeeded() {
		code := model.ErrCodeUnauthorized
		if len(result.ErrorCodes) > 0 {
			code = result.ErrorCodes[0]
		}
		writeDiscoveryFailure(w, mapErrorCodeToHTTPStatus(code), result.ErrorCodes...)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(discoverySuccessResponse{
		Feed: toFeedResponse(result.Feed),
	})
}

// --- ヘルパー関数 ---

// toFeedResponse はmodel.FeedからAPIレスポンスに変換する。
func toFeedResponse(feed *model.Feed) feedResponse {
	return feedResponse{
		ID:          feed.ID,
		Title:       feed.Title,
		Link:        feed.Link,
		Description: feed.Description,
		Image:       feed.Image,
		Type:        string(feed.Type),
		CreatedAt:   feed.CreatedAt,
	}
}

// writeDiscoveryFailure はエラーコード配列のレスポンスを書き込む。
func writeDiscoveryFailure(w http.ResponseWriter, statusCode int, codes ...model.ErrorCode) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(discoveryFailureResponse{ErrorCodes: codes})
}

// mapErrorCodeToHTTPStatus はエラーコードからHTTPステータスコードにマッピングする。
// UNAUTHORIZEDは予期しない内部エラーの包括コードであり、500として返す。
func mapErrorCodeToHTTPStatus(code model.ErrorCode) int {
	switch code {
	case model.ErrCodeBadRequest:
		return http.StatusBadRequest
	case model.ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
