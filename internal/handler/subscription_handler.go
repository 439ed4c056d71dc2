package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ysato/feedgate/internal/middleware"
	"github.com/ysato/feedgate/internal/repository"
)

// SubscriptionHandler は購読管理のHTTPハンドラー。
type SubscriptionHandler struct {
	repo repository.SubscriptionRepository
}

// NewSubscriptionHandler はSubscriptionHandlerを生成する。
func NewSubscriptionHandler(repo repository.SubscriptionRepository) *SubscriptionHandler {
	return &SubscriptionHandler{repo: repo}
}

// subscriptionResponse は購読情報のAPIレスポンス。
type subscriptionResponse struct {
	ID        string    `json:"id"`
	FeedID    string    `json:"feedId"`
	FeedTitle string    `json:"feedTitle"`
	FeedLink  string    `json:"feedLink"`
	FeedType  string    `json:"feedType"`
	CreatedAt time.Time `json:"createdAt"`
}

// listSubscriptionsResponse は購読一覧のAPIレスポンス。
type listSubscriptionsResponse struct {
	Subscriptions []subscriptionResponse `json:"subscriptions"`
}

// ListSubscriptions はユーザーの購読一覧をフィード情報付きで返す。
// GET /api/subscriptions
func (h *SubscriptionHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	subs, err := h.repo.ListByUserIDWithFeed(r.Context(), userID)
	if err != nil {
		slog.Error("購読一覧の取得に失敗しました",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := listSubscriptionsResponse{
		Subscriptions: make([]subscriptionResponse, 0, len(subs)),
	}
	for _, s := range subs {
		resp.Subscriptions = append(resp.Subscriptions, subscriptionResponse{
			ID:        s.ID,
			FeedID:    s.FeedID,
			FeedTitle: s.FeedTitle,
			FeedLink:  s.FeedLink,
			FeedType:  string(s.FeedType),
			CreatedAt: s.CreatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Unsubscribe は購読を解除する。
// 他ユーザーの購読IDを指定された場合は404を返す（存在の有無を区別させない）。
// DELETE /api/subscriptions/:id
func (h *SubscriptionHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	subID := chi.URLParam(r, "id")

	sub, err := h.repo.FindByID(r.Context(), subID)
	if err != nil {
		slog.Error("購読の取得に失敗しました",
			slog.String("subscription_id", subID),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if sub == nil || sub.UserID != userID {
		http.Error(w, "subscription not found", http.StatusNotFound)
		return
	}

	if err := h.repo.Delete(r.Context(), subID); err != nil {
		slog.Error("購読の削除に失敗しました",
			slog.String("subscription_id", subID),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
