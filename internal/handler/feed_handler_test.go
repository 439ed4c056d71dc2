package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ysato/feedgate/internal/model"
)

// --- モック定義 ---

// mockFeedRepo はrepository.FeedRepositoryのモック実装。
type mockFeedRepo struct {
	findByIDFn   func(ctx context.Context, id string) (*model.Feed, error)
	findByLinkFn func(ctx context.Context, link string) (*model.Feed, error)
	createFn     func(ctx context.Context, meta *model.FeedMetadata) (*model.Feed, error)
}

func (m *mockFeedRepo) FindByID(ctx context.Context, id string) (*model.Feed, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockFeedRepo) FindByLink(ctx context.Context, link string) (*model.Feed, error) {
	if m.findByLinkFn != nil {
		return m.findByLinkFn(ctx, link)
	}
	return nil, nil
}

func (m *mockFeedRepo) Create(ctx context.Context, meta *model.FeedMetadata) (*model.Feed, error) {
	if m.createFn != nil {
		return m.createFn(ctx, meta)
	}
	return nil, nil
}

func newFeedRouter(repo *mockFeedRepo) http.Handler {
	r := chi.NewRouter()
	h := NewFeedHandler(repo)
	r.Get("/api/feeds/{id}", h.GetFeed)
	return r
}

// --- GET /api/feeds/:id テスト ---

func TestGetFeed_Success(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	repo := &mockFeedRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Feed, error) {
			if id != "feed-1" {
				t.Errorf("id = %q, want %q", id, "feed-1")
			}
			return &model.Feed{
				ID:          "feed-1",
				Title:       "Daily News",
				Link:        "https://news.example.com/rss.xml",
				Description: "Top stories",
				Image:       "https://news.example.com/logo.png",
				Type:        model.FeedTypeRSS,
				CreatedAt:   now,
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/feeds/feed-1", nil)
	w := httptest.NewRecorder()

	newFeedRouter(repo).ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if result["id"] != "feed-1" {
		t.Errorf("id = %v, want %q", result["id"], "feed-1")
	}
	if result["link"] != "https://news.example.com/rss.xml" {
		t.Errorf("link = %v, want %q", result["link"], "https://news.example.com/rss.xml")
	}
	if result["image"] != "https://news.example.com/logo.png" {
		t.Errorf("image = %v, want %q", result["image"], "https://news.example.com/logo.png")
	}
}

func TestGetFeed_NotFound(t *testing.T) {
	repo := &mockFeedRepo{}

	req := httptest.NewRequest(http.MethodGet, "/api/feeds/missing", nil)
	w := httptest.NewRecorder()

	newFeedRouter(repo).ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNotFound)
	}
}

func TestGetFeed_RepositoryError(t *testing.T) {
	repo := &mockFeedRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Feed, error) {
			return nil, errors.New("connection refused")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/feeds/feed-1", nil)
	w := httptest.NewRecorder()

	newFeedRouter(repo).ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusInternalServerError)
	}
}
