package model

import (
	"errors"
	"strings"
	"testing"
)

func TestDiscoveryError_Error(t *testing.T) {
	err := NewInvalidContentTypeError("text/html")

	msg := err.Error()
	if !strings.HasPrefix(msg, "[BAD_REQUEST]") {
		t.Errorf("Error() = %q, want [BAD_REQUEST] prefix", msg)
	}
	if !strings.Contains(msg, "text/html") {
		t.Errorf("Error() = %q, want content type included", msg)
	}
}

func TestDiscoveryError_Codes(t *testing.T) {
	tests := []struct {
		name     string
		err      *DiscoveryError
		wantCode ErrorCode
	}{
		{"Content-Type不一致", NewInvalidContentTypeError("text/html"), ErrCodeBadRequest},
		{"フィードとして認識不能", NewNotAFeedError("https://example.com"), ErrCodeBadRequest},
		{"タイトル欠落", NewMissingTitleError("https://example.com/atom.xml"), ErrCodeBadRequest},
		{"無効なURL", NewInvalidURLError("scheme must be http or https"), ErrCodeBadRequest},
		{"重複購読", NewDuplicateSubscriptionError("user-1", "feed-1"), ErrCodeConflict},
		{"並行発見の競合", NewConcurrentDiscoveryError("https://example.com/rss"), ErrCodeConflict},
		{"予期しないエラー", NewInternalError(errors.New("boom")), ErrCodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.wantCode)
			}
			if tt.err.Message == "" {
				t.Error("Message is empty")
			}
			if tt.err.Category == "" {
				t.Error("Category is empty")
			}
		})
	}
}

// errors.Asで型付きエラーとして取り出せること
func TestDiscoveryError_ErrorsAs(t *testing.T) {
	var err error = NewMissingTitleError("https://example.com")

	var discErr *DiscoveryError
	if !errors.As(err, &discErr) {
		t.Fatal("errors.As() = false, want true")
	}
	if discErr.Code != ErrCodeBadRequest {
		t.Errorf("Code = %q, want %q", discErr.Code, ErrCodeBadRequest)
	}
}
