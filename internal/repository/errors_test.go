package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "一意性制約違反",
			err:  &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"},
			want: true,
		},
		{
			name: "ラップされた一意性制約違反",
			err:  fmt.Errorf("フィードの作成に失敗しました: %w", &pq.Error{Code: "23505"}),
			want: true,
		},
		{
			name: "別のSQLSTATEコード",
			err:  &pq.Error{Code: "23503", Message: "foreign key violation"},
			want: false,
		},
		{
			name: "pq以外のエラー",
			err:  errors.New("connection refused"),
			want: false,
		},
		{
			name: "nil",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.want {
				t.Errorf("IsUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}
