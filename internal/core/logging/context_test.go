package logging

import (
	"context"
	"testing"
)

func TestWithRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")

	if got := GetRequestID(ctx); got != "req-123" {
		t.Errorf("GetRequestID() = %q, want %q", got, "req-123")
	}
}

func TestWithQuery(t *testing.T) {
	ctx := WithQuery(context.Background(), "Warszawa Centralna")

	if got := GetQuery(ctx); got != "Warszawa Centralna" {
		t.Errorf("GetQuery() = %q, want %q", got, "Warszawa Centralna")
	}
}

func TestGetRequestID_NotPresent(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID() = %q, want empty string", got)
	}
}

func TestGetQuery_NotPresent(t *testing.T) {
	if got := GetQuery(context.Background()); got != "" {
		t.Errorf("GetQuery() = %q, want empty string", got)
	}
}
