package apierr

import (
	"fmt"
	"net/http"
	"testing"

	pkgerrors "github.com/yungbote/promptdesk-backend/internal/pkg/errors"
)

func TestFromMapsSentinels(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("prompt name: %w", pkgerrors.ErrInvalidArgument), http.StatusBadRequest, "invalid_request"},
		{fmt.Errorf("template: %w", pkgerrors.ErrNotFound), http.StatusNotFound, "not_found"},
		{fmt.Errorf("client: %w", pkgerrors.ErrConflict), http.StatusConflict, "conflict"},
		{fmt.Errorf("llm: %w", pkgerrors.ErrUpstream), http.StatusBadGateway, "upstream_failed"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "fallback"},
	}
	for _, tc := range cases {
		got := From(tc.err, "fallback")
		if got.Status != tc.status || got.Code != tc.code {
			t.Fatalf("From(%v): got=%d/%s want=%d/%s", tc.err, got.Status, got.Code, tc.status, tc.code)
		}
	}
}

func TestFromKeepsExplicitError(t *testing.T) {
	inner := New(http.StatusTeapot, "teapot", nil)
	got := From(fmt.Errorf("wrapped: %w", inner), "fallback")
	if got != inner {
		t.Fatalf("expected explicit error to win, got %+v", got)
	}
	if From(nil, "x") != nil {
		t.Fatal("nil error should map to nil")
	}
}
