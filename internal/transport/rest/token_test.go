package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTokenIssue_HappyPath(t *testing.T) {
	t.Parallel()

	minter := &tokenMinterMock{
		GenerateTokenFunc: func(employee string) (string, error) {
			if employee != "maria" {
				t.Errorf("employee = %q, want maria", employee)
			}
			return "signed-token", nil
		},
	}
	h := NewTokenHandler(minter, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", strings.NewReader(`{"employee":"maria"}`))
	rec := httptest.NewRecorder()
	h.Issue(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var resp tokenResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token != "signed-token" {
		t.Errorf("token = %q", resp.Token)
	}
}

func TestTokenIssue_MissingEmployee(t *testing.T) {
	t.Parallel()

	h := NewTokenHandler(&tokenMinterMock{}, testLogger())

	for _, body := range []string{`{}`, `{"employee":"   "}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Issue(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected status 400, got %d", body, rec.Code)
		}
	}
}

func TestTokenIssue_MinterFailure(t *testing.T) {
	t.Parallel()

	minter := &tokenMinterMock{
		GenerateTokenFunc: func(string) (string, error) {
			return "", errors.New("signing failed")
		},
	}
	h := NewTokenHandler(minter, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", strings.NewReader(`{"employee":"maria"}`))
	rec := httptest.NewRecorder()
	h.Issue(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}
