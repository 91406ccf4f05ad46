package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ovenlight/prepstock-backend/internal/domain"
	"github.com/ovenlight/prepstock-backend/internal/service/snapshot"
)

func TestSnapshotCapture_EmptyBody(t *testing.T) {
	t.Parallel()

	var gotDate string
	svc := &snapshotServiceMock{
		CaptureFunc: func(_ context.Context, date string, rotations []domain.Rotation) (*snapshot.CaptureResult, error) {
			gotDate = date
			if len(rotations) != 0 {
				t.Errorf("rotations = %v, want empty (all)", rotations)
			}
			return &snapshot.CaptureResult{Date: "2026-08-26", Snapshots: 4}, nil
		},
	}
	h := NewSnapshotHandler(svc, testLogger())

	// No body at all: capture today, all rotations.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/snapshots", nil)
	rec := httptest.NewRecorder()
	h.Capture(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotDate != "" {
		t.Errorf("date = %q, want empty (service picks today)", gotDate)
	}
}

func TestSnapshotCapture_ExplicitDateAndRotations(t *testing.T) {
	t.Parallel()

	svc := &snapshotServiceMock{
		CaptureFunc: func(_ context.Context, date string, rotations []domain.Rotation) (*snapshot.CaptureResult, error) {
			if date != "2026-08-26" || len(rotations) != 1 || rotations[0] != domain.RotationDaily {
				t.Errorf("Capture(%q, %v)", date, rotations)
			}
			return &snapshot.CaptureResult{Date: date, Snapshots: 2}, nil
		},
	}
	h := NewSnapshotHandler(svc, testLogger())

	body := `{"date":"2026-08-26","rotations":["daily"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/snapshots", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Capture(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
}

func TestSnapshotCapture_Conflict(t *testing.T) {
	t.Parallel()

	svc := &snapshotServiceMock{
		CaptureFunc: func(_ context.Context, date string, _ []domain.Rotation) (*snapshot.CaptureResult, error) {
			return nil, fmt.Errorf("date %s: %w", date, domain.ErrSnapshotExists)
		},
	}
	h := NewSnapshotHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/snapshots", strings.NewReader(`{"date":"2026-08-26"}`))
	rec := httptest.NewRecorder()
	h.Capture(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
	if resp := decodeError(t, rec.Body); resp.Code != "snapshot_exists" {
		t.Errorf("code = %q, want snapshot_exists", resp.Code)
	}
}

func TestSnapshotCapture_UnknownRotation(t *testing.T) {
	t.Parallel()

	h := NewSnapshotHandler(&snapshotServiceMock{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/snapshots", strings.NewReader(`{"rotations":["hourly"]}`))
	rec := httptest.NewRecorder()
	h.Capture(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestSnapshotList(t *testing.T) {
	t.Parallel()

	svc := &snapshotServiceMock{
		ListDatesFunc: func() []string {
			return []string{"2026-08-26", "2026-08-25"}
		},
	}
	h := NewSnapshotHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/snapshots", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var resp map[string][]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp["dates"]) != 2 || resp["dates"][0] != "2026-08-26" {
		t.Fatalf("dates = %v", resp["dates"])
	}
}

func TestSnapshotQuery_Historical(t *testing.T) {
	t.Parallel()

	svc := &snapshotServiceMock{
		QueryFunc: func(date string) (*snapshot.QueryResult, error) {
			return &snapshot.QueryResult{
				Source:   snapshot.SourceHistorical,
				Snapshot: domain.Snapshot{Date: date, Rotation: domain.RotationCombined},
			}, nil
		},
	}
	h := NewSnapshotHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/snapshots/2026-08-25", nil)
	req.SetPathValue("date", "2026-08-25")
	rec := httptest.NewRecorder()
	h.Query(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var res snapshot.QueryResult
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if res.Source != snapshot.SourceHistorical {
		t.Errorf("source = %q, want historical", res.Source)
	}
}

func TestSnapshotQuery_LiveLabeled(t *testing.T) {
	t.Parallel()

	svc := &snapshotServiceMock{
		QueryFunc: func(date string) (*snapshot.QueryResult, error) {
			return &snapshot.QueryResult{
				Source:   snapshot.SourceLive,
				Snapshot: domain.Snapshot{Date: date, Rotation: domain.RotationCombined},
			}, nil
		},
	}
	h := NewSnapshotHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/snapshots/2026-08-26", nil)
	req.SetPathValue("date", "2026-08-26")
	rec := httptest.NewRecorder()
	h.Query(rec, req)

	var res snapshot.QueryResult
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if res.Source != snapshot.SourceLive {
		t.Errorf("source = %q, want live", res.Source)
	}
}

func TestSnapshotQuery_NoHistoricalData(t *testing.T) {
	t.Parallel()

	svc := &snapshotServiceMock{
		QueryFunc: func(date string) (*snapshot.QueryResult, error) {
			return nil, fmt.Errorf("date %s: %w", date, domain.ErrNoHistoricalData)
		},
	}
	h := NewSnapshotHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/snapshots/2026-01-01", nil)
	req.SetPathValue("date", "2026-01-01")
	rec := httptest.NewRecorder()
	h.Query(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if resp := decodeError(t, rec.Body); resp.Code != "no_historical_data" {
		t.Errorf("code = %q, want no_historical_data", resp.Code)
	}
}

func TestSnapshotQueryRotation(t *testing.T) {
	t.Parallel()

	svc := &snapshotServiceMock{
		GetRotationFunc: func(date string, rotation domain.Rotation) (domain.Snapshot, bool) {
			return domain.Snapshot{Date: date, Rotation: rotation}, true
		},
	}
	h := NewSnapshotHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/snapshots/2026-08-25/daily", nil)
	req.SetPathValue("date", "2026-08-25")
	req.SetPathValue("rotation", "daily")
	rec := httptest.NewRecorder()
	h.QueryRotation(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestSnapshotQueryRotation_Missing(t *testing.T) {
	t.Parallel()

	svc := &snapshotServiceMock{
		GetRotationFunc: func(string, domain.Rotation) (domain.Snapshot, bool) {
			return domain.Snapshot{}, false
		},
	}
	h := NewSnapshotHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/snapshots/2026-01-01/daily", nil)
	req.SetPathValue("date", "2026-01-01")
	req.SetPathValue("rotation", "daily")
	rec := httptest.NewRecorder()
	h.QueryRotation(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if resp := decodeError(t, rec.Body); resp.Code != "no_historical_data" {
		t.Errorf("code = %q, want no_historical_data", resp.Code)
	}
}
