package link

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ehr/oura-bridge/internal/platform/keystore"
)

func newTestService() (*Service, *keystore.MemoryStore) {
	store := keystore.NewMemoryStore()
	svc := NewService(store)
	svc.SetClock(func() time.Time {
		return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	})
	return svc, store
}

func TestService_Link(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	rec, err := svc.Link(ctx, "P0001", "key-abc", "oura-user-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.APIKey != "key-abc" {
		t.Errorf("unexpected api key %q", rec.APIKey)
	}
	if rec.OuraUserID == nil || *rec.OuraUserID != "oura-user-9" {
		t.Errorf("unexpected oura user id %v", rec.OuraUserID)
	}
	if rec.LinkedAt != "2024-01-15T12:00:00Z" {
		t.Errorf("unexpected linked at %q", rec.LinkedAt)
	}

	raw, err := store.Get(ctx, "oura:patient:P0001")
	if err != nil {
		t.Fatalf("record not stored: %v", err)
	}
	var stored CredentialRecord
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatalf("stored record is not valid JSON: %v", err)
	}
	if stored.APIKey != "key-abc" {
		t.Errorf("unexpected stored api key %q", stored.APIKey)
	}
}

func TestService_Link_OptionalUserID(t *testing.T) {
	svc, _ := newTestService()

	rec, err := svc.Link(context.Background(), "P0001", "key-abc", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.OuraUserID != nil {
		t.Errorf("expected nil oura user id, got %v", *rec.OuraUserID)
	}
}

func TestService_Link_MissingFields(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Link(ctx, "", "key", ""); !errors.Is(err, ErrMissingFields) {
		t.Errorf("expected ErrMissingFields for empty patient id, got %v", err)
	}
	if _, err := svc.Link(ctx, "P0001", "", ""); !errors.Is(err, ErrMissingFields) {
		t.Errorf("expected ErrMissingFields for empty api key, got %v", err)
	}
}

func TestService_Link_Overwrites(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Link(ctx, "P0001", "old-key", "old-user"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Link(ctx, "P0001", "new-key", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, err := svc.Resolve(ctx, "P0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.APIKey != "new-key" {
		t.Errorf("expected new-key after relink, got %q", rec.APIKey)
	}
	if rec.OuraUserID != nil {
		t.Error("expected old user id to be dropped, not merged")
	}
}

func TestService_Resolve_NotLinked(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Resolve(context.Background(), "ghost")
	if !errors.Is(err, ErrNotLinked) {
		t.Errorf("expected ErrNotLinked, got %v", err)
	}
}

func TestService_UnlinkThenResolve(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Link(ctx, "P0001", "key", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Unlink(ctx, "P0001"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Resolve(ctx, "P0001"); !errors.Is(err, ErrNotLinked) {
		t.Errorf("expected ErrNotLinked after unlink, got %v", err)
	}

	// Unlinking again is idempotent
	if err := svc.Unlink(ctx, "P0001"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestService_IsLinked(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	linked, err := svc.IsLinked(ctx, "P0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if linked {
		t.Error("expected IsLinked to be false before linking")
	}

	svc.Link(ctx, "P0001", "key", "")
	linked, _ = svc.IsLinked(ctx, "P0001")
	if !linked {
		t.Error("expected IsLinked to be true after linking")
	}
}
