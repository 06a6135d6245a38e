package link

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ehr/oura-bridge/internal/platform/keystore"
)

var (
	// ErrMissingFields is returned when a link request omits a required field.
	ErrMissingFields = errors.New("patientId and apiKey required")

	// ErrNotLinked is returned when no credential record exists for a patient.
	// The text is the wire message consumers already depend on.
	ErrNotLinked = errors.New("Patient not linked to Oura account")
)

type Service struct {
	store keystore.Store
	now   func() time.Time
}

func NewService(store keystore.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// SetClock overrides the timestamp source. Tests only.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Link stores a credential record for the patient, overwriting any existing
// one. ouraUserID may be empty.
func (s *Service) Link(ctx context.Context, patientID, apiKey, ouraUserID string) (*CredentialRecord, error) {
	if patientID == "" || apiKey == "" {
		return nil, ErrMissingFields
	}

	rec := &CredentialRecord{
		APIKey:   apiKey,
		LinkedAt: s.now().UTC().Format(time.RFC3339),
	}
	if ouraUserID != "" {
		rec.OuraUserID = &ouraUserID
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode credential record: %w", err)
	}
	if err := s.store.Set(ctx, StorageKey(patientID), string(raw)); err != nil {
		return nil, fmt.Errorf("store credential record: %w", err)
	}
	return rec, nil
}

// Unlink deletes the patient's credential record. Absence is not an error.
func (s *Service) Unlink(ctx context.Context, patientID string) error {
	if err := s.store.Delete(ctx, StorageKey(patientID)); err != nil {
		return fmt.Errorf("delete credential record: %w", err)
	}
	return nil
}

// IsLinked reports whether a credential record exists for the patient.
func (s *Service) IsLinked(ctx context.Context, patientID string) (bool, error) {
	_, err := s.store.Get(ctx, StorageKey(patientID))
	if errors.Is(err, keystore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Resolve loads the patient's credential record, or ErrNotLinked when absent.
func (s *Service) Resolve(ctx context.Context, patientID string) (*CredentialRecord, error) {
	raw, err := s.store.Get(ctx, StorageKey(patientID))
	if errors.Is(err, keystore.ErrNotFound) {
		return nil, ErrNotLinked
	}
	if err != nil {
		return nil, fmt.Errorf("read credential record: %w", err)
	}

	var rec CredentialRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode credential record: %w", err)
	}
	return &rec, nil
}
