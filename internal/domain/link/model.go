// Package link associates patient identifiers with Oura API credentials.
package link

// KeyPrefix namespaces credential records inside the key-value store.
const KeyPrefix = "oura:patient:"

// StorageKey returns the store key for a patient's credential record.
func StorageKey(patientID string) string {
	return KeyPrefix + patientID
}

// CredentialRecord is the stored link between a patient and an Oura account.
// It is created whole on link (overwriting any prior record) and destroyed
// on unlink; there is no partial update.
type CredentialRecord struct {
	APIKey     string  `json:"apiKey"`
	OuraUserID *string `json:"ouraUserId"`
	LinkedAt   string  `json:"linkedAt"`
}
