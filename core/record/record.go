// Package record defines the units this ledger is about: the encrypted Asset
// stored on-chain and the plaintext access/mutation Record it wraps.
package record

import (
	"fmt"
	"time"
)

// DocTypeAsset tags every asset in the shared keyspace.
const DocTypeAsset = "asset"

// Known action types. The set is open: new values may appear in stored records.
const (
	ActionCreate = "create"
	ActionDelete = "delete"
	ActionChange = "change"
	ActionPrint  = "print"
	ActionQuery  = "query"
)

// Asset is the unit of ledger storage. Record is always a cipher token,
// never plaintext. The ID never changes after creation.
type Asset struct {
	ID      string `json:"ID"`
	Record  string `json:"record"`
	DocType string `json:"docType,omitempty"`
}

// Record is one patient-data access or mutation event, recovered only after
// decryption.
type Record struct {
	PatientID  string `json:"patient_id"`
	Timestamp  string `json:"timestamp"`
	UserID     string `json:"user_id"`
	ActionType string `json:"action_type"`
}

// DecryptedAsset is an Asset whose record field has been decrypted for a
// caller. When decryption or decoding fails, Record is nil and Err carries
// the reason so the entry is reported in place rather than dropped.
type DecryptedAsset struct {
	ID      string  `json:"ID"`
	DocType string  `json:"docType,omitempty"`
	Record  *Record `json:"record"`
	Err     string  `json:"error,omitempty"`
}

// Timestamp renders t at second resolution in the locale-stable
// day/month/year hour:minute:second form used inside records and for
// identifier derivation. No zero padding.
func Timestamp(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d %d:%d:%d",
		t.Day(), int(t.Month()), t.Year(), t.Hour(), t.Minute(), t.Second())
}
