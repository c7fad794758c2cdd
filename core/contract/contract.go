// Package contract is the CRUD surface over the ledger: create, existence
// check, full enumeration, per-key history and logical delete. It owns the
// shape of what gets written (canonical asset JSON) and nothing else.
package contract

import (
	"encoding/json"
	"errors"
	"fmt"

	"medledger/core/codec"
	"medledger/core/ledger"
	"medledger/core/record"
)

var (
	// ErrAlreadyExists is returned by CreateAsset when the id already has a
	// current value.
	ErrAlreadyExists = errors.New("asset already exists")
	// ErrNotFound is returned by DeleteAsset when no current value exists.
	ErrNotFound = errors.New("asset does not exist")
)

// ScanResult is one entry from a full enumeration. Values that decode as
// assets populate Asset; anything else is surfaced verbatim in Raw so the
// audit trail is never silently lossy.
type ScanResult struct {
	Asset *record.Asset
	Raw   string
}

// MarshalJSON renders the decoded asset when present, otherwise the raw
// ledger value as a JSON string.
func (r ScanResult) MarshalJSON() ([]byte, error) {
	if r.Asset != nil {
		return json.Marshal(r.Asset)
	}
	return json.Marshal(r.Raw)
}

type Store struct {
	ledger *ledger.Ledger
}

func NewStore(l *ledger.Ledger) *Store {
	return &Store{ledger: l}
}

// CreateAsset writes a new asset under id with the given encrypted record
// token. The asset is canonically encoded so identical logical content always
// lands on the ledger byte-identical.
func (s *Store) CreateAsset(id, encryptedRecord string) (*record.Asset, error) {
	exists, err := s.AssetExists(id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("the asset %s already exists: %w", id, ErrAlreadyExists)
	}
	asset := &record.Asset{
		ID:      id,
		Record:  encryptedRecord,
		DocType: record.DocTypeAsset,
	}
	encoded, err := codec.Encode(asset)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Put(id, encoded); err != nil {
		return nil, err
	}
	return asset, nil
}

// AssetExists reports whether id has a non-empty current value.
func (s *Store) AssetExists(id string) (bool, error) {
	val, err := s.ledger.Get(id)
	if err != nil {
		return false, err
	}
	return len(val) > 0, nil
}

// GetAllAssets scans the whole namespace and returns every current value in
// ledger iteration order. Undecodable entries are kept as raw strings.
func (s *Store) GetAllAssets() ([]ScanResult, error) {
	kvs, err := s.ledger.RangeScan("", "")
	if err != nil {
		return nil, err
	}
	results := make([]ScanResult, 0, len(kvs))
	for _, kv := range kvs {
		var asset record.Asset
		if err := json.Unmarshal(kv.Value, &asset); err != nil {
			results = append(results, ScanResult{Raw: string(kv.Value)})
			continue
		}
		results = append(results, ScanResult{Asset: &asset})
	}
	return results, nil
}

// GetModificationHistory returns every value ever committed for id, oldest
// first. A deletion shows up as an empty string at the point it happened.
func (s *Store) GetModificationHistory(id string) ([]string, error) {
	entries, err := s.ledger.History(id)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(entries))
	for _, entry := range entries {
		values = append(values, entry.Value)
	}
	return values, nil
}

// DeleteAsset removes the current value for id. Prior versions remain
// permanently visible through GetModificationHistory.
func (s *Store) DeleteAsset(id string) error {
	exists, err := s.AssetExists(id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("the asset %s does not exist: %w", id, ErrNotFound)
	}
	return s.ledger.Delete(id)
}
