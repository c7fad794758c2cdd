// Package genesis pre-populates an empty ledger with a fixed set of seed
// records. Seeding runs through the exact same create path as runtime audit
// writes, so it is not a special case the contract has to know about.
package genesis

import (
	"errors"
	"fmt"
	"time"

	"medledger/core/audit"
	"medledger/core/cipher"
	"medledger/core/codec"
	"medledger/core/contract"
	"medledger/core/record"
	"medledger/types/ids"
)

// SeedRecords is the bootstrap data set: distinct patient/action combinations
// attributed to auditor a1.
var SeedRecords = []record.Record{
	{PatientID: "p1", Timestamp: "3/5/2022 18:5:48", UserID: "a1", ActionType: record.ActionCreate},
	{PatientID: "p2", Timestamp: "5/5/2022 18:5:48", UserID: "a1", ActionType: record.ActionDelete},
	{PatientID: "p7", Timestamp: "8/5/2022 18:5:48", UserID: "a1", ActionType: record.ActionChange},
	{PatientID: "p3", Timestamp: "8/5/2022 18:5:48", UserID: "a1", ActionType: record.ActionPrint},
}

// Seed encrypts and commits every seed record. Ids derive from the record
// timestamp alone, so two seeds sharing a timestamp collide; the collision is
// logged and skipped, same as a runtime audit-write race. Any other commit
// failure aborts seeding.
func Seed(store *contract.Store, c *cipher.Cipher, logger audit.AuditLogger) error {
	for _, rec := range SeedRecords {
		id := ids.SeedID(rec.Timestamp)
		result, reason := "success", ""
		if err := commitSeed(store, c, id, rec); err != nil {
			if !errors.Is(err, contract.ErrAlreadyExists) {
				return fmt.Errorf("seed %s: %w", id, err)
			}
			result, reason = "failure", err.Error()
		}
		logger.LogEvent(audit.AuditEvent{
			Timestamp: time.Now(),
			EventType: "SeedRecord",
			EntityID:  id,
			Result:    result,
			Reason:    reason,
			Metadata:  map[string]string{"patient_id": rec.PatientID, "action_type": rec.ActionType},
		})
	}
	return nil
}

func commitSeed(store *contract.Store, c *cipher.Cipher, id string, rec record.Record) error {
	encoded, err := codec.Encode(rec)
	if err != nil {
		return err
	}
	token, err := c.Encrypt(encoded)
	if err != nil {
		return err
	}
	_, err = store.CreateAsset(id, token)
	return err
}

// IsSeeded reports whether any seed record already has a current value.
func IsSeeded(store *contract.Store) (bool, error) {
	for _, rec := range SeedRecords {
		exists, err := store.AssetExists(ids.SeedID(rec.Timestamp))
		if err != nil {
			return false, err
		}
		if exists {
			return true, nil
		}
	}
	return false, nil
}
