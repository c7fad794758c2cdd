// Package audit turns every query into a provable ledger write: each record a
// caller is shown produces one new encrypted audit asset with
// action_type="query". Audit writes are best-effort and never block the read.
package audit

import (
	"encoding/json"
	"time"

	"medledger/core/cipher"
	"medledger/core/codec"
	"medledger/core/contract"
	"medledger/core/record"
	"medledger/core/scope"
	"medledger/types/ids"
)

type Generator struct {
	store  *contract.Store
	cipher *cipher.Cipher
	logger AuditLogger
	now    func() time.Time
}

func NewGenerator(store *contract.Store, c *cipher.Cipher, logger AuditLogger) *Generator {
	return &Generator{
		store:  store,
		cipher: c,
		logger: logger,
		now:    time.Now,
	}
}

// QueryRecords enumerates the ledger, decrypts every asset, scopes the result
// to the caller's role and commits one audit entry per record shown. The
// scoped records are returned even when some or all audit writes fail.
func (g *Generator) QueryRecords(userID, role string) ([]record.DecryptedAsset, error) {
	all, err := g.store.GetAllAssets()
	if err != nil {
		return nil, err
	}
	decrypted := g.decryptAll(all)
	scoped := scope.Filter(role, userID, decrypted)
	g.commitAuditEntries(userID, scoped)
	return scoped, nil
}

// QueryAuditLog is QueryRecords rendered as the JSON body handed back over
// the transport.
func (g *Generator) QueryAuditLog(userID, role string) (string, error) {
	records, err := g.QueryRecords(userID, role)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// EnumerateAssets returns the full enumeration as stored: encrypted tokens,
// no scoping, no audit writes.
func (g *Generator) EnumerateAssets() (string, error) {
	all, err := g.store.GetAllAssets()
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(all)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// CreateRecord canonicalizes and encrypts a validated plaintext record and
// commits it as a new asset. When id is empty the asset is content-addressed
// from the canonical record bytes. Direct creation may carry any action type.
func (g *Generator) CreateRecord(id string, rawRecord []byte) (*record.Asset, error) {
	var rec record.Record
	if err := json.Unmarshal(rawRecord, &rec); err != nil {
		return nil, err
	}
	encoded, err := codec.Encode(rec)
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = ids.NewID(encoded).String()
	}
	token, err := g.cipher.Encrypt(encoded)
	if err != nil {
		return nil, err
	}
	return g.store.CreateAsset(id, token)
}

// decryptAll decrypts each scanned asset's record field. Failures are kept in
// place as error markers so enumeration is never silently lossy.
func (g *Generator) decryptAll(results []contract.ScanResult) []record.DecryptedAsset {
	out := make([]record.DecryptedAsset, 0, len(results))
	for _, res := range results {
		if res.Asset == nil {
			out = append(out, record.DecryptedAsset{Err: "unrecognized ledger entry: " + res.Raw})
			continue
		}
		entry := record.DecryptedAsset{ID: res.Asset.ID, DocType: res.Asset.DocType}
		plaintext, err := g.cipher.Decrypt(res.Asset.Record)
		if err != nil {
			entry.Err = err.Error()
			out = append(out, entry)
			continue
		}
		var rec record.Record
		if err := json.Unmarshal(plaintext, &rec); err != nil {
			entry.Err = "stored record is not valid JSON: " + err.Error()
			out = append(out, entry)
			continue
		}
		entry.Record = &rec
		out = append(out, entry)
	}
	return out
}

// commitAuditEntries writes one query record per shown asset. A failed write
// (most commonly an id collision within the same second for the same user) is
// logged and skipped; it never aborts the read it accompanies.
func (g *Generator) commitAuditEntries(userID string, shown []record.DecryptedAsset) {
	for _, entry := range shown {
		if entry.Record == nil {
			continue
		}
		ts := record.Timestamp(g.now())
		auditID := ids.AuditID(userID, ts)
		rec := record.Record{
			PatientID:  entry.Record.PatientID,
			Timestamp:  ts,
			UserID:     userID,
			ActionType: record.ActionQuery,
		}
		result, reason := "success", ""
		if err := g.commitOne(auditID, rec); err != nil {
			result, reason = "failure", err.Error()
		}
		g.logger.LogEvent(AuditEvent{
			Timestamp: g.now(),
			EventType: "AuditWrite",
			EntityID:  auditID,
			Result:    result,
			Reason:    reason,
			Metadata:  map[string]string{"user_id": userID, "patient_id": rec.PatientID},
		})
	}
}

func (g *Generator) commitOne(auditID string, rec record.Record) error {
	encoded, err := codec.Encode(rec)
	if err != nil {
		return err
	}
	token, err := g.cipher.Encrypt(encoded)
	if err != nil {
		return err
	}
	_, err = g.store.CreateAsset(auditID, token)
	return err
}
