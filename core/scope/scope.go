// Package scope filters decrypted enumerations by caller role.
package scope

import "medledger/core/record"

const (
	RolePatient = "patient"
	RoleAuditor = "auditor"
)

// Filter applies role-scoped visibility: auditors see everything, patients see
// only records whose patient_id matches their own identity. Entries without a
// decodable record (error markers) are visible to auditors only.
func Filter(role, userID string, assets []record.DecryptedAsset) []record.DecryptedAsset {
	if role == RoleAuditor {
		return assets
	}
	scoped := make([]record.DecryptedAsset, 0, len(assets))
	for _, a := range assets {
		if a.Record != nil && a.Record.PatientID == userID {
			scoped = append(scoped, a)
		}
	}
	return scoped
}
