// Package verify demonstrates the ledger's tamper evidence: deleting an asset
// removes its current value but must leave every prior version readable.
package verify

import (
	"fmt"
	"strings"

	"medledger/core/contract"
)

type Verifier struct {
	store *contract.Store
}

func NewVerifier(store *contract.Store) *Verifier {
	return &Verifier{store: store}
}

// VerifyImmutability reads the modification history of id, deletes the asset,
// reads the history again and renders both. The post-delete history must be
// the pre-delete history plus exactly one trailing tombstone entry; any other
// shape is reported as an error.
func (v *Verifier) VerifyImmutability(id string) (string, error) {
	before, err := v.store.GetModificationHistory(id)
	if err != nil {
		return "", err
	}

	var report strings.Builder
	report.WriteString("Modification history of record before deleting\n")
	report.WriteString(" " + renderHistory(before))

	if err := v.store.DeleteAsset(id); err != nil {
		return "", err
	}
	report.WriteString("\n" + id + "has been deleted\n\n")

	after, err := v.store.GetModificationHistory(id)
	if err != nil {
		return "", err
	}
	if err := checkAppendOnly(before, after); err != nil {
		return "", err
	}

	report.WriteString("Modification history of record after deleting\n")
	report.WriteString(" " + renderHistory(after))
	report.WriteString("\nThe most recent entry is a null string i.e. record has been deleted")
	return report.String(), nil
}

// checkAppendOnly enforces the tamper-evidence property: after extends before
// by exactly one empty entry, with before as an exact prefix.
func checkAppendOnly(before, after []string) error {
	if len(after) != len(before)+1 {
		return fmt.Errorf("history not append-only: %d entries before delete, %d after", len(before), len(after))
	}
	for i, v := range before {
		if after[i] != v {
			return fmt.Errorf("history rewritten at entry %d after delete", i+1)
		}
	}
	if after[len(after)-1] != "" {
		return fmt.Errorf("final history entry is not a tombstone")
	}
	return nil
}

func renderHistory(values []string) string {
	var b strings.Builder
	for i, v := range values {
		fmt.Fprintf(&b, "Record %d = %s,", i+1, v)
	}
	return b.String()
}
