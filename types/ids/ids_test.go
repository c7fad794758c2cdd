package ids

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestAuditIDMatchesManualDerivation(t *testing.T) {
	userID := "a1"
	ts := "3/5/2022 18:5:48"
	sum := sha256.Sum256([]byte(userID + ts))
	want := hex.EncodeToString(sum[:])
	if got := AuditID(userID, ts); got != want {
		t.Errorf("AuditID = %s, want %s", got, want)
	}
}

func TestSeedIDDiffersFromAuditID(t *testing.T) {
	ts := "3/5/2022 18:5:48"
	if SeedID(ts) == AuditID("a1", ts) {
		t.Error("seed and audit derivations should differ for the same timestamp")
	}
}

func TestIDStringRoundTrip(t *testing.T) {
	id := NewID([]byte("hello"))
	parsed, err := FromString(id.String())
	if err != nil {
		t.Fatalf("FromString failed: %v", err)
	}
	if parsed != id {
		t.Errorf("round trip mismatch: %s vs %s", parsed, id)
	}
}

func TestEmptyIsZero(t *testing.T) {
	if Empty != (ID{}) {
		t.Error("Empty should be the zero ID")
	}
}
