package audit

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medledger/core/cipher"
	"medledger/core/contract"
	"medledger/core/ledger"
	"medledger/core/record"
)

type capturingLogger struct {
	events []AuditEvent
}

func (l *capturingLogger) LogEvent(event AuditEvent) {
	l.events = append(l.events, event)
}

func newTestGenerator(t *testing.T) (*Generator, *contract.Store, *capturingLogger) {
	t.Helper()
	l, err := ledger.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i * 3)
	}
	c, err := cipher.New(key)
	require.NoError(t, err)

	store := contract.NewStore(l)
	logger := &capturingLogger{}
	return NewGenerator(store, c, logger), store, logger
}

// tickingClock returns a clock advancing one second per call, so every audit
// entry lands on a distinct timestamp.
func tickingClock(start time.Time) func() time.Time {
	calls := 0
	return func() time.Time {
		calls++
		return start.Add(time.Duration(calls) * time.Second)
	}
}

func seedRecord(t *testing.T, g *Generator, id, patientID, action string) {
	t.Helper()
	raw, err := json.Marshal(record.Record{
		PatientID:  patientID,
		Timestamp:  "1/1/2023 10:0:0",
		UserID:     "a1",
		ActionType: action,
	})
	require.NoError(t, err)
	_, err = g.CreateRecord(id, raw)
	require.NoError(t, err)
}

func TestQueryRecordsDecryptsAndReturnsAll(t *testing.T) {
	g, _, _ := newTestGenerator(t)
	g.now = tickingClock(time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC))

	seedRecord(t, g, "r1", "p1", record.ActionCreate)
	seedRecord(t, g, "r2", "p2", record.ActionChange)

	got, err := g.QueryRecords("a1", "auditor")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, entry := range got {
		require.NotNil(t, entry.Record)
		assert.Empty(t, entry.Err)
	}
}

func TestAuditCompletenessUnderNoCollisions(t *testing.T) {
	g, store, logger := newTestGenerator(t)
	g.now = tickingClock(time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC))

	seedRecord(t, g, "r1", "p1", record.ActionCreate)
	seedRecord(t, g, "r2", "p2", record.ActionChange)
	seedRecord(t, g, "r3", "p3", record.ActionPrint)

	before, err := store.GetAllAssets()
	require.NoError(t, err)

	shown, err := g.QueryRecords("a1", "auditor")
	require.NoError(t, err)
	require.Len(t, shown, 3)

	after, err := store.GetAllAssets()
	require.NoError(t, err)
	assert.Len(t, after, len(before)+3, "one audit asset per record shown")

	// Every audit write succeeded and was logged.
	var successes int
	for _, ev := range logger.events {
		if ev.EventType == "AuditWrite" && ev.Result == "success" {
			successes++
		}
	}
	assert.Equal(t, 3, successes)

	// The committed audit entries are query actions by the caller.
	queried, err := g.QueryRecords("a1", "auditor")
	require.NoError(t, err)
	var queryEntries int
	for _, entry := range queried {
		if entry.Record != nil && entry.Record.ActionType == record.ActionQuery {
			queryEntries++
			assert.Equal(t, "a1", entry.Record.UserID)
		}
	}
	assert.Equal(t, 3, queryEntries)
}

func TestAuditWriteCollisionNeverBlocksRead(t *testing.T) {
	g, store, logger := newTestGenerator(t)
	// Frozen clock: every audit id derives from the same user+second, so all
	// writes after the first collide.
	frozen := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return frozen }

	seedRecord(t, g, "r1", "p1", record.ActionCreate)
	seedRecord(t, g, "r2", "p2", record.ActionChange)

	shown, err := g.QueryRecords("a1", "auditor")
	require.NoError(t, err, "audit-write failure must never surface to the reader")
	require.Len(t, shown, 2)

	after, err := store.GetAllAssets()
	require.NoError(t, err)
	assert.Len(t, after, 3, "only the first same-second audit write lands")

	var failures int
	for _, ev := range logger.events {
		if ev.EventType == "AuditWrite" && ev.Result == "failure" {
			failures++
			assert.Contains(t, ev.Reason, "already exists")
		}
	}
	assert.Equal(t, 1, failures)
}

func TestQueryRecordsPatientScoping(t *testing.T) {
	g, _, _ := newTestGenerator(t)
	g.now = tickingClock(time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC))

	seedRecord(t, g, "r1", "p1", record.ActionCreate)
	seedRecord(t, g, "r2", "p2", record.ActionChange)
	seedRecord(t, g, "r3", "p1", record.ActionPrint)

	shown, err := g.QueryRecords("p1", "patient")
	require.NoError(t, err)
	require.Len(t, shown, 2)
	for _, entry := range shown {
		assert.Equal(t, "p1", entry.Record.PatientID)
	}
}

func TestPatientSeesOwnQueryTrail(t *testing.T) {
	g, _, _ := newTestGenerator(t)
	g.now = tickingClock(time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC))

	seedRecord(t, g, "r1", "p1", record.ActionCreate)

	first, err := g.QueryRecords("p1", "patient")
	require.NoError(t, err)
	require.Len(t, first, 1)

	// The query above wrote an audit entry with patient_id=p1, so the next
	// query surfaces it too.
	second, err := g.QueryRecords("p1", "patient")
	require.NoError(t, err)
	require.Len(t, second, 2)
}

func TestDecryptFailureReportedInPlace(t *testing.T) {
	g, store, _ := newTestGenerator(t)
	g.now = tickingClock(time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC))

	seedRecord(t, g, "good", "p1", record.ActionCreate)
	// A token nothing can decrypt.
	_, err := store.CreateAsset("bad", "not a token")
	require.NoError(t, err)

	shown, err := g.QueryRecords("a1", "auditor")
	require.NoError(t, err, "one bad entry must not abort the scan")
	require.Len(t, shown, 2)

	var markers, records int
	for _, entry := range shown {
		if entry.Record == nil {
			markers++
			assert.NotEmpty(t, entry.Err)
			assert.Equal(t, "bad", entry.ID)
		} else {
			records++
		}
	}
	assert.Equal(t, 1, markers)
	assert.Equal(t, 1, records)
}

func TestEnumerateAssetsLeavesTokensEncrypted(t *testing.T) {
	g, store, _ := newTestGenerator(t)
	g.now = tickingClock(time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC))

	seedRecord(t, g, "r1", "p1", record.ActionCreate)

	before, err := store.GetAllAssets()
	require.NoError(t, err)

	body, err := g.EnumerateAssets()
	require.NoError(t, err)
	assert.NotContains(t, body, `"patient_id"`, "enumeration returns stored tokens, not plaintext")

	after, err := store.GetAllAssets()
	require.NoError(t, err)
	assert.Len(t, after, len(before), "enumeration writes no audit entries")
}

func TestCreateRecordContentAddressed(t *testing.T) {
	g, _, _ := newTestGenerator(t)

	raw, err := json.Marshal(record.Record{
		PatientID:  "p9",
		Timestamp:  "2/2/2023 9:0:0",
		UserID:     "a1",
		ActionType: record.ActionChange,
	})
	require.NoError(t, err)

	asset, err := g.CreateRecord("", raw)
	require.NoError(t, err)
	assert.Len(t, asset.ID, 64, "derived id is a hex sha-256")

	// Same logical record derives the same id, so a second create collides.
	_, err = g.CreateRecord("", raw)
	assert.ErrorIs(t, err, contract.ErrAlreadyExists)
}
