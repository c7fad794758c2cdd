package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medledger/core/audit"
	"medledger/core/cipher"
	"medledger/core/contract"
	"medledger/core/genesis"
	"medledger/core/ledger"
	"medledger/core/record"
	"medledger/core/verify"
	"medledger/types/ids"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	l, err := ledger.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i + 1)
	}
	c, err := cipher.New(key)
	require.NoError(t, err)

	store := contract.NewStore(l)
	logger := audit.NewStdoutAuditLogger()
	require.NoError(t, genesis.Seed(store, c, logger))

	return NewServer(store, audit.NewGenerator(store, c, logger), verify.NewVerifier(store), "")
}

func testMux(s *Server) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /userid/{userid}/action/{action}/role/{role}/recid/{recid}", s.HandleAuditQuery)
	mux.HandleFunc("POST /api/v1/records", s.HandleCreateRecord)
	mux.HandleFunc("GET /nodehealth", s.HandleNodeHealth)
	return mux
}

func TestQueryActionReturnsScopedRecords(t *testing.T) {
	s := newTestServer(t)
	mux := testMux(s)

	req := httptest.NewRequest("GET", "/userid/p1/action/query/role/patient/recid/none", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var entries []record.DecryptedAsset
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	require.Len(t, entries, 1, "p1 has one seed record")
	assert.Equal(t, "p1", entries[0].Record.PatientID)
}

func TestEnumerateActionReturnsTokens(t *testing.T) {
	s := newTestServer(t)
	mux := testMux(s)

	req := httptest.NewRequest("GET", "/userid/a1/action/ae/role/auditor/recid/none", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.NotContains(t, body, `"patient_id"`, "ae returns encrypted tokens")
	assert.Contains(t, body, `"docType":"asset"`)
}

func TestImmutabilityAction(t *testing.T) {
	s := newTestServer(t)
	mux := testMux(s)

	recID := ids.SeedID("3/5/2022 18:5:48")
	req := httptest.NewRequest("GET", "/userid/a1/action/hm/role/auditor/recid/"+recID, nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Modification history of record before deleting")
	assert.Contains(t, body, recID+"has been deleted")
	assert.Contains(t, body, "The most recent entry is a null string")
}

func TestImmutabilityActionMissingRecordDegradesToFailureString(t *testing.T) {
	s := newTestServer(t)
	mux := testMux(s)

	req := httptest.NewRequest("GET", "/userid/a1/action/hm/role/auditor/recid/ghost", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, "read flows report failures in the body")
	assert.True(t, strings.HasPrefix(rr.Body.String(), "Failed to verify immutability"))
}

func TestCreateRecordEndpoint(t *testing.T) {
	abs, err := filepath.Abs(filepath.Join("..", "..", "core", "validation", "schemas", "record_schema_v1.json"))
	require.NoError(t, err)
	t.Setenv("MEDLEDGER_SCHEMA_PATH", abs)

	s := newTestServer(t)
	mux := testMux(s)

	payload := `{"record":{"patient_id":"p5","timestamp":"1/6/2023 9:30:0","user_id":"a2","action_type":"print"}}`
	req := httptest.NewRequest("POST", "/api/v1/records", strings.NewReader(payload))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var asset record.Asset
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &asset))
	assert.Len(t, asset.ID, 64)
	assert.Contains(t, asset.Record, ":")

	// Same record again collides on the content-derived id.
	req = httptest.NewRequest("POST", "/api/v1/records", strings.NewReader(payload))
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestCreateRecordRejectsInvalidPayload(t *testing.T) {
	abs, err := filepath.Abs(filepath.Join("..", "..", "core", "validation", "schemas", "record_schema_v1.json"))
	require.NoError(t, err)
	t.Setenv("MEDLEDGER_SCHEMA_PATH", abs)

	s := newTestServer(t)
	mux := testMux(s)

	payload := `{"record":{"patient_id":"p5"}}`
	req := httptest.NewRequest("POST", "/api/v1/records", strings.NewReader(payload))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestNodeHealth(t *testing.T) {
	s := newTestServer(t)
	mux := testMux(s)

	req := httptest.NewRequest("GET", "/nodehealth", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp NodeHealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, 3, resp.Metrics.AssetCount)
}
