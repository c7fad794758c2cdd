package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"medledger/core/contract"
	"medledger/core/validation"
)

// RecordSubmission is the request body for direct record creation. When ID is
// omitted the asset id is derived from the record content.
type RecordSubmission struct {
	ID     string          `json:"id,omitempty"`
	Record json.RawMessage `json:"record"`
}

// HandleCreateRecord validates a plaintext record, encrypts it and commits it
// as a new asset. Unlike the audit query flow, write errors propagate to the
// caller so workflows can decide whether to continue.
func (s *Server) HandleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var submission RecordSubmission
	if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(submission.Record) == 0 {
		http.Error(w, "Missing record", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateRecordPayload(submission.Record); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	asset, err := s.generator.CreateRecord(submission.ID, submission.Record)
	if err != nil {
		if errors.Is(err, contract.ErrAlreadyExists) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(asset)
}
