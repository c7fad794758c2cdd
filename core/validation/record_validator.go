// Package validation checks plaintext records submitted through the create
// endpoint before they are encrypted and committed. Internally generated
// records (seeding, audit writes) bypass it.
package validation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/xeipuuv/gojsonschema"
)

// timestampPattern is the second-resolution day/month/year form records carry.
var timestampPattern = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4} \d{1,2}:\d{1,2}:\d{1,2}$`)

func getSchemaPath() string {
	if env := os.Getenv("MEDLEDGER_SCHEMA_PATH"); env != "" {
		return env
	}
	return filepath.Join("core", "validation", "schemas", "record_schema_v1.json")
}

// ValidateRecordPayload validates a raw JSON record against the schema and
// additional logic.
func ValidateRecordPayload(payload []byte) error {
	var rec map[string]interface{}
	if err := json.Unmarshal(payload, &rec); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	schemaLoader := gojsonschema.NewReferenceLoader("file://" + getSchemaPath())
	documentLoader := gojsonschema.NewBytesLoader(payload)
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		errStr := ""
		for _, e := range result.Errors() {
			errStr += e.String() + "; "
		}
		return fmt.Errorf("record failed schema validation: %s", errStr)
	}

	ts, _ := rec["timestamp"].(string)
	if err := EnforceTimestampFormat(ts); err != nil {
		return err
	}
	return nil
}

// EnforceTimestampFormat checks the d/m/yyyy h:m:s record timestamp shape.
func EnforceTimestampFormat(ts string) error {
	if ts == "" {
		return fmt.Errorf("timestamp is empty")
	}
	if !timestampPattern.MatchString(ts) {
		return fmt.Errorf("timestamp must be d/m/yyyy h:m:s, got %q", ts)
	}
	return nil
}
