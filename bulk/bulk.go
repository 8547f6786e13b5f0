// Package bulk implements the Bulk Dispatcher: parses a BulkRequest
// envelope and routes each operation to the appropriate resource service,
// processing operations strictly sequentially so failOnErrors has
// well-defined semantics.
package bulk

import (
	"encoding/json"
	"fmt"

	"github.com/entrahub/scim/spec"
)

// Operation is one entry of a BulkRequest's Operations list.
type Operation struct {
	Method  string          `json:"method"`
	BulkID  string          `json:"bulkId,omitempty"`
	Path    string          `json:"path"`
	Version string          `json:"version,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Request is a parsed BulkRequest envelope.
type Request struct {
	Schemas      []string    `json:"schemas"`
	FailOnErrors int         `json:"failOnErrors,omitempty"`
	Operations   []Operation `json:"Operations"`
}

// OperationResult is one entry of a BulkResponse's Operations list.
type OperationResult struct {
	Method   string      `json:"method"`
	BulkID   string      `json:"bulkId,omitempty"`
	Location string      `json:"location,omitempty"`
	Status   string      `json:"status"`
	Response interface{} `json:"response,omitempty"`
}

// Response is the BulkResponse envelope.
type Response struct {
	Schemas    []string          `json:"schemas"`
	Operations []OperationResult `json:"Operations"`
}

// DefaultMaxOperations is the maxBulkOperations limit applied when a
// Dispatcher is constructed with a non-positive value.
const DefaultMaxOperations = 100

// errorResult converts err into an OperationResult carrying a SCIM error
// body and the error's HTTP status, per §4.6 point 4.
func errorResult(method, bulkID string, err error) OperationResult {
	status, scimType := statusOf(err)
	body := map[string]interface{}{
		"schemas": []string{spec.SchemaURIError},
		"status":  fmt.Sprintf("%d", status),
		"detail":  err.Error(),
	}
	if scimType != "" {
		body["scimType"] = scimType
	}
	return OperationResult{
		Method:   method,
		BulkID:   bulkID,
		Status:   fmt.Sprintf("%d", status),
		Response: body,
	}
}

func statusOf(err error) (int, string) {
	if se, ok := asSpecError(err); ok {
		return se.Status, scimTypeFor(se)
	}
	return 500, ""
}

// scimTypeFor reports the scimType value (§6.3) for the subset of errors
// that carry one; other errors omit the field.
func scimTypeFor(se *spec.Error) string {
	switch se.Type {
	case "invalidValue", "invalidFilter", "uniqueness":
		return se.Type
	default:
		return ""
	}
}

func asSpecError(err error) (*spec.Error, bool) {
	type unwrapper interface{ Unwrap() error }
	for err != nil {
		if se, ok := err.(*spec.Error); ok {
			return se, true
		}
		u, ok := err.(unwrapper)
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}
