package bulk

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/entrahub/scim/internal/applog"
	"github.com/entrahub/scim/service"
	"github.com/entrahub/scim/spec"
)

// pathPattern matches a bulk operation's path against a collection endpoint
// with an optional resource id, per §4.6 point 1.
var pathPattern = regexp.MustCompile(`^/(Users|Groups)(/([^/]+))?$`)

// ResourceServices bundles the per-resource-type services a Dispatcher
// routes bulk operations to.
type ResourceServices struct {
	Create  service.Create
	Replace service.Replace
	Patch   service.Patch
	Delete  service.Delete
}

// Dispatcher routes BulkRequest operations to the registered services for
// the "Users"/"Groups" collection named in each operation's path.
type Dispatcher struct {
	byCollection  map[string]ResourceServices
	maxOperations int
}

// New returns a Dispatcher. byCollection is keyed by the plural collection
// segment ("Users", "Groups"). maxOperations <= 0 uses DefaultMaxOperations.
func New(byCollection map[string]ResourceServices, maxOperations int) *Dispatcher {
	if maxOperations <= 0 {
		maxOperations = DefaultMaxOperations
	}
	return &Dispatcher{byCollection: byCollection, maxOperations: maxOperations}
}

// Do processes req's operations strictly sequentially, stopping once the
// number of failed operations reaches req.FailOnErrors (when positive).
func (d *Dispatcher) Do(ctx context.Context, req *Request) (*Response, error) {
	if len(req.Operations) > d.maxOperations {
		return nil, fmt.Errorf("%w: bulk request exceeds %d operations", spec.ErrInvalidValue, d.maxOperations)
	}

	resp := &Response{Schemas: []string{spec.SchemaURIBulkResponse}}
	failed := 0

	for _, op := range req.Operations {
		if req.FailOnErrors > 0 && failed >= req.FailOnErrors {
			break
		}

		result := d.dispatch(ctx, op)
		resp.Operations = append(resp.Operations, result)
		if isFailureStatus(result.Status) {
			applog.Log.Warn().Str("method", op.Method).Str("bulkId", op.BulkID).Str("status", result.Status).Msg("bulk operation failed")
			failed++
		}
	}

	applog.Log.Debug().Int("operations", len(resp.Operations)).Int("failed", failed).Msg("bulk request dispatched")
	return resp, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, op Operation) OperationResult {
	collection, id, err := parsePath(op.Path)
	if err != nil {
		return errorResult(op.Method, op.BulkID, err)
	}

	svcs, ok := d.byCollection[collection]
	if !ok {
		return errorResult(op.Method, op.BulkID, fmt.Errorf("%w: unknown resource collection %q", spec.ErrInvalidValue, collection))
	}

	switch strings.ToUpper(op.Method) {
	case "POST":
		return d.create(ctx, svcs, op)
	case "PUT":
		return d.replace(ctx, svcs, op, id)
	case "PATCH":
		return d.patch(ctx, svcs, op, id)
	case "DELETE":
		return d.delete(ctx, svcs, op, id)
	default:
		return errorResult(op.Method, op.BulkID, fmt.Errorf("%w: unsupported bulk method %q", spec.ErrInvalidValue, op.Method))
	}
}

func isFailureStatus(status string) bool {
	n, err := strconv.Atoi(status)
	return err != nil || n >= 400
}

// parsePath matches raw against pathPattern, returning the collection name
// ("Users"/"Groups") and the resource id segment (empty for a collection-only
// path such as "/Users").
func parsePath(raw string) (collection, id string, err error) {
	m := pathPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", "", fmt.Errorf("%w: invalid bulk operation path %q", spec.ErrInvalidValue, raw)
	}
	return m[1], m[3], nil
}

func (d *Dispatcher) create(ctx context.Context, svcs ResourceServices, op Operation) OperationResult {
	if svcs.Create == nil {
		return errorResult(op.Method, op.BulkID, fmt.Errorf("%w: create is not supported for this resource", spec.ErrInvalidValue))
	}
	resp, err := svcs.Create.Do(ctx, &service.CreateRequest{Payload: bytes.NewReader(op.Data)})
	if err != nil {
		return errorResult(op.Method, op.BulkID, err)
	}
	return OperationResult{
		Method:   op.Method,
		BulkID:   op.BulkID,
		Location: resp.Resource.MetaLocationOrEmpty(),
		Status:   "201",
		Response: resp.Resource.Data(),
	}
}

func (d *Dispatcher) replace(ctx context.Context, svcs ResourceServices, op Operation, id string) OperationResult {
	if id == "" {
		return errorResult(op.Method, op.BulkID, fmt.Errorf("%w: PUT requires a resource id in the path", spec.ErrInvalidValue))
	}
	if svcs.Replace == nil {
		return errorResult(op.Method, op.BulkID, fmt.Errorf("%w: replace is not supported for this resource", spec.ErrInvalidValue))
	}
	resp, err := svcs.Replace.Do(ctx, &service.ReplaceRequest{ResourceID: id, Payload: bytes.NewReader(op.Data)})
	if err != nil {
		return errorResult(op.Method, op.BulkID, err)
	}
	return OperationResult{
		Method:   op.Method,
		BulkID:   op.BulkID,
		Location: resp.Resource.MetaLocationOrEmpty(),
		Status:   "200",
		Response: resp.Resource.Data(),
	}
}

func (d *Dispatcher) patch(ctx context.Context, svcs ResourceServices, op Operation, id string) OperationResult {
	if id == "" {
		return errorResult(op.Method, op.BulkID, fmt.Errorf("%w: PATCH requires a resource id in the path", spec.ErrInvalidValue))
	}
	if svcs.Patch == nil {
		return errorResult(op.Method, op.BulkID, fmt.Errorf("%w: patch is not supported for this resource", spec.ErrInvalidValue))
	}
	resp, err := svcs.Patch.Do(ctx, &service.PatchRequest{ResourceID: id, Payload: bytes.NewReader(op.Data)})
	if err != nil {
		return errorResult(op.Method, op.BulkID, err)
	}
	result := OperationResult{Method: op.Method, BulkID: op.BulkID, Status: "200"}
	if resp.Resource != nil {
		result.Location = resp.Resource.MetaLocationOrEmpty()
		result.Response = resp.Resource.Data()
	}
	return result
}

func (d *Dispatcher) delete(ctx context.Context, svcs ResourceServices, op Operation, id string) OperationResult {
	if id == "" {
		return errorResult(op.Method, op.BulkID, fmt.Errorf("%w: DELETE requires a resource id in the path", spec.ErrInvalidValue))
	}
	if svcs.Delete == nil {
		return errorResult(op.Method, op.BulkID, fmt.Errorf("%w: delete is not supported for this resource", spec.ErrInvalidValue))
	}
	_, err := svcs.Delete.Do(ctx, &service.DeleteRequest{ResourceID: id})
	if err != nil {
		return errorResult(op.Method, op.BulkID, err)
	}
	return OperationResult{Method: op.Method, BulkID: op.BulkID, Status: "204"}
}
