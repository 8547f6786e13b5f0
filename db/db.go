// Package db defines the Adapter Contract (§4.4): the five operations a
// storage backend implements so the resource service can remain storage
// agnostic. Adapters must be safe for concurrent invocation.
package db

import (
	"context"

	"github.com/entrahub/scim/eval"
	"github.com/entrahub/scim/filter"
	"github.com/entrahub/scim/resource"
)

// QueryRequest carries the parameters of a list/query call. Filter may be
// nil (match everything); Sort and Count are likewise optional.
type QueryRequest struct {
	Filter     *filter.Expr
	Sort       *Sort
	StartIndex int
	Count      *int
}

// Sort describes the requested ordering for a query.
type Sort struct {
	By         string
	Descending bool
}

// QueryResult is what an adapter returns from QueryResources. Residual
// holds whatever part of the requested filter the adapter did not apply
// itself; the resource service applies it in memory via the eval package.
// Per §4.4, an adapter that returns a non-nil Residual must not also apply
// pagination — Page will be recomputed by the caller in that case.
type QueryResult struct {
	Resources []*resource.Resource
	Residual  *filter.Expr
	Page      *eval.Page
}

// DB is the Adapter Contract: the capability set of five operations any
// storage backend must provide.
type DB interface {
	// GetResource fetches a single resource by id, or returns spec.ErrNotFound.
	GetResource(ctx context.Context, id string) (*resource.Resource, error)

	// QueryResources runs req against the store. The adapter may apply any
	// subset of req.Filter server-side; anything it does not apply is
	// returned in QueryResult.Residual for the caller to evaluate.
	QueryResources(ctx context.Context, req QueryRequest) (*QueryResult, error)

	// CreateResource persists a new resource, returning spec.ErrUniqueness if
	// r already carries an id that is taken.
	CreateResource(ctx context.Context, r *resource.Resource) (*resource.Resource, error)

	// UpdateResource replaces the resource stored under id with r as given:
	// it does not carry id, meta.created or any other meta field over from
	// the stored resource, so r must already hold them. Returns
	// spec.ErrNotFound if id is absent.
	UpdateResource(ctx context.Context, id string, r *resource.Resource) (*resource.Resource, error)

	// DeleteResource removes the resource stored under id. Returns
	// spec.ErrNotFound if id is absent.
	DeleteResource(ctx context.Context, id string) error
}
