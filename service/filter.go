// Package service implements the Resource Service: per-resource-type
// CRUD and PATCH orchestration over an Adapter Contract, composed from a
// small pipeline of cross-cutting filters (id assignment, meta stamping,
// password hashing, single-primary enforcement) that run before a resource
// is persisted.
package service

import (
	"context"

	"github.com/entrahub/scim/resource"
)

// ByResource is one stage of the create/replace/patch pipeline. Filter runs
// on a resource with no prior state (create); FilterRef runs with a
// reference resource representing the prior persisted state (replace,
// patch). A non-nil error aborts the remaining pipeline.
type ByResource interface {
	Filter(ctx context.Context, r *resource.Resource) error
	FilterRef(ctx context.Context, r, ref *resource.Resource) error
}

func runFilters(ctx context.Context, filters []ByResource, r *resource.Resource) error {
	for _, f := range filters {
		if err := f.Filter(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func runFiltersRef(ctx context.Context, filters []ByResource, r, ref *resource.Resource) error {
	for _, f := range filters {
		if err := f.FilterRef(ctx, r, ref); err != nil {
			return err
		}
	}
	return nil
}
