package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/entrahub/scim/resource"
)

// UUIDFilter assigns a random id to a resource that doesn't already carry
// one. It never overwrites an existing id.
func UUIDFilter() ByResource { return uuidFilter{} }

type uuidFilter struct{}

func (uuidFilter) Filter(_ context.Context, r *resource.Resource) error {
	if r.IdOrEmpty() == "" {
		r.SetId(uuid.New().String())
	}
	return nil
}

func (f uuidFilter) FilterRef(ctx context.Context, r, _ *resource.Resource) error {
	return f.Filter(ctx, r)
}
