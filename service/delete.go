package service

import (
	"context"
	"fmt"

	"github.com/entrahub/scim/db"
	"github.com/entrahub/scim/internal/applog"
	"github.com/entrahub/scim/resource"
	"github.com/entrahub/scim/spec"
)

// Delete is the delete-resource service.
type Delete interface {
	Do(ctx context.Context, req *DeleteRequest) (*DeleteResponse, error)
}

// DeleteRequest identifies the resource to delete and an optional
// pre-condition check.
type DeleteRequest struct {
	ResourceID    string
	MatchCriteria func(r *resource.Resource) bool
}

// DeleteResponse carries the resource that was deleted.
type DeleteResponse struct {
	Deleted *resource.Resource
}

// DeleteService returns a Delete service.
func DeleteService(config *spec.ServiceProviderConfig, database db.DB) Delete {
	return &deleteService{config: config, database: database}
}

type deleteService struct {
	config   *spec.ServiceProviderConfig
	database db.DB
}

func (s *deleteService) Do(ctx context.Context, req *DeleteRequest) (*DeleteResponse, error) {
	r, err := s.database.GetResource(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}

	if s.config.ETag.Supported && req.MatchCriteria != nil && !req.MatchCriteria(r) {
		return nil, fmt.Errorf("%w: resource does not meet pre condition", spec.ErrConflict)
	}

	if err := s.database.DeleteResource(ctx, req.ResourceID); err != nil {
		applog.Log.Warn().Str("id", req.ResourceID).Err(err).Msg("delete failed")
		return nil, err
	}

	applog.Log.Debug().Str("id", req.ResourceID).Msg("deleted resource")
	return &DeleteResponse{Deleted: r}, nil
}
