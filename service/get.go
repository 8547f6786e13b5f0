package service

import (
	"context"

	"github.com/entrahub/scim/db"
	"github.com/entrahub/scim/eval"
	"github.com/entrahub/scim/internal/applog"
	"github.com/entrahub/scim/resource"
	"github.com/entrahub/scim/spec"
)

// Get is the get-one-resource service.
type Get interface {
	Do(ctx context.Context, req *GetRequest) (*GetResponse, error)
}

// GetRequest identifies the resource to fetch and an optional projection.
type GetRequest struct {
	ResourceID         string
	Attributes         []string
	ExcludedAttributes []string
}

// GetResponse is the result of a successful get.
type GetResponse struct {
	Resource *resource.Resource
}

// GetService returns a Get service.
func GetService(resourceType *spec.ResourceType, database db.DB) Get {
	return &getService{resourceType: resourceType, database: database}
}

type getService struct {
	resourceType *spec.ResourceType
	database     db.DB
}

func (s *getService) Do(ctx context.Context, req *GetRequest) (*GetResponse, error) {
	r, err := s.database.GetResource(ctx, req.ResourceID)
	if err != nil {
		applog.Log.Warn().Str("id", req.ResourceID).Err(err).Msg("get failed")
		return nil, err
	}

	applog.Log.Debug().Str("id", req.ResourceID).Msg("fetched resource")
	StripNeverReturned(s.resourceType, r.Data())

	if len(req.Attributes) > 0 || len(req.ExcludedAttributes) > 0 {
		r = resource.New(s.resourceType, eval.Project(r, req.Attributes, req.ExcludedAttributes))
	}

	return &GetResponse{Resource: r}, nil
}
