package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/entrahub/scim/db"
	"github.com/entrahub/scim/internal/applog"
	"github.com/entrahub/scim/resource"
	"github.com/entrahub/scim/spec"
)

// Create is the create-resource service.
type Create interface {
	Do(ctx context.Context, req *CreateRequest) (*CreateResponse, error)
}

// CreateRequest carries the raw resource document to create.
type CreateRequest struct {
	Payload io.Reader
}

// CreateResponse is the result of a successful create.
type CreateResponse struct {
	Resource *resource.Resource
}

// CreateService returns a Create service that runs filters (id assignment,
// meta stamping, password hashing, ...) over the parsed resource before
// persisting it via database.
func CreateService(resourceType *spec.ResourceType, database db.DB, filters []ByResource) Create {
	return &createService{resourceType: resourceType, filters: filters, database: database}
}

type createService struct {
	resourceType *spec.ResourceType
	filters      []ByResource
	database     db.DB
}

func (s *createService) Do(ctx context.Context, req *CreateRequest) (*CreateResponse, error) {
	r, err := s.parse(req)
	if err != nil {
		return nil, err
	}

	if err := runFilters(ctx, s.filters, r); err != nil {
		return nil, err
	}
	EnforcePrimary(s.resourceType, r.Data())
	r.EnsureSchemas()

	created, err := s.database.CreateResource(ctx, r)
	if err != nil {
		applog.Log.Warn().Str("resourceType", s.resourceType.Name()).Err(err).Msg("create failed")
		return nil, err
	}

	applog.Log.Debug().Str("resourceType", s.resourceType.Name()).Str("id", created.IdOrEmpty()).Msg("created resource")
	StripNeverReturned(s.resourceType, created.Data())
	return &CreateResponse{Resource: created}, nil
}

func (s *createService) parse(req *CreateRequest) (*resource.Resource, error) {
	if req == nil || req.Payload == nil {
		return nil, fmt.Errorf("%w: no payload for create service", spec.ErrInternal)
	}

	raw, err := io.ReadAll(req.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read request body", spec.ErrInternal)
	}

	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: malformed resource document", spec.ErrInvalidSyntax)
	}

	return resource.New(s.resourceType, data), nil
}
