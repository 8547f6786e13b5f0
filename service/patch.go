package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/entrahub/scim/db"
	"github.com/entrahub/scim/internal/applog"
	"github.com/entrahub/scim/patch"
	"github.com/entrahub/scim/resource"
	"github.com/entrahub/scim/spec"
)

// Patch is the PATCH (partial modification) service. preFilters run after
// the resource is fetched and before the PATCH operations are applied;
// postFilters run after the operations are applied and before the result is
// saved, mirroring the teacher's two-phase filter placement so that, e.g., a
// password submitted via PATCH still passes through BCryptFilter.
type Patch interface {
	Do(ctx context.Context, req *PatchRequest) (*PatchResponse, error)
}

// PatchRequest carries the id of the resource to patch, the raw PatchOp
// payload, and an optional pre-condition check.
type PatchRequest struct {
	ResourceID    string
	Payload       io.Reader
	MatchCriteria func(r *resource.Resource) bool
}

// PatchResponse is the result of a PATCH. Patched is false (with no error)
// when applying the operations produced no net change in version.
type PatchResponse struct {
	Patched  bool
	Ref      *resource.Resource
	Resource *resource.Resource
}

// PatchService returns a Patch service.
func PatchService(config *spec.ServiceProviderConfig, resourceType *spec.ResourceType, database db.DB, preFilters, postFilters []ByResource) Patch {
	return &patchService{
		resourceType: resourceType,
		preFilters:   preFilters,
		postFilters:  postFilters,
		database:     database,
		config:       config,
		engine:       patch.New(resourceType),
	}
}

type patchService struct {
	resourceType *spec.ResourceType
	preFilters   []ByResource
	postFilters  []ByResource
	database     db.DB
	config       *spec.ServiceProviderConfig
	engine       *patch.Engine
}

func (s *patchService) Do(ctx context.Context, req *PatchRequest) (*PatchResponse, error) {
	if !s.config.Patch.Supported {
		return nil, fmt.Errorf("%w: patch operation is not supported", spec.ErrNotImplemented)
	}

	patchReq, err := s.parse(req)
	if err != nil {
		return nil, err
	}

	ref, err := s.database.GetResource(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}

	if s.config.ETag.Supported && req.MatchCriteria != nil && !req.MatchCriteria(ref) {
		return nil, fmt.Errorf("%w: resource does not meet pre condition", spec.ErrConflict)
	}

	working := ref.Clone()
	if err := runFiltersRef(ctx, s.preFilters, working, ref); err != nil {
		return nil, err
	}

	patched, err := s.engine.Apply(working, patchReq)
	if err != nil {
		return nil, err
	}

	if err := runFiltersRef(ctx, s.postFilters, patched, ref); err != nil {
		return nil, err
	}
	EnforcePrimary(s.resourceType, patched.Data())
	patched.EnsureSchemas()
	StripNeverReturned(s.resourceType, ref.Data())

	if patched.MetaVersionOrEmpty() == ref.MetaVersionOrEmpty() {
		return &PatchResponse{Patched: false, Ref: ref}, nil
	}

	saved, err := s.database.UpdateResource(ctx, ref.IdOrEmpty(), patched)
	if err != nil {
		applog.Log.Warn().Str("id", ref.IdOrEmpty()).Err(err).Msg("patch failed")
		return nil, err
	}

	applog.Log.Debug().Str("id", ref.IdOrEmpty()).Msg("patched resource")
	StripNeverReturned(s.resourceType, saved.Data())
	return &PatchResponse{Patched: true, Resource: saved, Ref: ref}, nil
}

func (s *patchService) parse(req *PatchRequest) (*patch.Request, error) {
	if req == nil || req.Payload == nil {
		return nil, fmt.Errorf("%w: no payload for patch service", spec.ErrInternal)
	}

	raw, err := io.ReadAll(req.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read request body", spec.ErrInternal)
	}

	var p patch.Request
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: malformed patch document", spec.ErrInvalidSyntax)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}
