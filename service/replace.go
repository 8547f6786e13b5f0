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

// Replace is the replace-resource (PUT) service.
type Replace interface {
	Do(ctx context.Context, req *ReplaceRequest) (*ReplaceResponse, error)
}

// ReplaceRequest carries the id of the resource being replaced, its
// replacement document, and an optional pre-condition check evaluated
// against the resource's current state (an If-Match style guard).
type ReplaceRequest struct {
	ResourceID    string
	Payload       io.Reader
	MatchCriteria func(r *resource.Resource) bool
}

// ReplaceResponse is the result of a replace. Replaced is false (with no
// error) when the submitted document is identical to the current version,
// per the no-op shortcut the patch service also takes.
type ReplaceResponse struct {
	Replaced bool
	Ref      *resource.Resource
	Resource *resource.Resource
}

// ReplaceService returns a Replace service.
func ReplaceService(config *spec.ServiceProviderConfig, resourceType *spec.ResourceType, database db.DB, filters []ByResource) Replace {
	return &replaceService{resourceType: resourceType, filters: filters, database: database, config: config}
}

type replaceService struct {
	resourceType *spec.ResourceType
	filters      []ByResource
	database     db.DB
	config       *spec.ServiceProviderConfig
}

func (s *replaceService) Do(ctx context.Context, req *ReplaceRequest) (*ReplaceResponse, error) {
	ref, err := s.database.GetResource(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}

	if s.config.ETag.Supported && req.MatchCriteria != nil && !req.MatchCriteria(ref) {
		return nil, fmt.Errorf("%w: resource does not meet pre condition", spec.ErrConflict)
	}

	replacement, err := s.parse(req)
	if err != nil {
		return nil, err
	}
	replacement.SetId(ref.IdOrEmpty())
	// meta is server-controlled: the replacement starts from the stored meta,
	// so meta.created is kept and an unchanged document keeps its version.
	delete(replacement.Data(), "meta")
	if meta, ok := ref.Clone().Data()["meta"]; ok {
		replacement.Data()["meta"] = meta
	}
	EnforcePrimary(s.resourceType, replacement.Data())
	replacement.EnsureSchemas()

	// Normalization runs before the filter chain so MetaFilter's
	// content-equality check (in FilterRef) compares replacement against ref
	// on the same normalized shape ref was persisted with, rather than
	// against the client's raw, possibly-incomplete submission.
	if err := runFiltersRef(ctx, s.filters, replacement, ref); err != nil {
		return nil, err
	}
	StripNeverReturned(s.resourceType, ref.Data())

	if replacement.MetaVersionOrEmpty() == ref.MetaVersionOrEmpty() {
		return &ReplaceResponse{Replaced: false, Ref: ref}, nil
	}

	saved, err := s.database.UpdateResource(ctx, ref.IdOrEmpty(), replacement)
	if err != nil {
		applog.Log.Warn().Str("id", ref.IdOrEmpty()).Err(err).Msg("replace failed")
		return nil, err
	}

	applog.Log.Debug().Str("id", ref.IdOrEmpty()).Msg("replaced resource")
	StripNeverReturned(s.resourceType, saved.Data())
	return &ReplaceResponse{Replaced: true, Resource: saved, Ref: ref}, nil
}

func (s *replaceService) parse(req *ReplaceRequest) (*resource.Resource, error) {
	if req == nil || req.Payload == nil {
		return nil, fmt.Errorf("%w: no payload for replace service", spec.ErrInternal)
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
