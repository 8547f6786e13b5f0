package service

import (
	"context"
	"fmt"

	"github.com/entrahub/scim/db"
	"github.com/entrahub/scim/eval"
	"github.com/entrahub/scim/internal/applog"
	"github.com/entrahub/scim/queryparam"
	"github.com/entrahub/scim/resource"
	"github.com/entrahub/scim/spec"
)

// Query is the list/search service for a single resource type.
type Query interface {
	Do(ctx context.Context, req *QueryRequest) (*QueryResponse, error)
}

// QueryRequest wraps the already-parsed query parameters of a list request.
type QueryRequest struct {
	Params *queryparam.Params
}

// QueryResponse is a page of query results, with projection already applied.
type QueryResponse struct {
	TotalResults int
	StartIndex   int
	ItemsPerPage int
	Resources    []map[string]interface{}
}

// QueryService returns a Query service.
func QueryService(config *spec.ServiceProviderConfig, resourceType *spec.ResourceType, database db.DB) Query {
	return &queryService{config: config, resourceType: resourceType, database: database}
}

type queryService struct {
	config       *spec.ServiceProviderConfig
	resourceType *spec.ResourceType
	database     db.DB
}

func (s *queryService) Do(ctx context.Context, req *QueryRequest) (*QueryResponse, error) {
	p := req.Params
	if p == nil {
		p = &queryparam.Params{StartIndex: 1}
	}

	if !s.config.Filter.Supported && p.Filter != nil {
		return nil, fmt.Errorf("%w: filter is not supported", spec.ErrInvalidSyntax)
	}
	if !s.config.Sort.Supported && p.SortBy != "" {
		return nil, fmt.Errorf("%w: sorting is not supported", spec.ErrInvalidSyntax)
	}

	dbReq := db.QueryRequest{Filter: p.Filter, StartIndex: p.StartIndex, Count: p.Count}
	if p.SortBy != "" {
		order := p.SortDescending
		dbReq.Sort = &db.Sort{By: p.SortBy, Descending: order}
	}

	result, err := s.database.QueryResources(ctx, dbReq)
	if err != nil {
		applog.Log.Warn().Str("resourceType", s.resourceType.Name()).Err(err).Msg("query failed")
		return nil, err
	}
	applog.Log.Debug().Str("resourceType", s.resourceType.Name()).Int("matched", len(result.Resources)).Msg("queried resources")

	resources := result.Resources
	page := result.Page

	if result.Residual != nil {
		filtered := make([]*resource.Resource, 0, len(resources))
		for _, r := range resources {
			if eval.Evaluate(r, result.Residual) {
				filtered = append(filtered, r)
			}
		}
		if dbReq.Sort != nil {
			order := eval.SortAscending
			if dbReq.Sort.Descending {
				order = eval.SortDescending
			}
			eval.Sort(filtered, dbReq.Sort.By, order)
		}
		computed := eval.Paginate(filtered, p.StartIndex, p.Count)
		page = &computed
		resources = computed.Resources
	}

	if s.config.Filter.MaxResults > 0 && page.TotalResults > s.config.Filter.MaxResults {
		return nil, spec.ErrTooMany
	}

	out := make([]map[string]interface{}, 0, len(resources))
	for _, r := range resources {
		data := r.Data()
		StripNeverReturned(s.resourceType, data)
		if len(p.Attributes) > 0 || len(p.ExcludedAttributes) > 0 {
			data = eval.Project(r, p.Attributes, p.ExcludedAttributes)
		}
		out = append(out, data)
	}

	return &QueryResponse{
		TotalResults: page.TotalResults,
		StartIndex:   page.StartIndex,
		ItemsPerPage: page.ItemsPerPage,
		Resources:    out,
	}, nil
}
