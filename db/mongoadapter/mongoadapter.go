// Package mongoadapter implements the Adapter Contract (db.DB) against a
// MongoDB collection. A query's filter is translated into a native Mongo
// query when every node of it can be expressed; otherwise the whole filter
// is returned untranslated as the query's residual, for the caller to
// evaluate in memory with the eval package.
package mongoadapter

import (
	"context"
	"fmt"

	"github.com/entrahub/scim/db"
	"github.com/entrahub/scim/eval"
	"github.com/entrahub/scim/internal/applog"
	"github.com/entrahub/scim/resource"
	"github.com/entrahub/scim/spec"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// New returns a db.DB backed by coll, storing and querying resources of
// resourceType. Documents are stored exactly as SCIM renders them and are
// looked up by their "id" field; the driver assigns its own _id on insert,
// which is stripped again on read. New does not create any index on coll.
func New(coll *mongo.Collection, resourceType *spec.ResourceType) db.DB {
	return &mongoDB{coll: coll, resourceType: resourceType}
}

type mongoDB struct {
	coll         *mongo.Collection
	resourceType *spec.ResourceType
}

func (m *mongoDB) GetResource(ctx context.Context, id string) (*resource.Resource, error) {
	var data map[string]interface{}
	err := m.coll.FindOne(ctx, bson.M{"id": id}).Decode(&data)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: resource not found by id", spec.ErrNotFound)
	}
	if err != nil {
		applog.Log.Warn().Str("id", id).Err(err).Msg("mongo get failed")
		return nil, fmt.Errorf("%w: %v", spec.ErrInternal, err)
	}
	return resource.New(m.resourceType, stripMongoID(data)), nil
}

func (m *mongoDB) CreateResource(ctx context.Context, r *resource.Resource) (*resource.Resource, error) {
	if r.IdOrEmpty() == "" {
		return nil, fmt.Errorf("%w: empty id", spec.ErrInternal)
	}
	if _, err := m.coll.InsertOne(ctx, r.Data()); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: id exists", spec.ErrUniqueness)
		}
		applog.Log.Warn().Str("id", r.IdOrEmpty()).Err(err).Msg("mongo insert failed")
		return nil, fmt.Errorf("%w: %v", spec.ErrInternal, err)
	}
	applog.Log.Debug().Str("id", r.IdOrEmpty()).Msg("mongo inserted resource")
	return r.Clone(), nil
}

func (m *mongoDB) UpdateResource(ctx context.Context, id string, r *resource.Resource) (*resource.Resource, error) {
	res, err := m.coll.ReplaceOne(ctx, bson.M{"id": id}, r.Data())
	if err != nil {
		applog.Log.Warn().Str("id", id).Err(err).Msg("mongo replace failed")
		return nil, fmt.Errorf("%w: %v", spec.ErrInternal, err)
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: resource not found by id", spec.ErrNotFound)
	}
	applog.Log.Debug().Str("id", id).Msg("mongo replaced resource")
	return r.Clone(), nil
}

func (m *mongoDB) DeleteResource(ctx context.Context, id string) error {
	res, err := m.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		applog.Log.Warn().Str("id", id).Err(err).Msg("mongo delete failed")
		return fmt.Errorf("%w: %v", spec.ErrInternal, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: resource not found by id", spec.ErrNotFound)
	}
	applog.Log.Debug().Str("id", id).Msg("mongo deleted resource")
	return nil
}

// QueryResources translates req.Filter into a Mongo query and sort. When
// the filter contains any construct transformFilter cannot express
// (ValuePath selectors, most notably), none of it is translated: every
// document in the collection is fetched, Residual carries the whole filter,
// and the service layer re-applies it, re-sorts, and re-paginates over the
// returned set via the eval package.
func (m *mongoDB) QueryResources(ctx context.Context, req db.QueryRequest) (*db.QueryResult, error) {
	native, residual := bson.M{}, req.Filter
	if req.Filter != nil {
		if q, ok := transformFilter(req.Filter); ok {
			native, residual = q, nil
		}
	}

	opts := options.Find()
	if req.Sort != nil && residual == nil {
		dir := 1
		if req.Sort.Descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: req.Sort.By, Value: dir}})
	}
	// Pagination is only applied server-side when there is no residual
	// filter: otherwise the in-memory re-filter pass must see every
	// candidate the native query matched, and the service recomputes
	// StartIndex/Count against the true post-residual set.
	if residual == nil {
		if req.StartIndex > 1 {
			opts.SetSkip(int64(req.StartIndex - 1))
		}
		if req.Count != nil {
			opts.SetLimit(int64(*req.Count))
		}
	}

	cur, err := m.coll.Find(ctx, native, opts)
	if err != nil {
		applog.Log.Warn().Err(err).Msg("mongo query failed")
		return nil, fmt.Errorf("%w: %v", spec.ErrInternal, err)
	}
	defer cur.Close(ctx)

	var resources []*resource.Resource
	for cur.Next(ctx) {
		var data map[string]interface{}
		if err := cur.Decode(&data); err != nil {
			return nil, fmt.Errorf("%w: %v", spec.ErrInternal, err)
		}
		resources = append(resources, resource.New(m.resourceType, stripMongoID(data)))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", spec.ErrInternal, err)
	}

	if residual == nil {
		total, err := m.coll.CountDocuments(ctx, native)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", spec.ErrInternal, err)
		}
		page := eval.Page{
			Resources:    resources,
			StartIndex:   req.StartIndex,
			ItemsPerPage: len(resources),
			TotalResults: int(total),
		}
		if page.StartIndex < 1 {
			page.StartIndex = 1
		}
		return &db.QueryResult{Resources: resources, Residual: nil, Page: &page}, nil
	}

	return &db.QueryResult{Resources: resources, Residual: residual}, nil
}

// stripMongoID removes the driver-assigned "_id" field, which has no place
// in a SCIM resource document.
func stripMongoID(data map[string]interface{}) map[string]interface{} {
	delete(data, "_id")
	return data
}
