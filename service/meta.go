package service

import (
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/entrahub/scim/resource"
)

// MetaFilter stamps the meta complex attribute: resourceType always, created
// only on first assignment (Filter, i.e. create), lastModified and version on
// every assignment, location derived from the resource type's endpoint and id.
func MetaFilter() ByResource { return metaFilter{} }

type metaFilter struct{}

func (f metaFilter) Filter(_ context.Context, r *resource.Resource) error {
	now := time.Now().UTC().Format(time.RFC3339)
	r.SetMeta(r.ResourceType().ID(), now, now, f.location(r), f.newVersion(r))
	return nil
}

func (f metaFilter) FilterRef(_ context.Context, r, ref *resource.Resource) error {
	if contentHash(r) == contentHash(ref) {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	r.SetMeta(r.ResourceType().ID(), "", now, f.location(r), f.newVersion(r))
	return nil
}

func (f metaFilter) location(r *resource.Resource) string {
	return strings.TrimSuffix(r.ResourceType().Endpoint(), "/") + "/" + r.IdOrEmpty()
}

// newVersion derives an opaque weak ETag from the resource id and a random
// nonce, following the same sha1-of-id-plus-nonce shape as the teacher's
// version stamping.
func (f metaFilter) newVersion(r *resource.Resource) string {
	nonce := make([]byte, 8)
	binary.LittleEndian.PutUint64(nonce, rand.Uint64())

	h := sha1.New()
	h.Write([]byte(r.IdOrEmpty()))
	h.Write(nonce)
	return fmt.Sprintf(`W/"%x"`, h.Sum(nil))
}

// contentHash is the equivalent of the teacher's prop.Resource.Hash(): a
// digest of a resource's data with meta excluded, so that a replace/patch
// which changes nothing but meta is detected as a no-op rather than always
// minting a new version. Falls back to an empty digest on marshal failure,
// which only ever compares equal to itself.
func contentHash(r *resource.Resource) string {
	if r == nil {
		return ""
	}
	clone := r.Clone().Data()
	delete(clone, "meta")
	raw, err := json.Marshal(clone)
	if err != nil {
		return ""
	}
	sum := sha1.Sum(raw)
	return fmt.Sprintf("%x", sum)
}
