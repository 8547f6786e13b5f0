package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/entrahub/scim/resource"
	"github.com/entrahub/scim/spec"
)

// BCryptFilter hashes every top-level string field whose attribute is marked
// writeOnly (currently just User's "password") with bcrypt, at its default
// cost. On replace/patch it skips hashing a value that is unchanged from the
// reference resource, since an already-hashed value read back from storage
// must not be re-hashed.
func BCryptFilter() ByResource { return bcryptFilter{} }

type bcryptFilter struct{}

func (f bcryptFilter) Filter(_ context.Context, r *resource.Resource) error {
	return f.hashWriteOnlyFields(r, nil)
}

func (f bcryptFilter) FilterRef(_ context.Context, r, ref *resource.Resource) error {
	return f.hashWriteOnlyFields(r, ref)
}

func (f bcryptFilter) hashWriteOnlyFields(r, ref *resource.Resource) error {
	for _, attr := range r.ResourceType().SuperAttribute(true).SubAttributes() {
		if attr.Mutability() != spec.MutabilityWriteOnly || attr.Type() != spec.TypeString || attr.IsMultiValued() {
			continue
		}

		raw, ok := r.Data()[attr.Name()].(string)
		if !ok || raw == "" {
			continue
		}

		if ref != nil {
			if prior, ok := ref.Data()[attr.Name()].(string); ok && prior == raw {
				continue // unchanged from a value already hashed on a prior pass
			}
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("%w: failed to hash attribute %q", spec.ErrInternal, attr.Name())
		}
		r.Data()[attr.Name()] = string(hashed)
	}
	return nil
}
