// Package scimconfig implements the Config Service: the three discovery
// documents RFC 7644 §§5-7 require a service provider to expose, built from
// runtime Options rather than the static JSON files the teacher served.
package scimconfig

import "github.com/entrahub/scim/spec"

// Options controls which optional features the built discovery documents
// advertise as supported.
type Options struct {
	MaxResults     int
	EnableBulk     bool
	MaxBulkOps     int
	MaxBulkPayload int
	GroupsEnabled  bool
}

// defaulted returns a copy of o with zero-valued limits replaced by the
// defaults named in §4.6/§4.8.
func (o Options) defaulted() Options {
	if o.MaxResults <= 0 {
		o.MaxResults = 200
	}
	if o.MaxBulkOps <= 0 {
		o.MaxBulkOps = 100
	}
	if o.MaxBulkPayload <= 0 {
		o.MaxBulkPayload = 1 << 20
	}
	return o
}

// ServiceProviderConfig builds the singleton ServiceProviderConfig document.
func ServiceProviderConfig(o Options) *spec.ServiceProviderConfig {
	o = o.defaulted()

	c := &spec.ServiceProviderConfig{Schemas: []string{spec.SchemaURIServiceProviderConfig}}
	c.Patch.Supported = true
	c.Filter.Supported = true
	c.Filter.MaxResults = o.MaxResults
	c.Sort.Supported = true
	c.Bulk.Supported = o.EnableBulk
	c.Bulk.MaxOp = o.MaxBulkOps
	c.Bulk.MaxPayload = o.MaxBulkPayload
	c.ChangePassword.Supported = false
	c.ETag.Supported = false
	return c
}
