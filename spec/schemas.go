package spec

// CoreSchema carries the attributes common to every resource: id, externalId,
// meta. It is not addressable on its own; its attributes are merged into
// every concrete resource type's super attribute.
var CoreSchema = NewSchema(SchemaURICore, "Core", "Core attributes common to all resources",
	NewSimpleAttribute("id", TypeString).
		WithMutability(MutabilityReadOnly).
		WithReturned(ReturnedAlways).
		WithUniqueness(UniquenessServer).
		WithDescription("Unique identifier for the resource as defined by the service provider."),
	NewSimpleAttribute("externalId", TypeString).
		WithDescription("Identifier assigned by the provisioning client."),
	NewComplexAttribute("meta",
		NewSimpleAttribute("resourceType", TypeString).WithMutability(MutabilityReadOnly),
		NewSimpleAttribute("created", TypeDateTime).WithMutability(MutabilityReadOnly),
		NewSimpleAttribute("lastModified", TypeDateTime).WithMutability(MutabilityReadOnly),
		NewSimpleAttribute("location", TypeReference).WithMutability(MutabilityReadOnly),
		NewSimpleAttribute("version", TypeString).WithMutability(MutabilityReadOnly),
	).WithMutability(MutabilityReadOnly).WithDescription("Resource metadata maintained by the service provider."),
)

func multiValuedComplex(name string, sub ...*Attribute) *Attribute {
	return NewComplexAttribute(name, sub...).MultiValued(true)
}

// UserSchema is the RFC 7643 §4.1 core User schema.
var UserSchema = NewSchema(SchemaURIUser, "User", "User Account",
	NewSimpleAttribute("userName", TypeString).
		AsRequired(true).
		WithUniqueness(UniquenessServer).
		WithDescription("Unique identifier for the user, typically used to directly authenticate."),
	NewComplexAttribute("name",
		NewSimpleAttribute("formatted", TypeString),
		NewSimpleAttribute("familyName", TypeString),
		NewSimpleAttribute("givenName", TypeString),
		NewSimpleAttribute("middleName", TypeString),
		NewSimpleAttribute("honorificPrefix", TypeString),
		NewSimpleAttribute("honorificSuffix", TypeString),
	).WithDescription("The components of the user's real name."),
	NewSimpleAttribute("displayName", TypeString),
	NewSimpleAttribute("nickName", TypeString),
	NewSimpleAttribute("profileUrl", TypeReference),
	NewSimpleAttribute("title", TypeString),
	NewSimpleAttribute("userType", TypeString),
	NewSimpleAttribute("preferredLanguage", TypeString),
	NewSimpleAttribute("locale", TypeString),
	NewSimpleAttribute("timezone", TypeString),
	NewSimpleAttribute("active", TypeBoolean),
	NewSimpleAttribute("password", TypeString).
		WithMutability(MutabilityWriteOnly).
		WithReturned(ReturnedNever).
		WithDescription("The user's clear text password, never returned."),
	multiValuedComplex("emails",
		NewSimpleAttribute("value", TypeString),
		NewSimpleAttribute("display", TypeString),
		NewSimpleAttribute("type", TypeString),
		NewSimpleAttribute("primary", TypeBoolean),
	),
	multiValuedComplex("phoneNumbers",
		NewSimpleAttribute("value", TypeString),
		NewSimpleAttribute("display", TypeString),
		NewSimpleAttribute("type", TypeString),
		NewSimpleAttribute("primary", TypeBoolean),
	),
	multiValuedComplex("ims",
		NewSimpleAttribute("value", TypeString),
		NewSimpleAttribute("display", TypeString),
		NewSimpleAttribute("type", TypeString),
		NewSimpleAttribute("primary", TypeBoolean),
	),
	multiValuedComplex("photos",
		NewSimpleAttribute("value", TypeReference),
		NewSimpleAttribute("display", TypeString),
		NewSimpleAttribute("type", TypeString),
		NewSimpleAttribute("primary", TypeBoolean),
	),
	multiValuedComplex("addresses",
		NewSimpleAttribute("formatted", TypeString),
		NewSimpleAttribute("streetAddress", TypeString),
		NewSimpleAttribute("locality", TypeString),
		NewSimpleAttribute("region", TypeString),
		NewSimpleAttribute("postalCode", TypeString),
		NewSimpleAttribute("country", TypeString),
		NewSimpleAttribute("type", TypeString),
	),
	multiValuedComplex("groups",
		NewSimpleAttribute("value", TypeString).WithMutability(MutabilityReadOnly),
		NewSimpleAttribute("display", TypeString).WithMutability(MutabilityReadOnly),
		NewSimpleAttribute("type", TypeString).WithMutability(MutabilityReadOnly),
		NewSimpleAttribute("$ref", TypeReference).WithMutability(MutabilityReadOnly),
	).WithMutability(MutabilityReadOnly).WithDescription("Groups the user belongs to, directly or indirectly, populated by the sync collaborator."),
	multiValuedComplex("entitlements",
		NewSimpleAttribute("value", TypeString),
		NewSimpleAttribute("display", TypeString),
		NewSimpleAttribute("type", TypeString),
		NewSimpleAttribute("primary", TypeBoolean),
	),
	multiValuedComplex("roles",
		NewSimpleAttribute("value", TypeString),
		NewSimpleAttribute("display", TypeString),
		NewSimpleAttribute("type", TypeString),
		NewSimpleAttribute("primary", TypeBoolean),
	),
	multiValuedComplex("x509Certificates",
		NewSimpleAttribute("value", TypeBinary),
		NewSimpleAttribute("display", TypeString),
		NewSimpleAttribute("type", TypeString),
		NewSimpleAttribute("primary", TypeBoolean),
	),
)

// EnterpriseUserSchema is the RFC 7643 §4.3 Enterprise User extension.
var EnterpriseUserSchema = NewSchema(SchemaURIEnterpriseUser, "EnterpriseUser", "Enterprise User extension",
	NewSimpleAttribute("employeeNumber", TypeString),
	NewSimpleAttribute("costCenter", TypeString),
	NewSimpleAttribute("organization", TypeString),
	NewSimpleAttribute("division", TypeString),
	NewSimpleAttribute("department", TypeString),
	NewComplexAttribute("manager",
		NewSimpleAttribute("value", TypeString),
		NewSimpleAttribute("$ref", TypeReference),
		NewSimpleAttribute("displayName", TypeString).WithMutability(MutabilityReadOnly),
	),
)

// GroupSchema is the RFC 7643 §4.2 core Group schema.
var GroupSchema = NewSchema(SchemaURIGroup, "Group", "Group",
	NewSimpleAttribute("displayName", TypeString).AsRequired(true),
	multiValuedComplex("members",
		NewSimpleAttribute("value", TypeString),
		NewSimpleAttribute("$ref", TypeReference),
		NewSimpleAttribute("display", TypeString).WithMutability(MutabilityImmutable),
		NewSimpleAttribute("type", TypeString).WithMutability(MutabilityImmutable),
	),
)

// UserResourceType is the resource type registration for "User", with the
// Enterprise User extension attached as optional.
var UserResourceType = NewResourceType(ResourceTypeUser, "User", "User Account", "/Users", UserSchema).
	WithExtension(EnterpriseUserSchema, false)

// GroupResourceType is the resource type registration for "Group".
var GroupResourceType = NewResourceType(ResourceTypeGroup, "Group", "Group", "/Groups", GroupSchema)

// SuperAttribute returns a synthetic complex Attribute whose sub attributes
// are the union of CoreSchema, the resource type's main schema, and (if
// includeExtensions) its schema extensions. It is used by the resource
// service's password hashing, single-primary enforcement and never-returned
// stripping; it is never itself part of a wire document.
func (t *ResourceType) SuperAttribute(includeExtensions bool) *Attribute {
	var subs []*Attribute
	subs = append(subs, CoreSchema.Attributes()...)
	subs = append(subs, t.schema.Attributes()...)
	if includeExtensions {
		for _, ext := range t.extensions {
			subs = append(subs, ext.Attributes()...)
		}
	}
	return NewComplexAttribute(t.schema.id, subs...)
}
