package spec

// Schema URIs as assigned by RFC 7643/7644. These identify schemas, resource
// types, and message payloads throughout the engine.
const (
	SchemaURICore                  = "urn:ietf:params:scim:schemas:core:2.0:Core"
	SchemaURIUser                  = "urn:ietf:params:scim:schemas:core:2.0:User"
	SchemaURIGroup                 = "urn:ietf:params:scim:schemas:core:2.0:Group"
	SchemaURIEnterpriseUser        = "urn:ietf:params:scim:schemas:extension:enterprise:2.0:User"
	SchemaURIServiceProviderConfig = "urn:ietf:params:scim:schemas:core:2.0:ServiceProviderConfig"
	SchemaURIResourceType          = "urn:ietf:params:scim:schemas:core:2.0:ResourceType"
	SchemaURISchema                = "urn:ietf:params:scim:schemas:core:2.0:Schema"

	SchemaURIListResponse = "urn:ietf:params:scim:api:messages:2.0:ListResponse"
	SchemaURIPatchOp      = "urn:ietf:params:scim:api:messages:2.0:PatchOp"
	SchemaURIBulkRequest  = "urn:ietf:params:scim:api:messages:2.0:BulkRequest"
	SchemaURIBulkResponse = "urn:ietf:params:scim:api:messages:2.0:BulkResponse"
	SchemaURIError        = "urn:ietf:params:scim:api:messages:2.0:Error"
)

// Resource type ids used to key the in-memory schema registry and resource type registry.
const (
	ResourceTypeUser  = "User"
	ResourceTypeGroup = "Group"
)
