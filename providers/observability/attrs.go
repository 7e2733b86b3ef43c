package observability

// Common attribute keys used across spans. Keeping them centralized makes
// traces queryable by a consistent vocabulary.
const (
	AttrHTTPMethod           = "http.method"
	AttrHTTPURL              = "http.url"
	AttrHTTPStatusCode       = "http.status_code"
	AttrHTTPRequestBodySize  = "http.request.body_size"
	AttrHTTPResponseBodySize = "http.response.body_size"

	AttrModelName     = "model.name"
	AttrModelProvider = "model.provider"

	AttrWorkflowRunID = "workflow.run_id"
	AttrWorkflowNode  = "workflow.node"
)
