package handler

const (
	paramID = "id"

	queryStatus       = "status"
	querySearch       = "q"
	queryLimit        = "limit"
	queryOffset       = "offset"
	queryResourceType = "resource_type"
	queryAction       = "action"
	queryActorID      = "actor_id"

	formFieldImages = "images"

	jsonKeyMessage = "message"
	jsonKeyItems   = "items"

	defaultPageLimit = 50
	maxPageLimit     = 200
)

const (
	msgContentTypeJSONRequired = "Content-Type must be application/json"
	msgInvalidRequestBody      = "invalid request body"
	msgInvalidIDFmt            = "invalid %s"
	msgInvalidQueryFmt         = "invalid %s query parameter"
	msgInvalidMultipart        = "expected multipart form with image files"
	msgOrderDeleted            = "order deleted"
	msgStaffDeleted            = "staff member deleted"
	msgProductDeleted          = "product deleted"
	msgQueryAuditFailed        = "failed to query audit events"
)
