package apierr

// Code is a machine-readable error code returned in API responses.
type Code string

// Common errors.
const (
	CodeInvalidRequestBody Code = "INVALID_REQUEST_BODY"
	CodeInternalError      Code = "INTERNAL_ERROR"
)

// Catalog errors.
const (
	CodeTitleRequired        Code = "TITLE_REQUIRED"
	CodeCatalogRequestFailed Code = "CATALOG_REQUEST_FAILED"
	CodeCatalogMalformed     Code = "CATALOG_MALFORMED_RESPONSE"
)

// Ingestion errors.
const (
	CodeInvalidFilmID         Code = "INVALID_FILM_ID"
	CodeIngestRunNotFound     Code = "INGEST_RUN_NOT_FOUND"
	CodeInvalidRunID          Code = "INVALID_RUN_ID"
	CodeIngestRunCreateFailed Code = "INGEST_RUN_CREATE_FAILED"
	CodeIngestRunListFailed   Code = "INGEST_RUN_LIST_FAILED"
	CodeIngestEnqueueFailed   Code = "INGEST_ENQUEUE_FAILED"
	CodeIngestFailed          Code = "INGEST_FAILED"
)

// Graph store errors.
const (
	CodeGraphUnavailable  Code = "GRAPH_UNAVAILABLE"
	CodeGraphExportFailed Code = "GRAPH_EXPORT_FAILED"
)

// Health errors.
const (
	CodeDatabaseNotReady Code = "DATABASE_NOT_READY"
)
