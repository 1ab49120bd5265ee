package apierr

import "net/http"

// --- Common ---

func InvalidRequestBody() *Error {
	return New(CodeInvalidRequestBody, http.StatusBadRequest, "Invalid request body")
}

func InternalError(cause error) *Error {
	return Wrap(CodeInternalError, http.StatusInternalServerError, "Internal server error", cause)
}

// --- Catalog ---

func TitleRequired() *Error {
	return New(CodeTitleRequired, http.StatusBadRequest, "Query parameter 'title' is required")
}

func CatalogRequestFailed(cause error) *Error {
	return Wrap(CodeCatalogRequestFailed, http.StatusBadGateway, "Film catalog request failed", cause)
}

func CatalogMalformed(cause error) *Error {
	return Wrap(CodeCatalogMalformed, http.StatusBadGateway, "Film catalog returned malformed data", cause)
}

// --- Ingestion ---

func InvalidFilmID() *Error {
	return New(CodeInvalidFilmID, http.StatusBadRequest, "Invalid film ID")
}

func IngestRunNotFound() *Error {
	return New(CodeIngestRunNotFound, http.StatusNotFound, "Ingest run not found")
}

func InvalidRunID() *Error {
	return New(CodeInvalidRunID, http.StatusBadRequest, "Invalid run ID")
}

func IngestRunCreateFailed(cause error) *Error {
	return Wrap(CodeIngestRunCreateFailed, http.StatusInternalServerError, "Failed to create ingest run", cause)
}

func IngestRunListFailed(cause error) *Error {
	return Wrap(CodeIngestRunListFailed, http.StatusInternalServerError, "Failed to list ingest runs", cause)
}

func IngestEnqueueFailed(cause error) *Error {
	return Wrap(CodeIngestEnqueueFailed, http.StatusInternalServerError, "Failed to enqueue ingestion", cause)
}

func IngestFailed(cause error) *Error {
	return Wrap(CodeIngestFailed, http.StatusInternalServerError, "Film ingestion failed", cause)
}

// --- Graph store ---

func GraphUnavailable() *Error {
	return New(CodeGraphUnavailable, http.StatusServiceUnavailable, "Graph store is not available")
}

func GraphExportFailed(cause error) *Error {
	return Wrap(CodeGraphExportFailed, http.StatusInternalServerError, "Failed to export graph", cause)
}

// --- Health ---

func DatabaseNotReady() *Error {
	return New(CodeDatabaseNotReady, http.StatusServiceUnavailable, "Database not ready")
}
