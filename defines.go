package request

import (
	"net/http"
	"slices"
)

// Header names the accessors look at.
const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderRequestID     = "X-Request-Id"
)

// Mime Type constants for content types.
const (
	ContentTypeApplicationJSON   = "application/json"
	ContentTypeFormURLEncoded    = "application/x-www-form-urlencoded"
	ContentTypeMultipartFormData = "multipart/form-data"
)

// Methods each accessor applies to.
var (
	jsonMethods      = []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}
	parameterMethods = []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete}
	formMethods      = []string{http.MethodPost, http.MethodPut, http.MethodPatch}
)

func methodIn(method string, methods []string) bool {
	return slices.Contains(methods, method)
}
