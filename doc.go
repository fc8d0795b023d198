// Package request provides read-only helpers to get at the data of an
// inbound HTTP request: headers, the JSON body, the bearer token, query
// parameters, form fields and uploaded files.
//
// A Context is a snapshot of one request. Build it once per request and
// pass it to whoever needs request data:
//
//	rc := request.FromHTTP(r)
//	defer rc.Close()
//
//	token, ok := rc.BearerToken()
//	page := rc.StringParameter("page", "1")
//	city := rc.FormData("user", request.Value{}).Form().Get("city")
//
// or let Middleware do it and fetch the snapshot with FromContext.
// Hosts that are not built on net/http hand over already parsed data
// through New.
//
// Accessors never fail. Missing, malformed or inapplicable data (a JSON
// body on a GET, form fields on a JSON request) yields the given default
// or an empty result. The request body is read at most once.
//
// Field names with brackets are decoded into nested forms:
//   - `a=1` stores the scalar "1" under a
//   - `a[]=1&a[]=2` stores the list {"0": "1", "1": "2"} under a
//   - `user[address][city]=x` stores nested forms under user
//
// A form whose keys are exactly "0".."n-1" in order is a list and is kept
// as submitted. Every other nested form is normalized recursively, see
// Normalize.
package request
