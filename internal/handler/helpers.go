package handler

import (
	"net/http"

	"blogapi/internal/domain"
	"blogapi/internal/domain/services"
	"blogapi/internal/httputil"
)

// pathID reads the {id} path value, answering 404 for anything that is not
// a positive integer, the same as an unknown id.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusNotFound, domain.MsgNotFound)
		return 0, false
	}
	return id, true
}

// decodeBody parses the JSON payload, answering 400 on malformed input.
func decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := httputil.ParseJSON(w, r, dest); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// isPartial reports whether the request is a PATCH
func isPartial(r *http.Request) bool {
	return r.Method == http.MethodPatch
}

// updateOp names the policy operation for PUT or PATCH
func updateOp(r *http.Request) services.Operation {
	if isPartial(r) {
		return services.OpPartialUpdate
	}
	return services.OpUpdate
}
