package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sntlabs/evetradetool/internal/domain"
)

// writeJSON marshals v as JSON and writes it to the response with the given
// HTTP status code. If marshaling fails, it falls back to a plain-text 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

// writeError sends a JSON-formatted error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseListOpts extracts standard pagination parameters from the query
// string. Defaults: limit=20 (max 200), offset=0.
func parseListOpts(r *http.Request) domain.ListOpts {
	q := r.URL.Query()

	limit := 20
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 200 {
		limit = 200
	}

	offset := 0
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	return domain.ListOpts{
		Limit:  limit,
		Offset: offset,
	}
}

// queryInt64 parses an int64 query parameter, reporting whether it was
// present and well-formed.
func queryInt64(r *http.Request, name string) (int64, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseOrderQuery extracts the optional type and side filters shared by the
// order endpoints. An invalid order_type falls back to "all".
func parseOrderQuery(r *http.Request) domain.OrderQuery {
	q := domain.OrderQuery{OrderType: domain.OrderTypeAll}

	if typeID, ok := queryInt64(r, "type_id"); ok && typeID > 0 {
		q.TypeID = typeID
	}

	switch domain.OrderType(r.URL.Query().Get("order_type")) {
	case domain.OrderTypeBuy:
		q.OrderType = domain.OrderTypeBuy
	case domain.OrderTypeSell:
		q.OrderType = domain.OrderTypeSell
	}

	return q
}

// pathID extracts a named int64 path parameter using Go 1.22+ built-in
// routing (http.Request.PathValue).
func pathID(r *http.Request, name string) (int64, bool) {
	v := r.PathValue(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
