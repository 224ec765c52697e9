package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	_ = enc.Encode(v)
}

// MethodMux dispatches on the request method and answers 405 otherwise.
func MethodMux(m map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h, ok := m[r.Method]; ok {
			h(w, r)
			return
		}
		WriteError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

// IDFromPath extracts the numeric id following prefix, e.g. "/vagas/12/status"
// with prefix "/vagas/" yields 12 and rest "status".
func IDFromPath(path, prefix string) (id int64, rest string, ok bool) {
	tail := strings.TrimPrefix(path, prefix)
	if tail == path {
		return 0, "", false
	}
	idStr, rest, _ := strings.Cut(tail, "/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, "", false
	}
	return id, rest, true
}

// seeOther sends the browser back to the dashboard after a form post.
func seeOther(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// wantsJSON reports whether the caller is a script rather than a form.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
