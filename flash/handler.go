package flash

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/elnormous/contenttype"
)

var (
	jsonMediaType  = contenttype.NewMediaType("application/json")
	textMediaType  = contenttype.NewMediaType("text/plain")
	handlerOffered = []contenttype.MediaType{jsonMediaType, textMediaType}
)

// Handler serves the pending message of the request's messenger, for pages
// that render flash messages client-side. It responds with JSON
// ({"message": ..., "level": ...}) or "level: message" text depending on the
// Accept header, 204 when nothing is pending and 406 when neither
// representation is acceptable. Reading does not consume the message; it
// expires with the request cycle like any other flash value.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		mt, _, err := contenttype.GetAcceptableMediaType(r, handlerOffered)
		if err != nil {
			if errors.Is(err, contenttype.ErrNoAcceptableTypeFound) {
				http.Error(w, http.StatusText(http.StatusNotAcceptable), http.StatusNotAcceptable)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		msg, ok := From(r.Context()).Pending()
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		if mt.Matches(jsonMediaType) {
			w.Header().Set("Content-Type", jsonMediaType.String())
			_ = json.NewEncoder(w).Encode(msg)
			return
		}
		w.Header().Set("Content-Type", textMediaType.String()+"; charset=utf-8")
		fmt.Fprintf(w, "%s: %s\n", msg.Level, msg.Text)
	})
}
