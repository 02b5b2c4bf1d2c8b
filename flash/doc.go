// Package flash stores a one-time display message and its severity level in
// the user's session so the next rendered page can show it.
//
// Exactly one message/level pair is pending at a time. The message is written
// as session flash data and disappears after the next request; the level is
// written as a regular session value and stays until overwritten.
//
// Canonical levels (success, warning, error, info) have convenience setters
// and built-in default text. Any other level name is set with Show:
//
//	func save(w http.ResponseWriter, r *http.Request) {
//		// ...
//		flash.From(r.Context()).Success("Profile updated.")
//		http.Redirect(w, r, "/profile", http.StatusSeeOther)
//	}
//
//	func profile(w http.ResponseWriter, r *http.Request) {
//		f := flash.From(r.Context())
//		if f.HasMessage() {
//			render(w, f.Level(), f.Message())
//		}
//	}
//
// Message text is resolved in this order: the argument when non-empty, the
// message already pending in the session, then the level's configured
// default. Show skips the last step.
//
// From only finds a messenger when the request passed through Middleware,
// which itself must run inside sessions.Manager.Middleware.
package flash
