// Package sessions provides request-scoped user sessions for net/http
// servers, with the flash-data lifecycle that one-time UI messages rely on.
//
// Layers & Roles
//
//	Manager  -> cookie handling, load before / save after each request
//	Host     -> durability (one opaque record per session id, with TTL)
//	Session  -> per-request key/value view exposed to handlers
//
// # Flash data
//
// Session.Flash stores a value for the rest of the current request and the
// whole of the next one. Between requests the Manager calls AgeFlashData,
// which drops values flashed two requests ago and schedules values flashed
// in the request just finished for removal after the next one:
//
//	request 1: sess.Flash("notice", "Saved.")   // readable now
//	request 2: sess.Get("notice")                // "Saved.", true
//	request 3: sess.Get("notice")                // "", false
//
// Reflash and Keep extend flashed values by one more request; FlashNow
// writes a value that does not survive the current request.
//
// # Hosts
//
//	memoryhost : bounded in-memory LRU, for tests and single-process servers
//	redishost  : Redis backed, for horizontally scaled deployments
//
// Example:
//
//	host := memoryhost.New()
//	mgr, err := sessions.NewManager(host, sessions.WithSigner(signer))
//	if err != nil { return err }
//	http.ListenAndServe(":8080", mgr.Middleware(mux))
//
// Handlers retrieve the session with FromContext.
package sessions
