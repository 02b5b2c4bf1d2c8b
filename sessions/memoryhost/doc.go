// Package memoryhost provides an in-memory sessions.Host implementation
// suitable for tests, development, and single-process servers. All state is
// ephemeral and discarded on process exit.
//
// Characteristics
//
//	Durability        : none (RAM only)
//	Horizontal scale  : no (process local)
//	Capacity          : bounded; least recently used sessions are evicted
//	Expiry            : per-record TTL, checked lazily on Load
//	Concurrency       : safe
//
// Example:
//
//	host := memoryhost.New(memoryhost.WithMaxSessions(50_000))
//	mgr, _ := sessions.NewManager(host)
//
// For production multi-node deployments prefer a durable host like redishost.
package memoryhost
