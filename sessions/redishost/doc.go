// Package redishost implements sessions.Host using plain Redis string keys to
// support horizontally scalable deployments. Each session record lives at
// <prefix><session id> and expires through Redis' own key TTL, so no sweeper
// is required.
//
// Trade-offs
//
//	Pros: durability, multi-process sharing, simple operational model
//	Cons: concurrent requests on one session are last-writer-wins
//
// Example:
//
//	host, err := redishost.New(redishost.Config{RedisAddr: "localhost:6379"})
//	if err != nil { return err }
//	defer host.Close()
//
// NewFromEnv reads the same Config from REDIS_ADDR and SESSIONS_KEY_PREFIX.
// Use memoryhost for ephemeral development.
package redishost
