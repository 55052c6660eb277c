// Package redis provides the Redis-backed implementation of cache.Store
// and the client constructor used by the server.
package redis
