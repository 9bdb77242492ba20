// Package redis implements store.SnapshotCache on top of go-redis. Each
// cache key is a Redis hash whose fields hold JSON snapshots; the key's TTL
// is refreshed on every write.
package redis
