// Package store persists serialized descriptor sets so deployments can share
// message schemas without shipping files.
//
// Two backends are provided: RedisStore for single-instance setups and
// EtcdStore for clustered ones. Both implement Store and speak raw bytes;
// loading the stored blobs into a resolvable registry is schema.Set's job.
package store
