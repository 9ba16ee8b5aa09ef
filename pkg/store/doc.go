// Package store persists graph documents by name.
//
// # Overview
//
// A [Store] holds raw document bytes keyed by a validated name. Four
// backends cover the deployment spectrum:
//
//   - [MemoryStore]: tests and ephemeral serve mode
//   - [FileStore]: CLI usage, one file per document
//   - [RedisStore]: multi-instance serve deployments
//   - [MongoStore]: durable serve deployments
//
// Stores never parse the documents they hold; decoding happens in the
// document package when a graph is actually flattened. That keeps every
// backend a plain byte store and lets documents round-trip unchanged in
// whatever format they were written in.
package store
