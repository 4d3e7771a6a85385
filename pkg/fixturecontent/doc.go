// Package fixturecontent provides an in-memory data provider for a content
// host that reads its items from fixture data instead of a database.
//
// Fixture loaders (see the loader subpackage) turn serialized item folders and
// packages into ItemRecords. A ContentStore (see store/memory) holds the item
// tree, its per-language versions and field values, and a blob table. The
// Provider type adapts the host's data-provider call shape onto the store.
//
// # Concurrency
//
// The store performs no locking. Hosts that call in from several goroutines
// must serialise their calls, for example through Provider.Do. Reads that
// run concurrently with a move or delete can observe a half-updated parent
// relation.
package fixturecontent
