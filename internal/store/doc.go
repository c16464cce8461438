// Package store persists the roster as a JSON blob in a key-value backend.
//
// A [Blob] is a minimal key-value store. Backends are BoltDB (default),
// SQLite, PostgreSQL and an in-memory map:
//
//	blob, err := store.Open(ctx, cfg)
//	gw := store.NewGateway(blob, cfg.Store.Slot)
//	devices, err := gw.Load(ctx)
//
// The [Gateway] encodes the device list under one slot. A slot that is
// absent or cannot be decoded loads as an empty roster.
package store
