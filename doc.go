// Package recall gives agent programs a two-tier key/value memory.
//
// The short-term tier is transient state scoped to one session: it starts
// empty and can be wiped in one call. The long-term tier is durable state
// persisted through a caller-supplied [Backend] (in-memory map, SQLite,
// PostgreSQL, or your own). A [Manager] routes every call to one tier based
// on a shortTerm flag.
//
// # Quick Start
//
//	store := sqlite.New("memory.db")
//	if err := store.Init(ctx); err != nil { ... }
//	defer store.Close()
//
//	mem := recall.NewManager(recall.Encoded(store, nil))
//	mem.Remember(ctx, "user_name", "John", true)
//	mem.Remember(ctx, "user_preferences", map[string]any{"theme": "dark"}, false)
//
//	name, found, err := mem.Recall(ctx, "user_name", true)
//	mem.ClearShortTerm(ctx)
//
// # Core Interfaces
//
//   - [Store]: one memory tier ([ShortTerm], [LongTerm])
//   - [Backend]: persistence behind the long-term tier ([MapBackend])
//   - [BlobBackend]: byte persistence (store/sqlite, store/postgres), adapted
//     to Backend by [Encoded]
//   - [Codec]: value encoding for byte backends ([JSONCodec])
//
// A recalled key that was never remembered reports found == false. Only
// backend or codec failures are errors, surfaced as [*ErrBackend].
//
// The clear operations are deliberately asymmetric: [Manager.ClearShortTerm]
// wipes the whole short-term tier while [Manager.ClearLongTerm] forgets one
// long-term key.
package recall
