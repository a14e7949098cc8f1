// Package symgraph persists and loads compiled-module symbol graphs.
//
// A module artifact is a single binary blob holding the module's exported
// declaration graph: nominal types, functions, operators, extensions,
// protocol conformances and the types that connect them. Artifacts are
// written by Encode/Save and loaded lazily: opening one reads only the
// header and index tables, and each entity is decoded the first time
// something asks for it.
//
// # Quick start
//
// Build a module graph, save it, then load it back through a session:
//
//	store := blobstore.NewMemoryStore()
//	sess := symgraph.NewSession(store)
//
//	err := sess.Save(ctx, mod) // mod is a *graph.Module
//	...
//	loaded, err := sess.Load(ctx, "geometry")
//	decl, err := loaded.LookupTopLevel("Point")
//
// Cross-module references are resolved through the session: when a
// decoded entity points into another module, the session loads that
// module's artifact on demand and resolves the reference by name.
//
// Artifacts can live on the local filesystem (mmap-backed), in memory,
// or in S3/MinIO object storage, optionally behind a compressed local
// cache. See the blobstore package.
package symgraph
