// Package discovery turns sources of tools into flat, filtered listings.
//
// A Strategy yields ToolDescriptors: TreeStrategy walks the static command
// tree, RegistryStrategy asks the remote server registry, and
// CompositeStrategy merges several strategies so that the first source to
// expose a name wins. Listings are finite and deterministic for an
// unchanged source.
//
// Filters are applied by every strategy. Namespace prefixes are matched on
// whole dotted segments, so "kv.key" selects "kv.key.get" but not
// "kv.keys.get". A read-only filter hides tools flagged destructive.
//
// Source failures surface as *SourceError. Whether a composite aborts or
// skips a failing child is decided by its FailurePolicy.
package discovery
