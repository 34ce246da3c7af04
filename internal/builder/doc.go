// Package builder is the graph-building collaborator: it turns a set of
// frozen job specifications into a dependency graph by matching each job's
// canonical output references against every other job's canonical input
// references. Equality of references is the only linking mechanism, which
// is exactly why the freeze protocol canonicalizes paths first.
package builder
