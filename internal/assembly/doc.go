// Package assembly implements the resolution pipeline that turns
// repository definitions and a project request into the final module list.
//
// The pipeline is strictly sequential and single-pass; each stage consumes
// the previous stage's output in full before the next begins:
//
//  1. LoadRepository - construct Repository and Module objects from
//     definition units, fixing module identity via Init.
//  2. MergeOptions - combine per-repository option declarations with
//     project overrides; every declared option must end up with a value.
//  3. GateModules - invoke each module's Prepare predicate over the
//     resolved options and publish available modules into the Environment.
//  4. ResolveDependencies - expand the request into its full transitive
//     closure in BFS discovery order.
//
// Discovery order is not a build order: BuildOrder additionally computes a
// topological ordering over the closure for the build driver, and
// AnalyzeCycles reports dependency cycles ahead of time.
//
// Nothing is retried; every error aborts the run before any generation
// callback is invoked.
package assembly
