// Package model provides the core data types for library assembly:
// repositories, modules, options, and the environment of gated modules.
//
// This package contains type definitions and the definition-unit contract
// only. All other internal packages import model; model imports nothing
// internal. This keeps it the foundational layer with no circular
// dependencies.
//
// Key design constraints:
//   - Back-references from Option and Module to their owning repository are
//     plain name strings, never shared pointers, so ownership stays acyclic.
//   - The Environment is an ordinary value owned by whoever constructs it,
//     never a package-level singleton.
//   - Every fatal condition is a *ConfigError so callers have one thing to
//     catch and print.
package model
