// Package luadef loads repository and module definitions authored as Lua
// scripts.
//
// A repository directory contains a repo.lua exposing a prepare(repo)
// function, which names the repository and registers its options and
// module files. Each module file exposes init(module), prepare(module,
// options), and build(env, config). Every definition unit runs in its own
// Lua state, so units cannot observe each other's globals.
//
// Host-side failures inside a callback abort the script and surface as
// configuration errors with their original code intact; plain Lua errors
// are wrapped with the unit path.
package luadef
