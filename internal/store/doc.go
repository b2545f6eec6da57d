// Package store persists resolution runs to a SQLite trace log.
//
// Recording is opt-in and sits outside the resolution pipeline: a failed
// write never fails the run that produced it. Each run is keyed by a
// time-sortable UUIDv7 so listing recent runs needs no extra bookkeeping.
package store
