// Package models defines the domain types shared by the gateway, the comparison engine, and the session state machine.
//
// The package contains two categories of types:
//
// 1. Service records: immutable values produced by the metadata gateway
//   - [MovieSummary] : One search-result row (title, year, identifier)
//   - [MovieRecord] : Full detail for a selected movie (poster, box office, rating)
//
// 2. Comparison vocabulary
//   - [Slot] : Which comparison side a selection targets
//   - [Classification] : Winner, Loser, or Tie for one metric on one side
//   - [Matchup] : A persisted record of a completed comparison
//
// An absent movie is a nil *[MovieRecord]; every consumer treats nil as "not selected".
// The service marks missing fields with the [NotAvailable] sentinel, which the comparison engine reads as zero.
package models
