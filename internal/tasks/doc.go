// Package tasks runs many comparisons at once with real-time progress reporting.
//
// # Batch comparisons
//
// [Engine.CompareAll] takes a list of [Pair] values (usually read with [ParsePairs]) and fans them
// out to a pool of workers. Each worker looks both titles up through a [services.Gateway] and
// classifies them with [compare.Compare]. Results come back in input order inside a [BatchResult].
//
// A pair whose title cannot be found fails on its own; the rest of the batch keeps going.
//
// # Progress Reporting
//
// Progress goes out on an optional channel of [ProgressUpdate] values. Sends use select with
// default, so a slow or absent reader never blocks the workers.
package tasks
