// Package services defines the [Gateway] interface for movie metadata providers and implements it for OMDb.
//
// # Gateway Interface
//
// The comparison workflow needs exactly two read-only operations: lookup by exact title and search by free-text query.
// Both return a [Result] that records how the call settled ([OK], [TransportFailure], [NotFound]).
//
// # Silent Failure Contract
//
// [LookupByTitle] and [SearchByQuery] collapse a [Result] into "got a record" / "did not" and "rows" / "no rows".
// Callers above the gateway never see an error value; failures are logged at warn level and turned into absence.
// The richer [Result] stays available so a caller can start surfacing causes without changing the wire behavior.
//
// # OMDb Implementation
//
// [OMDbService] issues GET requests against the OMDb API with the apikey parameter:
//   - t=<title> : full record lookup
//   - s=<query> : search
//
// A "Response": "False" body means no match and maps to [NotFound].
// Non-2xx statuses, network errors, and undecodable bodies map to [TransportFailure].
// Requests pass through a [rate.Limiter] so bursts from the UI stay within the provider's quota.
//
// # Caching
//
// [CachedGateway] decorates any [Gateway] with a [RecordCacher] so repeated lookups of the same title are served locally.
// Searches are always forwarded.
package services
