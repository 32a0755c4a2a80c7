// Package aggregate reconciles data from slow or unreliable upstreams.
//
//   - ResolveByDate walks backwards from a date until a lookup returns data.
//   - SeriesBuilder collects one point per day, sequentially and paced,
//     leaving gaps where a day fails.
//   - Enrich runs one lookup per item concurrently; a failed lookup marks
//     only its own item unavailable.
//   - Accumulator grows a result list page by page for one query.
//   - Generation lets callers drop responses that belong to a superseded
//     selection.
//
// Nothing here knows about HTTP; callers pass lookups as functions.
package aggregate
