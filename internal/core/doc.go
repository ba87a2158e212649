// Package core provides the ingestion pipeline for worker-directory rosters.
//
// The package holds all domain logic independent of any UI or transport
// layer. It is used by the web handlers, the roster CLI and the tests.
//
// # Pipeline
//
// Text flows through four pure stages:
//
//   - Parse: [ParseDelimited] splits header-first CSV/TSV text into [RawRow]s,
//     using [Sniff] to pick the separator. [ParseLines] treats every line as a name.
//   - Normalize: [Normalize] resolves header aliases ("nombre", "tel", "oficio", ...)
//     into a [WorkerRecord].
//   - Classify: [Classify] maps a free-text job label onto the canonical
//     taxonomy returned by [Canon]. Unmatched labels become "other".
//   - Aggregate: [Counts] and [Filter] summarize records under a [Selection].
//
// A [Pipeline] carries the alias table and keyword rules. [NewPipeline]
// extends the built-in tables with a YAML [Taxonomy]; the package-level
// functions use the defaults.
//
// # Files
//
// [RouteFile] decides from the extension whether a file is read as delimited
// text (CSV, TSV), as lines (TXT), or rejected with a [ReasonCode].
// [Pipeline.IngestBatch] processes files strictly in order and appends each
// file's records to a [Store] before moving on, so one bad file never
// discards the others.
//
// # Sessions
//
// [Service] keeps one [Store] and one [Selection] per roster session and
// serializes work per session. Concurrent batches across sessions are bounded
// by an [IngestLimiter]; idle sessions are dropped by the sweeper started with
// [Service.StartSessionSweeper].
package core
