// Package etl implements the one-shot migration from the legacy document
// store into the relational schema.
//
// The core abstraction is [Engine], a single-run state machine that sequences
// the stages in dependency order (users, then contacts, then tasks), threads
// [IdentityMap] tables between them, and aggregates per-record outcomes into
// a [Report]. Operations emit progress updates via channels for non-blocking
// status reporting to the CLI layer.
//
// Normalization ([NormalizeUser], [NormalizeContact], [NormalizeTask]) is
// pure: it tolerates the legacy aliases for fields and enum tokens and never
// touches the network or the database, so it is testable in isolation.
package etl
