// Package services provides clients for the external systems the migration
// talks to.
//
// The [Source] interface abstracts the legacy document store; [FirebaseSource]
// is the production implementation over the Firebase Realtime Database REST
// API. Raw collection payloads are surfaced as [RawRecord] maps with
// alias-tolerant field accessors, leaving shape normalization to the etl
// package.
package services
