// Package types defines the core types used throughout dotsync.
// This includes the profile model, detection rules, file state
// classification, reconciliation plans and per-mapping outcome
// reports, as well as the FS and Transport interfaces the engine
// is built against.
package types
