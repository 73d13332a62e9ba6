// Package timezone holds the normalized timezone cache shape, the normalizer
// that builds it from upstream payloads and the schema check applied to
// persisted snapshots.
package timezone
