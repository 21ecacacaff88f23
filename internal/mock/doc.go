// Package mock serves canned analysis results for offline use and tests.
//
// It answers the six analysis endpoints and the index page the client reads
// its example and channel selectors from. Latency, malformed replies and
// per-endpoint overrides are configurable.
package mock
