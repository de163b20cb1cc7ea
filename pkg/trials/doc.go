// Package trials holds the wire types exchanged with the clinical-trials
// search service and the display helpers shared by every view.
//
// A SearchResponse is produced by the service, treated as immutable and
// replaced wholesale on each request. ExtractedEntities is the service's
// structured reading of a free-text query; nil fields mean "no constraint".
package trials
