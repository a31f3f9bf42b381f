// Package document reads and writes the persisted map format.
//
// A document is a JSON object with a nodes array and a links array:
//
//	{"nodes":[{"id":"a","color":"#FFB3BA","x":120,"y":80,"info":""}],
//	 "links":[{"source":"a","target":"b"}]}
//
// Velocities are never persisted. Decode is strict about shape and types
// and rejects duplicate node ids, but installs links verbatim: a link whose
// endpoint is missing is kept and skipped by layout until pruned.
package document
