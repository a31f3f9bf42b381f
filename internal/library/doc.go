// Package library stores named maps in SQLite.
//
// Each save writes a revision identified by a UUIDv7 and stamped with a
// library-wide increasing seq. The maps table points every name at its
// latest revision. Saving a document whose digest matches the latest
// revision of that name is a no-op, so repeated saves do not grow history.
package library
