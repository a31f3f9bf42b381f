// Package config loads editor settings from CUE.
//
// A user file is unified with the embedded #Config schema, so defaults come
// from the schema, unknown fields are rejected and every value is checked
// against its constraint before it is decoded. Errors carry the CUE source
// position.
package config
