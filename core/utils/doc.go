// Package utils provides loose-type conversion helpers on top of spf13/cast.
// Stored inventory documents are schemaless, so quantities and text fields
// arrive as whatever the writer used; these helpers turn them into Go values.
package utils
