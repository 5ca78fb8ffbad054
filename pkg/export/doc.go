// Package export writes qualifying blogs to JSON and CSV.
//
// Both files share the same fields; in CSV the blog tags are joined with
// ", " and in JSON they stay an array. Files are written to a temporary
// name and renamed into place.
package export
