// Package storage exports collected posts.
//
// CSVExporter writes the delimited file and is always used. DatabaseExporter
// inserts the same posts into PostgreSQL when a DSN is configured. Both
// implement Exporter and can be chained with MultiExporter.
package storage
