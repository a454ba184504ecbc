// Package artifacts reads and writes the JSON files one lab run leaves
// behind. Every run produces fresh artifacts under one directory; the
// dashboard is the only cross-run consumer.
package artifacts
