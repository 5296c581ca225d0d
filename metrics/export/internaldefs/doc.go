// Package internaldefs holds the stable metric name definitions shared
// by exporter implementations, so every exporter publishes identical
// names and help strings.
//
// # What this package must NOT do
//
//   - Import roadauth or any exporter package.
//   - Perform I/O.
package internaldefs
