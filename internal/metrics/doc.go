// Package metrics records build observations.
//
// Components receive a Recorder through their options and default to
// NoopRecorder. The CLI swaps in a PrometheusRecorder when a textfile path is
// configured and writes the gathered families with WriteTextfile after the
// build, in the node_exporter textfile collector format.
package metrics
