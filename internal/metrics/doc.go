// Package metrics provides observability hooks for the deskwrap build
// pipeline.
//
// Components take a Recorder and default to NoopRecorder, so callers never
// nil-check. The engine receives its recorder through the config:
//
//	recorder := metrics.NewPrometheusRecorder(registry)
//	engine := rewrite.New(rewrite.Config{Recorder: recorder})
//
// Tests inject a counting recorder instead.
package metrics
