// Package metrics provides observability hooks for configuration loads.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection never requires nil checks:
//
//	loader := config.NewLoader().WithRecorder(metrics.NewPrometheusRecorder(reg))
//
// The Prometheus implementation registers its collectors on the registry it is
// given; HTTPHandler exposes that registry for scraping (used by `siteconfig watch`).
package metrics
