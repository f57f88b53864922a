// Package metrics declares the Prometheus collectors of the render scheduler.
//
// Collectors are package-level vectors labelled by surface name. They can be
// incremented without registration; Register attaches them to a registry and Handler
// exposes that registry on a Fiber route.
//
// # Usage
//
//	reg := prometheus.NewRegistry()
//	_ = metrics.Register(reg)
//	app.Get("/metrics", metrics.Handler(reg))
package metrics
