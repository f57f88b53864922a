// Package surface implements the surface hosting feature.
//
// A surface is a named live view fed by its own render scheduler. Clients submit the
// full content of a surface on every render; the scheduler diffs it against what the
// view last confirmed and applies only the difference. Renders submitted while one is
// in flight coalesce, so only the latest one reaches the view.
//
// # Components
//
//   - Service: Hosts surfaces in a concurrent registry and wires their sinks.
//   - Handler: Exposes HTTP endpoints for rendering and inspecting surfaces.
//   - Loader: Registers the feature with the application.
//   - journal: Records every committed script in the database.
//   - publish: Mirrors committed surfaces to object storage.
//
// # HTTP Endpoints
//
//   - POST /surfaces/:name/render : Submit a new surface content (JSON, YAML or TOML).
//   - GET /surfaces : List surfaces with their scheduler status.
//   - GET /surfaces/:name : Applied content of a surface.
//   - GET /surfaces/:name/status : Scheduler status.
//   - GET /surfaces/:name/rows/:section/:row : Find a row by identity.
//   - GET /surfaces/:name/journal : Latest committed scripts.
//   - DELETE /surfaces/:name : Remove a surface.
//   - POST /diff : Compare two documents without touching any surface.
package surface
