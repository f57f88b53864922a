// Package publish mirrors surfaces to S3-compatible object storage.
//
// After every successful application the full surface is written as a JSON document
// to <prefix>/<surface>.json. Published documents can be fetched back to restore
// surfaces when the server starts.
package publish
