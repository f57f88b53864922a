// Package document reads and writes section collections as JSON, YAML or TOML.
//
//	sections:
//	  - key: profile
//	    state: {title: Profile}
//	    rows:
//	      - key: name
//	        state: {label: Name, value: Ada}
//
// Payloads are free-form and become reconcile.JSON values, so equal content compares
// equal regardless of the source format or key order.
package document
