// Package internaldefs holds the shared metric definition tables consumed
// by the Prometheus and OTel exporters. It is not part of the public API.
package internaldefs
