// Package prometheus renders authcore engine metrics in the Prometheus
// text exposition format, without pulling in a Prometheus client
// dependency.
package prometheus
