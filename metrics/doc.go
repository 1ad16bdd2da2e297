// Package metrics exports httpclient exchanges as Prometheus metrics.
//
//	reg := prometheus.NewRegistry()
//	col := metrics.New(reg)
//	client := httpclient.New(col.Layer(), httpclient.WithObserver(col))
//	http.Handle("/metrics", metrics.Handler(reg))
package metrics
