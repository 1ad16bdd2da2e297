// Command strata probes an HTTP endpoint through the strata client pipeline.
//
//	strata -config ./config.yml -count 3 -interval 1s https://api.example.com/health
//	strata -X POST -d '{"name":"ada"}' -H 'X-Tenant: acme' https://api.example.com/users
//
// Settings come from the "httpclient" section of config.yml and from
// HTTPCLIENT_* environment variables; flags override them per request.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "strata:", err)
		os.Exit(1)
	}
}
