// Package httpclient is an HTTP request pipeline driven by layered
// configuration.
//
// A Config is a partial set of request settings. The effective settings of a
// request are built by merging DefaultConfig, the client's layer, the call's
// method and any per-call overrides, in that order: for scalar fields the
// last layer that sets a value wins, headers merge per name, and interceptor
// lists concatenate.
//
// # Basic Usage
//
//	client := httpclient.New(httpclient.Merge(nil,
//	    &httpclient.Config{BaseURL: httpclient.Set("https://api.example.com")},
//	    httpclient.NewHeaders().SetAccept(httpclient.ContentTypeJSON).Config(),
//	    httpclient.WithAuth(httpclient.BearerAuth("token")),
//	))
//
//	user, err := httpclient.GetForObject[User](ctx, client, "/users/42")
//
// # Interceptors
//
// Request interceptors see the configured connection before anything is
// sent; response interceptors see the decoded response. Either can stop the
// exchange with Abort, which is reported as OutcomeDeclined rather than as
// an error.
//
// # Status Errors
//
// Responses with a status above 299 that the IgnoreStatus predicate does not
// accept go to the ErrorHandler as *StatusError. The default handler logs and
// swallows them; RaiseErrorHandler returns them to the caller.
//
// # Async
//
// AsyncClient runs the same pipeline on a fixed-size worker pool and hands
// back a Future.
package httpclient
