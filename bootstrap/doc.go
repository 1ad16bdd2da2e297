// Package bootstrap runs a strata service: it validates the configuration,
// initializes logging and telemetry, starts registered components, and shuts
// everything down in reverse order.
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    HTTPClient httpclient.Settings `yaml:"httpclient" mapstructure:"httpclient"`
//	}
//
//	app, err := bootstrap.NewApp(cfg)
//	client := httpclient.NewComponent(cfg.HTTPClient)
//	_ = app.RegisterComponent(client)
//	err = app.RunTask(ctx, func(ctx context.Context) error { ... })
package bootstrap
