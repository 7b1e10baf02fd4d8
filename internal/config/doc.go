// Package config loads the settings of the keyed demo server.
//
// Configuration lives in keyed.json or keyed.yaml in the working
// directory. JSON is tried first. Missing fields take defaults and a few
// fields can be overridden from the environment.
//
// # Configuration File Structure
//
//	{
//	  "name": "board",
//	  "server": {"host": "0.0.0.0", "port": 8080, "shutdownTimeout": "5s"},
//	  "board": {"seed": ["alpha", "beta"], "maxRows": 500},
//	  "metrics": {"enabled": true, "namespace": "board", "path": "/metrics"},
//	  "tracing": {"enabled": false, "tracerName": "board"},
//	  "log": {"level": "debug", "format": "json"}
//	}
//
// # Environment
//
//	KEYED_HOST       overrides server.host
//	KEYED_PORT       overrides server.port
//	KEYED_LOG_LEVEL  overrides log.level
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
