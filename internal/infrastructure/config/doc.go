// Package config handles loading and validating blindbridge configuration.
//
// This package manages:
//   - Loading configuration from a YAML file (optional)
//   - Overriding with BLINDBRIDGE_* environment variables
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - The hub session token must be set via BLINDBRIDGE_HUB_TOKEN or the
//     hub.token key; the process refuses to start without it
//   - Tokens and broker passwords are never logged
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Hub.Host)
package config
