// Package config loads the console's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/cirrus/config.toml (default)
//  3. If the config file doesn't exist, fall back to built-in defaults
//  4. If the file exists but fields are missing/empty/zero, use defaults
//  5. A .env file next to the config file overrides the token and API URL
//  6. CIRRUS_TOKEN and CIRRUS_API_URL in the environment override both
//
// # TOML Format
//
//	api_url = "https://api.linode.com/v4"
//	token = "..."
//	page_size = 100
//	poll_seconds = 16
//	in_progress_poll_seconds = 2
//	request_timeout_seconds = 30
//	rate_limit = 10          # requests per second
//	burst = 20
//	log_level = "info"       # debug, info, warn, error
//	log_file = "~/.local/state/cirrus/cirrus.log"
//	metrics_addr = ""        # e.g. "127.0.0.1:9464" to serve /metrics
//
// Every field is optional. Tilde expansion is performed on log_file.
//
// # Validation
//
// The merged result is checked with go-playground/validator: page_size must
// be 25..500 (the API's page bounds), intervals at least one second, and the
// log level one of the four names. Validation errors name every offending
// field:
//
//	invalid config: PageSize failed "max", LogLevel failed "oneof"
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//   - Validation failures
//
// A missing token is not an error here; requests simply go out
// unauthenticated and the API answers with 401 reasons that surface in the
// cache's error slots.
package config
