// Package config provides 12-factor configuration for the math server.
//
// Configuration is loaded from environment variables with sensible
// defaults. CLI flags can override environment variables for development
// flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Engine: computation knobs (cache capacity, plot resolution, clipping)
//   - Logging: log level and output format
//   - RateLimit: per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST
//   - MATH_CACHE_CAPACITY, MATH_PLOT_RESOLUTION, MATH_ASYMPTOTE_CLIP,
//     MATH_JUMP_THRESHOLD, MATH_EIGEN_GROUP_DECIMALS, MATH_TAYLOR_MAX_ORDER
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
