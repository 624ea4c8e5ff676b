// Package config loads the bridge configuration.
//
// Configuration is layered, later layers winning:
//
//  1. built-in defaults (Default)
//  2. the YAML file, by default .feignbridge.yaml in the project directory
//  3. FEIGNBRIDGE_* environment variables
//  4. command-line flags, applied by the caller through an Override
//
// A Holder keeps the current configuration and can Reload it from disk at any
// time; the monitor reloads it while waiting for the target so a port written
// by the launcher is picked up. Watch reloads on every write to the file.
//
// Example file:
//
//	agent:
//	  host: localhost
//	  port: 18080
//	monitor:
//	  maxAttempts: 200
//	  interval: 1500ms
//	store:
//	  backend: redis
//	  redisAddr: localhost:6379
//	descriptors:
//	  - build/feign-types.json
//	mocks:
//	  "com.acme.UserClient#get(java.lang.Long)": '{"id": 1}'
package config
