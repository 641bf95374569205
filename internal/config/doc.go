// Package config loads and validates the server configuration.
//
// Configuration comes from environment variables (DB_*, CALENDAR_CODES,
// RESOURCE_TYPE_*, API_*, TASK_TYPE_*) with an optional YAML file layered
// underneath via viper. The result is an explicit Config struct injected
// into the services at construction; no code reads the environment after
// startup.
package config
