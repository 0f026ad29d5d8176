// Package config loads runtime configuration for the storefront CLI.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A JSON file named by -c or -config.
//  3. Command-line flags.
//
// Flags
//
//	-u string   users service URL (auth, profile)
//	-p string   catalog service URL (products, brands)
//	-o string   orders service URL (cart, orders)
//	-n string   inventory service URL
//	-r string   reviews service URL
//	-d string   local database path
//	-t int      request timeout, seconds
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
//	{
//	  "users_url": "http://localhost:8081/api",
//	  "orders_url": "http://localhost:8083/api",
//	  "db_path": "/var/lib/watchstore/client.db",
//	  "request_timeout": "10s",
//	  "log_format": "zerolog",
//	  "log_file": "/var/log/watchstore/cli.log"
//	}
//
// Fields left out of the file keep their earlier value.
package config
