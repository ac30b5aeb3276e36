// Package config holds the settings of the recipebox command-line client.
//
// Values come from defaults, then an optional JSON file, then command-line
// flags (or their environment variables), later sources winning. The JSON
// file looks like:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "request_timeout": "10s",
//	  "online_check_interval": "5s"
//	}
package config
