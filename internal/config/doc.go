// Package config loads webutils settings.
//
// Values start from built-in defaults, then an optional YAML file, then an
// optional .env file and finally WEBUTILS_ environment variables, each layer
// overriding the one before it. Load validates the result.
package config
