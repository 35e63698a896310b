// Package config loads application settings from an optional YAML file and
// TODO_* environment variables using viper, then validates them with
// struct tags. Business rule limits live here too, so deployments can tune
// list capacity and the notification threshold without a rebuild.
package config
