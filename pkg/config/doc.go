// Package config resolves hasscleanup's configuration.
//
// Values are layered with koanf, later sources overriding earlier ones:
// embedded defaults, an optional TOML or YAML file, HASSCLEANUP_*
// environment variables, and finally command-line flags that were set
// explicitly. The merged tree is decoded into Config and validated.
package config
