// Package config loads and validates the server configuration from YAML.
//
// Load(path) parses the file, fills defaults, and validates. Secrets (the
// API key, webhook URLs) are never stored in the file itself — the YAML
// names an environment variable and the value is resolved at use time.
//
// Watch(ctx, path, onChange) reloads the file on every write using fsnotify;
// the server uses it to hot-swap alert rules without a restart. A reload
// that fails to parse keeps the previous configuration active.
package config
