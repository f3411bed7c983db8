package config

const (
	// System is the key to use to prefix system log messages
	System = "[system]"
	// Web is the key to use to prefix web server log messages
	Web = "[web]"
	// Admin is the key to use to prefix admin log messages
	Admin = "[admin]"
	// API is the key to use to prefix remote API log messages
	API = "[api]"
	// Graphite is the key to use to prefix graph log messages
	Graphite = "[graphite]"
)
