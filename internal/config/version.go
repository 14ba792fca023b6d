package config

// Version is the LexIntake binary version.
// Set at build time via: -ldflags "-X github.com/lexintake/lexintake/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
