package commands

// ResolveTokenFromEnv exports resolveTokenFromEnv for testing.
var ResolveTokenFromEnv = resolveTokenFromEnv //nolint:gochecknoglobals // test export

// TokenEnvHint exports tokenEnvHint for testing.
var TokenEnvHint = tokenEnvHint //nolint:gochecknoglobals // test export

// SanitizeBranchPart exports sanitizeBranchPart for testing.
var SanitizeBranchPart = sanitizeBranchPart //nolint:gochecknoglobals // test export
