package mcpsrv

import (
	"github.com/usestring/schemacheck/internal/checker"
	"github.com/usestring/schemacheck/internal/config"
)

// Deps is what a tool added with WithDepsTool shares with the builtin
// tools: the effective configuration and the checker with its caches.
type Deps struct {
	Config  *config.Config
	Checker *checker.Checker
}
