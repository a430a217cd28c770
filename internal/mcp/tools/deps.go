package tools

import (
	"github.com/usestring/schemacheck/internal/checker"
	"github.com/usestring/schemacheck/internal/config"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Config  *config.Config
	Checker *checker.Checker
}
