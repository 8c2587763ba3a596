package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/shiftdesk/shiftdesk/internal/config"
	"github.com/shiftdesk/shiftdesk/pkg/core/engine"
	"github.com/shiftdesk/shiftdesk/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg    *config.Config
	Engine *engine.Engine
	Store  db.Store
	Logger *zap.Logger
	Ctx    context.Context
}

// actor resolves the effective actor name for an edit: the --actor flag
// when given, otherwise the configured admin actor.
func (a *AppContext) actor(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return a.Cfg.AdminActor
}
