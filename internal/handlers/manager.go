package handlers

import (
	"github.com/rdavila/packstore/internal/config"
	"github.com/rdavila/packstore/internal/middleware"
	"github.com/rdavila/packstore/internal/services"
)

type HandlerManager struct {
	Config       *config.Config
	PackSvc      *services.PackService
	InventorySvc *services.InventoryService
	UserSvc      *services.UserService
	Limiter      *middleware.RateLimiter
}

func NewHandlerManager(
	cfg *config.Config,
	packSvc *services.PackService,
	inventorySvc *services.InventoryService,
	userSvc *services.UserService,
	limiter *middleware.RateLimiter,
) *HandlerManager {
	return &HandlerManager{
		Config:       cfg,
		PackSvc:      packSvc,
		InventorySvc: inventorySvc,
		UserSvc:      userSvc,
		Limiter:      limiter,
	}
}
