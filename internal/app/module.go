package app

import (
	"log/slog"
	"os"

	"github.com/mobiauth/mobiauth/internal/auth"
	"github.com/mobiauth/mobiauth/internal/delivery"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.auth.enabled") {
		if err := auth.New(auth.Dependency{
			DBConn:     a.dbConn,
			CacheConn:  a.cacheConn,
			Goroutine:  a.goroutine,
			Router:     a.router,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			HMAC:       a.hmac,
			Clock:      a.clock,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module auth", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.delivery.enabled") {
		if err := delivery.New(delivery.Dependency{
			Ctx:        a.ctx,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UUID:       a.uuid,
			Sender:     a.sender,
			Clock:      a.clock,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module delivery", "error", err)
			os.Exit(1)
		}
	}
}
