package delivery

import (
	"context"

	"github.com/mobiauth/mobiauth/internal/delivery/inbound"
	"github.com/mobiauth/mobiauth/internal/delivery/usecase"
	"github.com/mobiauth/mobiauth/internal/pkg/clock"
	"github.com/mobiauth/mobiauth/internal/pkg/config"
	"github.com/mobiauth/mobiauth/internal/pkg/goroutine"
	"github.com/mobiauth/mobiauth/internal/pkg/instrument"
	"github.com/mobiauth/mobiauth/internal/pkg/messaging"
	"github.com/mobiauth/mobiauth/internal/pkg/sms"
	"github.com/mobiauth/mobiauth/internal/pkg/uid"
	"github.com/mobiauth/mobiauth/internal/pkg/validator"
)

type Dependency struct {
	Ctx        context.Context
	Messaging  messaging.Messaging
	Config     config.Config
	Instrument instrument.Instrumentation
	UUID       uid.StringID
	Sender     sms.Sender
	Clock      clock.Clocker
	Goroutine  *goroutine.Manager
	Validator  validator.Validator
}

func New(dep Dependency) error {
	uc := usecase.New(usecase.Dependency{
		Sender:     dep.Sender,
		Config:     dep.Config,
		Clock:      dep.Clock,
		Validator:  dep.Validator,
		Instrument: dep.Instrument,
	})

	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
	}

	return nil
}
