package usecase

import (
	"context"

	"github.com/mobiauth/mobiauth/internal/pkg/clock"
	"github.com/mobiauth/mobiauth/internal/pkg/config"
	"github.com/mobiauth/mobiauth/internal/pkg/instrument"
	"github.com/mobiauth/mobiauth/internal/pkg/sms"
	"github.com/mobiauth/mobiauth/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type sender interface {
	Send(ctx context.Context, msg sms.Message) error
}

type Usecase struct {
	sender    sender
	cfg       config.Config
	clock     clock.Clocker
	validator validator.Validator
	ins       instrument.Instrumentation
}

type Dependency struct {
	Sender     sender
	Config     config.Config
	Clock      clock.Clocker
	Validator  validator.Validator
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		sender:    dep.Sender,
		cfg:       dep.Config,
		clock:     dep.Clock,
		validator: dep.Validator,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("delivery.usecase").Start(ctx, name)
}
