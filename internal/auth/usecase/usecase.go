package usecase

import (
	"context"

	"github.com/mobiauth/mobiauth/internal/auth/entity"
	"github.com/mobiauth/mobiauth/internal/pkg/clock"
	"github.com/mobiauth/mobiauth/internal/pkg/goroutine"
	"github.com/mobiauth/mobiauth/internal/pkg/instrument"
	"github.com/mobiauth/mobiauth/internal/pkg/otp"
	"github.com/mobiauth/mobiauth/internal/pkg/ratelimit"
	"github.com/mobiauth/mobiauth/internal/pkg/uid"
	"github.com/mobiauth/mobiauth/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type OtpIssuedEvent struct {
	UserID    int64
	Mobile    string
	Code      string
	Purpose   entity.OtpPurpose
	ExpiresAt int64
}

type OtpAttemptEvent struct {
	Mobile      string
	Status      string
	Attempts    int
	LockedUntil int64
	At          int64
}

type repoMessaging interface {
	PublishOtpIssued(ctx context.Context, msg OtpIssuedEvent) error
	PublishOtpAttempt(ctx context.Context, msg OtpAttemptEvent) error
}

type repoDB interface {
	GetOrCreateUserByMobile(ctx context.Context, id int64, mobile string) (*entity.User, error)
	GetUserByMobile(ctx context.Context, mobile string) (*entity.User, error)
	MarkMobileVerified(ctx context.Context, userID int64) error
}

type codeManager interface {
	Issue(ctx context.Context, mobile string) (otp.IssueResult, string, error)
	Verify(ctx context.Context, mobile, code string) (otp.VerificationResult, error)
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	codes         codeManager
	limiter       ratelimit.Limiter
	validator     validator.Validator
	uid           uid.NumberID
	clock         clock.Clocker
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Codes         codeManager
	Limiter       ratelimit.Limiter
	Validator     validator.Validator
	UID           uid.NumberID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		codes:         dep.Codes,
		limiter:       dep.Limiter,
		validator:     dep.Validator,
		uid:           dep.UID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("auth.usecase").Start(ctx, name)
}
