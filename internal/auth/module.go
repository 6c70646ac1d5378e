package auth

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mobiauth/mobiauth/internal/auth/inbound"
	"github.com/mobiauth/mobiauth/internal/auth/outbound/db"
	"github.com/mobiauth/mobiauth/internal/auth/outbound/mq"
	"github.com/mobiauth/mobiauth/internal/auth/usecase"
	"github.com/mobiauth/mobiauth/internal/pkg/clock"
	"github.com/mobiauth/mobiauth/internal/pkg/config"
	"github.com/mobiauth/mobiauth/internal/pkg/goroutine"
	"github.com/mobiauth/mobiauth/internal/pkg/hash"
	"github.com/mobiauth/mobiauth/internal/pkg/instrument"
	"github.com/mobiauth/mobiauth/internal/pkg/messaging"
	"github.com/mobiauth/mobiauth/internal/pkg/otp"
	"github.com/mobiauth/mobiauth/internal/pkg/ratelimit"
	"github.com/mobiauth/mobiauth/internal/pkg/router"
	"github.com/mobiauth/mobiauth/internal/pkg/uid"
	"github.com/mobiauth/mobiauth/internal/pkg/validator"
	"github.com/redis/go-redis/v9"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	CacheConn  *redis.Client              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbAuth := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	codes := otp.NewManager(otp.Dependency{
		Store:  otp.NewRedisStore(dep.CacheConn, dep.Config.GetString("otp.key_prefix")),
		Hasher: dep.HMAC,
		Clock:  dep.Clock,
		Config: otp.Config{
			CodeLength:   dep.Config.GetInt("otp.length"),
			TTL:          dep.Config.GetSecond("otp.ttl_seconds"),
			AttemptLimit: dep.Config.GetInt("otp.attempt_limit"),
			LockDuration: dep.Config.GetSecond("otp.lock_seconds"),
		},
	})

	limiter := ratelimit.NewFixedWindow(
		dep.CacheConn,
		dep.Config.GetString("ratelimit.key_prefix"),
		dep.Config.GetInt("ratelimit.otp_request_limit"),
		dep.Config.GetMinute("ratelimit.otp_request_window_minutes"),
	)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbAuth,
		RepoMessaging: repoMsg,
		Codes:         codes,
		Limiter:       limiter,
		Validator:     dep.Validator,
		UID:           dep.UID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
