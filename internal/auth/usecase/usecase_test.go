package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mobiauth/mobiauth/internal/auth/entity"
	"github.com/mobiauth/mobiauth/internal/pkg/clock"
	"github.com/mobiauth/mobiauth/internal/pkg/goerror"
	"github.com/mobiauth/mobiauth/internal/pkg/goroutine"
	"github.com/mobiauth/mobiauth/internal/pkg/instrument"
	"github.com/mobiauth/mobiauth/internal/pkg/otp"
	"github.com/mobiauth/mobiauth/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDB struct {
	users      map[string]*entity.User
	verifiedID int64
	getErr     error
}

func (f *fakeDB) GetOrCreateUserByMobile(_ context.Context, id int64, mobile string) (*entity.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.users[mobile]; ok {
		return u, nil
	}
	u := &entity.User{ID: id, Mobile: mobile, Status: entity.UserStatusActive}
	f.users[mobile] = u
	return u, nil
}

func (f *fakeDB) GetUserByMobile(_ context.Context, mobile string) (*entity.User, error) {
	if u, ok := f.users[mobile]; ok {
		return u, nil
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeDB) MarkMobileVerified(_ context.Context, userID int64) error {
	f.verifiedID = userID
	return nil
}

type fakeMessaging struct {
	mu       sync.Mutex
	issued   []OtpIssuedEvent
	attempts []OtpAttemptEvent
}

func (f *fakeMessaging) PublishOtpIssued(_ context.Context, msg OtpIssuedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued = append(f.issued, msg)
	return nil
}

func (f *fakeMessaging) PublishOtpAttempt(_ context.Context, msg OtpAttemptEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts = append(f.attempts, msg)
	return nil
}

type fakeCodes struct {
	issueRes  otp.IssueResult
	issueCode string
	issueErr  error
	verifyRes otp.VerificationResult
	verifyErr error
}

func (f *fakeCodes) Issue(context.Context, string) (otp.IssueResult, string, error) {
	return f.issueRes, f.issueCode, f.issueErr
}

func (f *fakeCodes) Verify(context.Context, string, string) (otp.VerificationResult, error) {
	return f.verifyRes, f.verifyErr
}

type fakeLimiter struct {
	allow bool
	err   error
}

func (f *fakeLimiter) Allow(context.Context, string) (bool, error) {
	return f.allow, f.err
}

type staticID struct{ id int64 }

func (s staticID) Generate() int64 { return s.id }

type fixture struct {
	uc        *Usecase
	db        *fakeDB
	msg       *fakeMessaging
	codes     *fakeCodes
	limiter   *fakeLimiter
	goroutine *goroutine.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	v10, err := validator.NewV10Validator()
	require.NoError(t, err)

	f := &fixture{
		db:        &fakeDB{users: make(map[string]*entity.User)},
		msg:       &fakeMessaging{},
		codes:     &fakeCodes{},
		limiter:   &fakeLimiter{allow: true},
		goroutine: goroutine.NewManager(5),
	}
	f.uc = New(Dependency{
		RepoDB:        f.db,
		RepoMessaging: f.msg,
		Codes:         f.codes,
		Limiter:       f.limiter,
		Validator:     v10,
		UID:           staticID{id: 42},
		Clock:         clock.NewStatic(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)),
		Instrument:    instrument.NewNoop(),
		Goroutine:     f.goroutine,
	})

	return f
}

func statusOf(t *testing.T, err error) goerror.Code {
	t.Helper()

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	return gerr.Code()
}

func TestOtpRequestSuccess(t *testing.T) {
	f := newFixture(t)
	expiresAt := time.Date(2026, 1, 15, 10, 5, 0, 0, time.UTC)
	f.codes.issueRes = otp.IssueResult{Issued: true, ExpiresAt: expiresAt}
	f.codes.issueCode = "123456"

	out, err := f.uc.OtpRequest(context.Background(), OtpRequestInput{Mobile: "+62 812 3456 789"})
	require.NoError(t, err)
	assert.Equal(t, expiresAt, out.ExpiresAt)

	require.NoError(t, f.goroutine.Wait())
	require.Len(t, f.msg.issued, 1)
	assert.Equal(t, int64(42), f.msg.issued[0].UserID)
	assert.Equal(t, "628123456789", f.msg.issued[0].Mobile)
	assert.Equal(t, "123456", f.msg.issued[0].Code)
	assert.Equal(t, entity.OtpPurposeLogin, f.msg.issued[0].Purpose)
}

func TestOtpRequestValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.OtpRequest(context.Background(), OtpRequestInput{Mobile: "not-a-number"})
	require.Error(t, err)
	assert.Equal(t, goerror.CodeInvalidInput, statusOf(t, err))
}

func TestOtpRequestRateLimited(t *testing.T) {
	f := newFixture(t)
	f.limiter.allow = false

	_, err := f.uc.OtpRequest(context.Background(), OtpRequestInput{Mobile: "628123456789"})
	require.Error(t, err)
	assert.Equal(t, goerror.CodeTooManyRequest, statusOf(t, err))
	assert.Empty(t, f.msg.issued)
}

func TestOtpRequestBlockedUser(t *testing.T) {
	f := newFixture(t)
	f.db.users["628123456789"] = &entity.User{ID: 7, Mobile: "628123456789", Status: entity.UserStatusBlocked}

	_, err := f.uc.OtpRequest(context.Background(), OtpRequestInput{Mobile: "628123456789"})
	require.Error(t, err)
	assert.Equal(t, goerror.CodeForbidden, statusOf(t, err))
}

func TestOtpRequestWhileLocked(t *testing.T) {
	f := newFixture(t)
	f.codes.issueRes = otp.IssueResult{Issued: false, LockedUntil: time.Now().Add(10 * time.Minute)}

	_, err := f.uc.OtpRequest(context.Background(), OtpRequestInput{Mobile: "628123456789"})
	require.Error(t, err)
	assert.Equal(t, goerror.CodeTooManyRequest, statusOf(t, err))
	assert.Empty(t, f.msg.issued)
}

func TestOtpRequestStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.codes.issueErr = errors.New("redis down")

	_, err := f.uc.OtpRequest(context.Background(), OtpRequestInput{Mobile: "628123456789"})
	require.Error(t, err)
	assert.Equal(t, goerror.CodeInternal, statusOf(t, err))
}

func TestOtpVerifySuccess(t *testing.T) {
	f := newFixture(t)
	f.db.users["628123456789"] = &entity.User{ID: 7, Mobile: "628123456789", Status: entity.UserStatusActive}
	f.codes.verifyRes = otp.VerificationResult{Status: otp.StatusSuccess}

	out, err := f.uc.OtpVerify(context.Background(), OtpVerifyInput{Mobile: "628123456789", Code: "123456"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), out.UserID)
	assert.Equal(t, int64(7), f.db.verifiedID)

	require.NoError(t, f.goroutine.Wait())
	require.Len(t, f.msg.attempts, 1)
	assert.Equal(t, "Success", f.msg.attempts[0].Status)
}

func TestOtpVerifyInvalidCode(t *testing.T) {
	f := newFixture(t)
	f.codes.verifyRes = otp.VerificationResult{Status: otp.StatusInvalid, Attempts: 2, RemainingAttempts: 3}

	_, err := f.uc.OtpVerify(context.Background(), OtpVerifyInput{Mobile: "628123456789", Code: "000000"})
	require.Error(t, err)
	assert.Equal(t, goerror.CodeUnauthorized, statusOf(t, err))
	assert.Contains(t, err.Error(), "3 attempt(s) remaining")
}

func TestOtpVerifyOutcomeMapping(t *testing.T) {
	tests := []struct {
		name   string
		result otp.VerificationResult
		want   goerror.Code
	}{
		{"expired", otp.VerificationResult{Status: otp.StatusExpired}, goerror.CodeUnauthorized},
		{"missing", otp.VerificationResult{Status: otp.StatusMissing}, goerror.CodeUnauthorized},
		{"locked", otp.VerificationResult{Status: otp.StatusLocked, Attempts: 5, LockedUntil: time.Now().Add(10 * time.Minute)}, goerror.CodeTooManyRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.codes.verifyRes = tt.result

			_, err := f.uc.OtpVerify(context.Background(), OtpVerifyInput{Mobile: "628123456789", Code: "000000"})
			require.Error(t, err)
			assert.Equal(t, tt.want, statusOf(t, err))
		})
	}
}

func TestOtpVerifyStoreFailureIsNotInvalid(t *testing.T) {
	f := newFixture(t)
	f.codes.verifyErr = errors.New("redis down")

	_, err := f.uc.OtpVerify(context.Background(), OtpVerifyInput{Mobile: "628123456789", Code: "123456"})
	require.Error(t, err)
	assert.Equal(t, goerror.CodeInternal, statusOf(t, err))
	assert.Empty(t, f.msg.attempts)
}
