package db

import (
	"context"
	"database/sql"

	"github.com/mobiauth/mobiauth/internal/auth/entity"
)

// GetOrCreateUserByMobile resolves the user for a mobile number, inserting a
// fresh active row when none exists yet. The id is only consumed on insert.
func (s *DB) GetOrCreateUserByMobile(ctx context.Context, id int64, mobile string) (u *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetOrCreateUserByMobile")
	defer func() { s.endSpan(span, err) }()

	const query = `
		INSERT INTO users (id, mobile, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (mobile) DO UPDATE SET mobile = EXCLUDED.mobile
		RETURNING id, mobile, status, mobile_verified_at, created_at`

	var user entity.User
	var verifiedAt sql.NullTime
	err = s.conn.QueryRow(ctx, query, id, mobile, entity.UserStatusActive).
		Scan(&user.ID, &user.Mobile, &user.Status, &verifiedAt, &user.CreatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	if verifiedAt.Valid {
		user.MobileVerifiedAt = verifiedAt.Time
	}

	return &user, nil
}

// GetUserByMobile returns the user owning a mobile number, or
// goerror.ErrNotFound when the number is unknown.
func (s *DB) GetUserByMobile(ctx context.Context, mobile string) (u *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByMobile")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT id, mobile, status, mobile_verified_at, created_at
		FROM users
		WHERE mobile = $1`

	var user entity.User
	var verifiedAt sql.NullTime
	err = s.conn.QueryRow(ctx, query, mobile).
		Scan(&user.ID, &user.Mobile, &user.Status, &verifiedAt, &user.CreatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	if verifiedAt.Valid {
		user.MobileVerifiedAt = verifiedAt.Time
	}

	return &user, nil
}

// MarkMobileVerified stamps the first successful verification. Later
// verifications keep the original timestamp.
func (s *DB) MarkMobileVerified(ctx context.Context, userID int64) (err error) {
	ctx, span := s.startSpan(ctx, "MarkMobileVerified")
	defer func() { s.endSpan(span, err) }()

	const query = `
		UPDATE users
		SET mobile_verified_at = now()
		WHERE id = $1 AND mobile_verified_at IS NULL`

	_, err = s.conn.Exec(ctx, query, userID)
	return s.mapError(err)
}
