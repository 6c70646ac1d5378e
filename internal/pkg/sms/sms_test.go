package sms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMask(t *testing.T) {
	assert.Equal(t, "628****789", Mask("628123456789"))
	assert.Equal(t, "***", Mask("62812"))
	assert.Equal(t, "***", Mask(""))
}

func TestNewFromDriver(t *testing.T) {
	assert.IsType(t, &Noop{}, NewFromDriver(DriverNoop))
	assert.IsType(t, &Log{}, NewFromDriver(DriverLog))
	assert.IsType(t, &Log{}, NewFromDriver("unknown"))
}

func TestSendersNeverFail(t *testing.T) {
	msg := Message{To: "628123456789", Body: "123456 is your verification code."}

	require.NoError(t, NewLog().Send(context.Background(), msg))
	require.NoError(t, NewNoop().Send(context.Background(), msg))
}
