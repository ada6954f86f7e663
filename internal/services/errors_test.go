package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{ErrInvalidCode, KindValidation},
		{ErrInvalidType, KindValidation},
		{fmt.Errorf("count: %w", ErrInvalidInput), KindValidation},
		{ErrAlreadyPaired, KindConflict},
		{ErrSelfJoin, KindConflict},
		{fmt.Errorf("log smoke: %w", ErrNotPaired), KindConflict},
		{ErrDuoNotFound, KindNotFound},
		{ErrUserNotFound, KindNotFound},
		{ErrInviteCodeExhausted, KindInternal},
		{errors.New("connection reset"), KindInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.err), tt.err.Error())
	}
}
