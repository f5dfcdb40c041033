package host

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeReleasesInReverseOrder(t *testing.T) {
	var order []string
	s := NewScope(nil)
	s.Add("app", func() error { order = append(order, "app"); return nil })
	s.Add("workbook", func() error { order = append(order, "workbook"); return nil })
	s.Add("range", func() error { order = append(order, "range"); return nil })

	require.NoError(t, s.Close())
	assert.Equal(t, []string{"range", "workbook", "app"}, order)
	assert.Equal(t, 0, s.Len())

	// second close is a no-op
	require.NoError(t, s.Close())
	assert.Len(t, order, 3)
}

func TestScopeCollectsErrors(t *testing.T) {
	released := 0
	s := NewScope(nil)
	s.Add("a", func() error { released++; return errors.New("boom a") })
	s.Add("b", func() error { released++; return nil })
	s.Add("c", func() error { released++; return errors.New("boom c") })

	err := s.Close()
	require.Error(t, err)
	assert.Equal(t, 3, released, "every handle is released even when one fails")
	assert.Contains(t, err.Error(), "boom a")
	assert.Contains(t, err.Error(), "boom c")
}

func TestAttachRetriesUpToBound(t *testing.T) {
	calls := 0
	_, err := Attach(context.Background(), AttachPolicy{Attempts: 3, Delay: time.Millisecond}, nil,
		func(int) (string, error) {
			calls++
			return "", ErrNotRunning
		})
	require.ErrorIs(t, err, ErrNotRunning)
	assert.Equal(t, 3, calls)
}

func TestAttachStopsOnSuccess(t *testing.T) {
	calls := 0
	v, err := Attach(context.Background(), AttachPolicy{Attempts: 3, Delay: time.Millisecond}, nil,
		func(attempt int) (int, error) {
			calls++
			if attempt < 2 {
				return 0, ErrNotRunning
			}
			return attempt, nil
		})
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, 2, calls)
}

func TestAttachPermanentError(t *testing.T) {
	calls := 0
	perm := errors.New("corrupt file")
	_, err := Attach(context.Background(), AttachPolicy{Attempts: 3, Delay: time.Millisecond}, nil,
		func(int) (int, error) {
			calls++
			return 0, backoff.Permanent(perm)
		})
	require.ErrorIs(t, err, perm)
	assert.Equal(t, 1, calls)
}

func TestSameProcessName(t *testing.T) {
	assert.True(t, sameProcessName("EXCEL.EXE", "excel.exe"))
	assert.True(t, sameProcessName("excel", "EXCEL.EXE"))
	assert.False(t, sameProcessName("", ""))
	assert.False(t, sameProcessName("WINWORD.EXE", "EXCEL.EXE"))
}
