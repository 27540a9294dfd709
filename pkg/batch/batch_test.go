package batch

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/piplayer/pkg/errors"
	"github.com/arthur-debert/piplayer/pkg/fragment"
	"github.com/arthur-debert/piplayer/pkg/transport"
)

type mockExecutor struct {
	mock.Mock
}

func (m *mockExecutor) Execute(ctx context.Context, ep transport.Endpoint, script string) error {
	args := m.Called(ctx, ep, script)
	return args.Error(0)
}

var pi1 = transport.Endpoint{User: "pi", Host: "pi1", Port: 22}

func TestFlushJoinsInOrder(t *testing.T) {
	exec := &mockExecutor{}
	exec.On("Execute", mock.Anything, pi1, "echo one\necho two\necho three").Return(nil).Once()

	b := New(exec, pi1)
	b.Append(fragment.Raw("echo one"))
	b.Append(fragment.Raw("echo two"), fragment.Raw("echo three"))
	assert.Equal(t, 3, b.Len())

	require.NoError(t, b.Flush(context.Background()))
	assert.Equal(t, 0, b.Len())
	exec.AssertExpectations(t)
	exec.AssertNumberOfCalls(t, "Execute", 1)
}

func TestFlushClearsQueueOnFailure(t *testing.T) {
	exec := &mockExecutor{}
	exec.On("Execute", mock.Anything, pi1, "false").Return(stderrors.New("exit status 1")).Once()

	b := New(exec, pi1)
	b.Append(fragment.Raw("false"))

	err := b.Flush(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTransport))
	assert.Equal(t, 0, b.Len())
}

func TestFlushKeepsTransportErrors(t *testing.T) {
	exec := &mockExecutor{}
	original := errors.New(errors.ErrTransport, "auth rejected")
	exec.On("Execute", mock.Anything, pi1, "true").Return(original).Once()

	b := New(exec, pi1)
	b.Append(fragment.Raw("true"))

	err := b.Flush(context.Background())
	assert.Same(t, original, err)
}

func TestFlushIsTerminal(t *testing.T) {
	exec := &mockExecutor{}
	exec.On("Execute", mock.Anything, pi1, "true").Return(nil).Once()

	b := New(exec, pi1)
	b.Append(fragment.Raw("true"))
	require.NoError(t, b.Flush(context.Background()))

	err := b.Flush(context.Background())
	assert.True(t, errors.IsErrorCode(err, errors.ErrBatchFlushed))
	assert.Panics(t, func() { b.Append(fragment.Raw("echo late")) })
	exec.AssertNumberOfCalls(t, "Execute", 1)
}

func TestFlushEmptyBatchSkipsHost(t *testing.T) {
	exec := &mockExecutor{}

	b := New(exec, pi1)
	require.NoError(t, b.Flush(context.Background()))
	exec.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything)
}
