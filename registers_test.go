package sensors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockI2CBus struct {
	mock.Mock
}

func (m *MockI2CBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	return args.Error(0)
}

func (m *MockI2CBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	if data, ok := args.Get(0).([]byte); ok {
		copy(buffer, data)
	}
	return args.Error(1)
}

func (m *MockI2CBus) Release(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestPointerBus_ReadRegisters(t *testing.T) {
	bus := new(MockI2CBus)
	ctx := context.Background()
	bus.On("WriteToAddr", mock.Anything, byte(0x76), []byte{0xF7}).Return(nil).Once()
	bus.On("ReadFromAddr", mock.Anything, byte(0x76), mock.Anything).Return([]byte{1, 2, 3, 4, 5, 6}, nil).Once()

	buf := make([]byte, 6)
	err := NewRegisterBus(bus).ReadRegisters(ctx, 0x76, 0xF7, buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, buf)
	bus.AssertExpectations(t)
}

func TestPointerBus_ReadRegister(t *testing.T) {
	bus := new(MockI2CBus)
	bus.On("WriteToAddr", mock.Anything, byte(0x77), []byte{0xD0}).Return(nil).Once()
	bus.On("ReadFromAddr", mock.Anything, byte(0x77), mock.Anything).Return([]byte{0x60}, nil).Once()

	id, err := NewRegisterBus(bus).ReadRegister(context.Background(), 0x77, 0xD0)
	require.NoError(t, err)
	assert.Equal(t, byte(0x60), id)
	bus.AssertExpectations(t)
}

func TestPointerBus_PointerWriteFailureSkipsRead(t *testing.T) {
	bus := new(MockI2CBus)
	bus.On("WriteToAddr", mock.Anything, byte(0x76), []byte{0xD0}).Return(ErrNoResponse).Once()

	_, err := NewRegisterBus(bus).ReadRegister(context.Background(), 0x76, 0xD0)
	assert.True(t, errors.Is(err, ErrNoResponse))
	bus.AssertNotCalled(t, "ReadFromAddr", mock.Anything, mock.Anything, mock.Anything)
}

func TestPointerBus_WriteRegister(t *testing.T) {
	bus := new(MockI2CBus)
	bus.On("WriteToAddr", mock.Anything, byte(0x76), []byte{0xF4, 0x27}).Return(nil).Once()

	err := NewRegisterBus(bus).WriteRegister(context.Background(), 0x76, 0xF4, 0x27)
	require.NoError(t, err)
	bus.AssertExpectations(t)
}
