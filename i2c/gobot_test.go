package i2c

import (
	"context"
	"errors"
	"testing"

	sensors "github.com/Taylor-eOS/bmp280-sensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gobot.io/x/gobot/v2/drivers/i2c"
)

type fakeConnection struct {
	i2c.Connection
	regs   map[byte]byte
	fail   bool
	closed bool
}

func (c *fakeConnection) ReadBlockData(reg uint8, b []byte) error {
	if c.fail {
		return errors.New("remote I/O error")
	}
	for i := range b {
		b[i] = c.regs[reg+byte(i)]
	}
	return nil
}

func (c *fakeConnection) ReadByteData(reg uint8) (uint8, error) {
	if c.fail {
		return 0, errors.New("remote I/O error")
	}
	return c.regs[reg], nil
}

func (c *fakeConnection) WriteByteData(reg uint8, val uint8) error {
	if c.fail {
		return errors.New("remote I/O error")
	}
	c.regs[reg] = val
	return nil
}

func (c *fakeConnection) Close() error {
	c.closed = true
	return nil
}

type fakeConnector struct {
	conns  map[int]*fakeConnection
	opened []int
}

func (f *fakeConnector) GetI2cConnection(address int, busNr int) (i2c.Connection, error) {
	f.opened = append(f.opened, address)
	conn, ok := f.conns[address]
	if !ok {
		return nil, errors.New("no such device")
	}
	return conn, nil
}

func TestGobotBus_Registers(t *testing.T) {
	dev := &fakeConnection{regs: map[byte]byte{0xD0: 0x60, 0xF7: 0x11, 0xF8: 0x22}}
	connector := &fakeConnector{conns: map[int]*fakeConnection{0x76: dev}}
	bus := NewGobotBus(connector, 0)
	ctx := context.Background()

	id, err := bus.ReadRegister(ctx, 0x76, 0xD0)
	require.NoError(t, err)
	assert.Equal(t, byte(0x60), id)

	buf := make([]byte, 2)
	require.NoError(t, bus.ReadRegisters(ctx, 0x76, 0xF7, buf))
	assert.Equal(t, []byte{0x11, 0x22}, buf)

	require.NoError(t, bus.WriteRegister(ctx, 0x76, 0xF4, 0x27))
	assert.Equal(t, byte(0x27), dev.regs[0xF4])

	// the connection is opened once and reused
	assert.Equal(t, []int{0x76}, connector.opened)

	require.NoError(t, bus.Close())
	assert.True(t, dev.closed)
}

func TestGobotBus_Failures(t *testing.T) {
	connector := &fakeConnector{conns: map[int]*fakeConnection{0x77: {regs: map[byte]byte{}, fail: true}}}
	bus := NewGobotBus(connector, 0)
	ctx := context.Background()

	_, err := bus.ReadRegister(ctx, 0x76, 0xD0)
	assert.Error(t, err)

	_, err = bus.ReadRegister(ctx, 0x77, 0xD0)
	assert.True(t, errors.Is(err, sensors.ErrNoResponse))
}
