package i2c

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sensors "github.com/Taylor-eOS/bmp280-sensor"
	"gobot.io/x/gobot/v2/drivers/i2c"
)

var _ sensors.RegisterBus = &GobotBus{}

// GobotConnector is the part of a gobot board adaptor (e.g. nanopi.NewNeoAdaptor()) used to reach the bus.
type GobotConnector interface {
	GetI2cConnection(address int, busNr int) (i2c.Connection, error)
}

// GobotBus talks to devices through a gobot platform adaptor. One SMBus connection is
// opened per device address on first use.
type GobotBus struct {
	mx        sync.Mutex
	connector GobotConnector
	busNr     int
	conns     map[byte]i2c.Connection
}

func NewGobotBus(connector GobotConnector, busNr int) *GobotBus {
	return &GobotBus{
		connector: connector,
		busNr:     busNr,
		conns:     make(map[byte]i2c.Connection),
	}
}

func (b *GobotBus) ReadRegisters(ctx context.Context, address, register byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	conn, err := b.connection(address)
	if err != nil {
		return err
	}
	if err := conn.ReadBlockData(register, buffer); err != nil {
		return fmt.Errorf("block read of register %#x on %#x failed: %w: %w", register, address, sensors.ErrNoResponse, err)
	}
	return nil
}

func (b *GobotBus) ReadRegister(ctx context.Context, address, register byte) (byte, error) {
	b.mx.Lock()
	defer b.mx.Unlock()
	conn, err := b.connection(address)
	if err != nil {
		return 0, err
	}
	val, err := conn.ReadByteData(register)
	if err != nil {
		return 0, fmt.Errorf("read of register %#x on %#x failed: %w: %w", register, address, sensors.ErrNoResponse, err)
	}
	return val, nil
}

func (b *GobotBus) WriteRegister(ctx context.Context, address, register, value byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	conn, err := b.connection(address)
	if err != nil {
		return err
	}
	if err := conn.WriteByteData(register, value); err != nil {
		return fmt.Errorf("write of register %#x on %#x failed: %w: %w", register, address, sensors.ErrNoResponse, err)
	}
	return nil
}

// Close closes every connection opened so far.
func (b *GobotBus) Close() error {
	b.mx.Lock()
	defer b.mx.Unlock()
	var errs []error
	for addr, conn := range b.conns {
		if err := conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("could not close connection to %#x: %w", addr, err))
		}
		delete(b.conns, addr)
	}
	return errors.Join(errs...)
}

// It must be called with b.mx held.
func (b *GobotBus) connection(address byte) (i2c.Connection, error) {
	if conn, ok := b.conns[address]; ok {
		return conn, nil
	}
	conn, err := b.connector.GetI2cConnection(int(address), b.busNr)
	if err != nil {
		return nil, fmt.Errorf("could not open connection to %#x on bus %d: %w", address, b.busNr, err)
	}
	b.conns[address] = conn
	return conn, nil
}
