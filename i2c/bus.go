package i2c

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"

	sensors "github.com/Taylor-eOS/bmp280-sensor"
	"github.com/Taylor-eOS/bmp280-sensor/snsctx"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

var _ sensors.I2CBus = &GenericBus{}
var _ sensors.RegisterBus = &GenericBus{}

// GenericBus is an I2C bus exposed by the host (e.g. /dev/i2c-1 on Linux).
// Register reads go out as a single write-then-read transaction.
type GenericBus struct {
	bus i2c.BusCloser
}

func NewGenericBus(dev string) (*GenericBus, error) {
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	for _, driver := range state.Loaded {
		slog.Debug("host driver loaded", "driver", driver.String())
	}
	bus, err := i2creg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c bus: %w", err)
	}
	return NewBus(bus), nil
}

// NewBus wraps an already opened periph bus.
func NewBus(bus i2c.BusCloser) *GenericBus {
	return &GenericBus{bus: bus}
}

func (b *GenericBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	return b.tx(ctx, address, nil, buffer)
}

func (b *GenericBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	return b.tx(ctx, address, buffer, nil)
}

func (b *GenericBus) ReadRegisters(ctx context.Context, address, register byte, buffer []byte) error {
	return b.tx(ctx, address, []byte{register}, buffer)
}

func (b *GenericBus) ReadRegister(ctx context.Context, address, register byte) (byte, error) {
	buf := []byte{0x00}
	if err := b.tx(ctx, address, []byte{register}, buf); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (b *GenericBus) WriteRegister(ctx context.Context, address, register, value byte) error {
	return b.tx(ctx, address, []byte{register, value}, nil)
}

// SetSpeed changes the bus clock; not every host driver supports it.
func (b *GenericBus) SetSpeed(f physic.Frequency) error {
	if err := b.bus.SetSpeed(f); err != nil {
		return fmt.Errorf("could not set bus speed to %s: %w", f, err)
	}
	return nil
}

func (b *GenericBus) Release(ctx context.Context) error {
	return nil
}

func (b *GenericBus) Close() error {
	return b.bus.Close()
}

func (b *GenericBus) String() string {
	return b.bus.String()
}

func (b *GenericBus) tx(ctx context.Context, address byte, w, r []byte) error {
	err := b.bus.Tx(uint16(address), w, r)
	if err != nil {
		// the kernel driver reports a missing ACK the same way as any other transfer failure
		return fmt.Errorf("i2c transaction with %#x failed: %w: %w", address, sensors.ErrNoResponse, err)
	}
	if snsctx.IsVerbose(ctx) {
		slog.Debug("i2c transaction", "addr", fmt.Sprintf("%#x", address), "w", hex.EncodeToString(w), "r", hex.EncodeToString(r))
	}
	return nil
}
