package sensors

import (
	"context"
	"fmt"
)

var _ RegisterBus = &PointerBus{}

// PointerBus implements RegisterBus on top of a plain I2CBus by writing the register
// pointer first and reading the data in a second transaction.
type PointerBus struct {
	transport I2CBus
}

func NewRegisterBus(transport I2CBus) *PointerBus {
	return &PointerBus{transport: transport}
}

func (b *PointerBus) ReadRegisters(ctx context.Context, address, register byte, buffer []byte) error {
	err := b.transport.WriteToAddr(ctx, address, []byte{register})
	if err != nil {
		return fmt.Errorf("could not set register pointer %#x on %#x: %w", register, address, err)
	}
	err = b.transport.ReadFromAddr(ctx, address, buffer)
	if err != nil {
		return fmt.Errorf("could not read %d bytes from register %#x on %#x: %w", len(buffer), register, address, err)
	}
	return nil
}

func (b *PointerBus) ReadRegister(ctx context.Context, address, register byte) (byte, error) {
	buf := []byte{0x00}
	if err := b.ReadRegisters(ctx, address, register, buf); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (b *PointerBus) WriteRegister(ctx context.Context, address, register, value byte) error {
	err := b.transport.WriteToAddr(ctx, address, []byte{register, value})
	if err != nil {
		return fmt.Errorf("could not write register %#x on %#x: %w", register, address, err)
	}
	return nil
}
