package sensors

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

// ErrNoResponse is returned by transports when the addressed device did not take part in the transaction.
var ErrNoResponse = fmt.Errorf("device did not respond")

type BusReader interface {
	Read(ctx context.Context, buffer []byte) error
}

type BusWriter interface {
	Write(ctx context.Context, buffer []byte) error
}

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

type I2CBus interface {
	AddressableReader
	AddressableWriter
}

type I2CDevice interface {
	BusReader
	BusWriter
}

// RegisterBus is a register oriented view of a bus. ReadRegisters fills the whole buffer
// starting at register in a single burst.
type RegisterBus interface {
	ReadRegisters(ctx context.Context, address, register byte, buffer []byte) error
	ReadRegister(ctx context.Context, address, register byte) (byte, error)
	WriteRegister(ctx context.Context, address, register, value byte) error
}
