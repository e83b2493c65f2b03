package sampling

import (
	"context"

	"github.com/Taylor-eOS/bmp280-sensor/environment"
)

// SenseBehaviorFunc defines the function signature for sensor behavior.
type SenseBehaviorFunc func(ctx context.Context) (environment.Reading, error)

// MockSensor is a Sensor that uses a behavior function to produce results without requiring any hardware.
//
// Example usage:
//
//	sensor := NewMockSensor(func(ctx context.Context) (environment.Reading, error) {
//		return environment.Reading{Temperature: 21.5, Pressure: 101325}, nil
//	})
type MockSensor struct {
	behavior SenseBehaviorFunc
}

func NewMockSensor(behavior SenseBehaviorFunc) *MockSensor {
	return &MockSensor{behavior: behavior}
}

// Sense returns the reading by calling the behavior function.
func (m *MockSensor) Sense(ctx context.Context) (environment.Reading, error) {
	return m.behavior(ctx)
}
