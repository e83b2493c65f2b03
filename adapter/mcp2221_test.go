package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferToStatus(t *testing.T) {
	buf := make([]byte, reportSize)
	buf[9], buf[10] = 0x08, 0x00
	buf[11], buf[12] = 0x06, 0x00
	buf[13] = 2
	buf[14] = 0x76
	buf[15] = 0x0A
	buf[16], buf[17] = 0xEC, 0x00
	buf[25] = 1

	status := bufferToStatus(buf)
	assert.Equal(t, &MCP2221Status{
		I2CDataBufferCounter:   2,
		I2CSpeedDivider:        0x76,
		I2CTimeout:             0x0A,
		CurrentAddress:         "ec00",
		LastWriteRequestedSize: 8,
		LastWriteSentSize:      6,
		ReadPending:            1,
	}, status)
}

func TestResetBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	resetBuffer(buf)
	assert.Equal(t, []byte{0, 0, 0, 0}, buf)
}
