package sensors

import (
	"testing"
	"time"

	"github.com/b3nn0/baro/sensors/bmp388"
	"github.com/kidoman/embd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constantBus is a BMP388 whose compensated output is always 101320 Pa at 0 C.
type constantBus struct {
	embd.I2CBus
	chipID byte
}

func (b *constantBus) ReadFromReg(addr, reg byte, value []byte) error {
	for i := range value {
		value[i] = 0
	}
	switch reg {
	case bmp388.RegChipID:
		value[0] = b.chipID
	case bmp388.RegCali:
		value[6], value[8] = 0x40, 0x40   // p1 = p2 = 16384
		value[11], value[12] = 0x79, 0x31 // p5 = 12665
	}
	return nil
}

func (b *constantBus) WriteToReg(addr, reg byte, value []byte) error {
	return nil
}

func TestBMP388Reader(t *testing.T) {
	bmp, err := NewBMP388(&constantBus{chipID: bmp388.ChipID}, bmp388.Address, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "BMP388", bmp.Name())

	p, err := bmp.Pressure()
	require.NoError(t, err)
	v, err := p.Value("Pa")
	require.NoError(t, err)
	assert.InDelta(t, 101320.0, v, 1e-9)

	temp, err := bmp.Temperature()
	require.NoError(t, err)
	assert.Equal(t, 0.0, temp)

	bmp.Close()
	bmp.Close()
	_, err = bmp.Pressure()
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestBMP388Missing(t *testing.T) {
	_, err := NewBMP388(&constantBus{chipID: 0x58}, bmp388.Address, time.Hour)
	assert.ErrorIs(t, err, bmp388.ErrNotConnected)
}
