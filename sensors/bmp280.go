package sensors

import (
	"sync"

	"github.com/b3nn0/baro/pressure"
	"github.com/b3nn0/goflying/bmp280"
	"github.com/kidoman/embd"
)

const (
	bmp280PowerMode   = bmp280.NormalMode
	bmp280Standby     = bmp280.StandbyTime63ms
	bmp280FilterCoeff = bmp280.FilterCoeff16
	bmp280TempRes     = bmp280.Oversamp16x
	bmp280PressRes    = bmp280.Oversamp16x
)

// BMP280 represents a BMP280 sensor and implements the PressureReader interface.
// The goflying driver streams samples, run keeps the latest one.
type BMP280 struct {
	sensor *bmp280.BMP280

	mu   sync.RWMutex
	data *bmp280.BMPData
	done chan struct{}
	once sync.Once
}

// NewBMP280 looks for a BMP280 on either of its I2C addresses and starts reading it.
func NewBMP280(i2cbus *embd.I2CBus) (*BMP280, error) {
	bmp, err := bmp280.NewBMP280(i2cbus, bmp280.Address1,
		bmp280PowerMode, bmp280Standby, bmp280FilterCoeff, bmp280TempRes, bmp280PressRes)
	if err != nil { // Maybe the BMP280 isn't at Address1, try Address2
		bmp, err = bmp280.NewBMP280(i2cbus, bmp280.Address2,
			bmp280PowerMode, bmp280Standby, bmp280FilterCoeff, bmp280TempRes, bmp280PressRes)
	}
	if err != nil {
		return nil, err
	}

	b := &BMP280{sensor: bmp, done: make(chan struct{})}
	go b.run()
	return b, nil
}

func (b *BMP280) run() {
	for {
		select {
		case <-b.done:
			return
		case d := <-b.sensor.C:
			b.mu.Lock()
			b.data = d
			b.mu.Unlock()
		}
	}
}

func (b *BMP280) latest() (*bmp280.BMPData, error) {
	select {
	case <-b.done:
		return nil, ErrNotRunning
	default:
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.data == nil {
		return nil, ErrNoData
	}
	return b.data, nil
}

func (b *BMP280) Name() string { return "BMP280" }

// Temperature returns the current temperature in degrees C measured by the BMP280.
func (b *BMP280) Temperature() (float64, error) {
	d, err := b.latest()
	if err != nil {
		return 0, err
	}
	return d.Temperature, nil
}

// Pressure returns the current pressure measured by the BMP280. The driver
// reports millibar.
func (b *BMP280) Pressure() (*pressure.Pressure, error) {
	d, err := b.latest()
	if err != nil {
		return nil, err
	}
	return fromMillibar(d.Pressure)
}

// Close stops the measurements of the BMP280.
func (b *BMP280) Close() {
	b.once.Do(func() {
		close(b.done)
		b.sensor.Close()
	})
}
