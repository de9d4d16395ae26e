package sensors

import (
	"sync"
	"time"

	"github.com/b3nn0/baro/pressure"
	"github.com/b3nn0/baro/sensors/bmp388"
	"github.com/kidoman/embd"
)

// BMP388 samples a BMP388 at a fixed interval and implements PressureReader.
type BMP388 struct {
	sensor *bmp388.BMP388

	mu          sync.RWMutex
	temperature float64
	pascal      float64
	valid       bool
	done        chan struct{}
	once        sync.Once
}

// NewBMP388 configures the BMP388 at address and starts polling it every interval.
func NewBMP388(i2cbus embd.I2CBus, address byte, interval time.Duration) (*BMP388, error) {
	dev := &bmp388.BMP388{Bus: i2cbus, Address: address}
	if !dev.Connected() {
		return nil, bmp388.ErrNotConnected
	}
	if err := dev.Configure(bmp388.Config{
		Pressure:    bmp388.Sampling8X,
		Temperature: bmp388.Sampling1X,
		Mode:        bmp388.Normal,
		ODR:         bmp388.Odr25,
		IIR:         bmp388.Coeff3,
	}); err != nil {
		return nil, err
	}

	b := &BMP388{sensor: dev, done: make(chan struct{})}
	b.sample()
	go b.run(interval)
	return b, nil
}

func (b *BMP388) run(interval time.Duration) {
	clock := time.NewTicker(interval)
	defer clock.Stop()
	for {
		select {
		case <-b.done:
			return
		case <-clock.C:
			b.sample()
		}
	}
}

func (b *BMP388) sample() {
	p, perr := b.sensor.ReadPressure()
	t, terr := b.sensor.ReadTemperature()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.valid = perr == nil
	if perr == nil {
		b.pascal = p
	}
	if terr == nil {
		b.temperature = t
	}
}

func (b *BMP388) running() bool {
	select {
	case <-b.done:
		return false
	default:
		return true
	}
}

func (b *BMP388) Name() string { return "BMP388" }

// Temperature returns the last temperature in degrees C measured by the BMP388.
func (b *BMP388) Temperature() (float64, error) {
	if !b.running() {
		return 0, ErrNotRunning
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.temperature, nil
}

func (b *BMP388) Pressure() (*pressure.Pressure, error) {
	if !b.running() {
		return nil, ErrNotRunning
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.valid {
		return nil, bmp388.ErrNotConnected
	}
	return pressure.New(b.pascal, pressure.ReferenceUnit)
}

// Close puts the sensor to sleep.
func (b *BMP388) Close() {
	b.once.Do(func() {
		close(b.done)
		_ = b.sensor.SetMode(bmp388.Sleep)
	})
}
