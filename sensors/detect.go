package sensors

import (
	"errors"
	"log"
	"time"

	"github.com/b3nn0/baro/sensors/bmp388"
	"github.com/kidoman/embd"
)

var ErrNoSensor = errors.New("sensors: no pressure sensor found")

// Detect probes i2cbus for a supported barometer, BMP388 first, then BMP280.
func Detect(i2cbus embd.I2CBus, interval time.Duration) (PressureReader, error) {
	for _, addr := range []byte{bmp388.Address, bmp388.AddressAlt} {
		bmp, err := NewBMP388(i2cbus, addr, interval)
		if err == nil {
			log.Printf("Sensor Info: Successfully initialized BMP388 at 0x%02x\n", addr)
			return bmp, nil
		}
	}

	bmp, err := NewBMP280(&i2cbus)
	if err == nil {
		log.Println("Sensor Info: Successfully initialized BMP280")
		return bmp, nil
	}

	log.Println("Sensor Info: couldn't initialize BMP388 or BMP280")
	return nil, ErrNoSensor
}
