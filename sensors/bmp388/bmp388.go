package bmp388

import (
	"errors"
	"math"

	"github.com/kidoman/embd"
)

var (
	errConfigWrite  = errors.New("bmp388: failed to configure sensor, check connection")
	errConfig       = errors.New("bmp388: there is a problem with the configuration, try reducing ODR")
	errCaliRead     = errors.New("bmp388: failed to read calibration coefficients")
	ErrNotConnected = errors.New("bmp388: not connected")
)

type Config struct {
	Pressure    Oversampling
	Temperature Oversampling
	Mode        Mode
	ODR         OutputDataRate
	IIR         FilterCoefficient
}

// BMP388 is a sensor on an I2C bus. Call Configure before reading.
type BMP388 struct {
	Bus     embd.I2CBus
	Address byte
	Config  Config

	cali calibration
}

// calibration holds the trimming coefficients already scaled to floating point
// (datasheet section 9.1).
type calibration struct {
	t1, t2, t3 float64

	p1, p2, p3, p4, p5, p6, p7, p8, p9, p10, p11 float64
}

func le16(lo, hi byte) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}

func parseCalibration(b []byte) calibration {
	return calibration{
		t1: math.Ldexp(float64(le16(b[0], b[1])), 8),
		t2: math.Ldexp(float64(le16(b[2], b[3])), -30),
		t3: math.Ldexp(float64(int8(b[4])), -48),

		p1:  math.Ldexp(float64(int16(le16(b[5], b[6])))-16384, -20),
		p2:  math.Ldexp(float64(int16(le16(b[7], b[8])))-16384, -29),
		p3:  math.Ldexp(float64(int8(b[9])), -32),
		p4:  math.Ldexp(float64(int8(b[10])), -37),
		p5:  math.Ldexp(float64(le16(b[11], b[12])), 3),
		p6:  math.Ldexp(float64(le16(b[13], b[14])), -6),
		p7:  math.Ldexp(float64(int8(b[15])), -8),
		p8:  math.Ldexp(float64(int8(b[16])), -15),
		p9:  math.Ldexp(float64(int16(le16(b[17], b[18]))), -48),
		p10: math.Ldexp(float64(int8(b[19])), -48),
		p11: math.Ldexp(float64(int8(b[20])), -65),
	}
}

// Configure powers up both measurement channels, applies config and loads the
// calibration coefficients. A zero Config selects normal mode.
func (d *BMP388) Configure(config Config) error {
	d.Config = config
	if d.Config == (Config{}) {
		d.Config.Mode = Normal
	}

	writes := []struct {
		reg, val byte
	}{
		{RegPwrCtrl, PwrPress | PwrTemp | byte(d.Config.Mode)},
		{RegOSR, byte(d.Config.Pressure) | byte(d.Config.Temperature)<<3},
		{RegODR, byte(d.Config.ODR)},
		{RegIIR, byte(d.Config.IIR) << 1},
	}
	for _, w := range writes {
		if err := d.writeRegister(w.reg, w.val); err != nil {
			return errConfigWrite
		}
	}

	if d.configurationError() {
		return errConfig
	}

	buf, err := d.readRegister(RegCali, caliLen)
	if err != nil {
		return errCaliRead
	}
	d.cali = parseCalibration(buf)
	return nil
}

// Connected reports whether the chip answers with the BMP388 chip id.
func (d *BMP388) Connected() bool {
	data, err := d.readRegister(RegChipID, 1)
	return err == nil && data[0] == ChipID
}

func (d *BMP388) SetMode(mode Mode) error {
	d.Config.Mode = mode
	return d.writeRegister(RegPwrCtrl, PwrPress|PwrTemp|byte(mode))
}

func (d *BMP388) linearTemperature() (float64, error) {
	raw, err := d.readSensorData(RegTemp)
	if err != nil {
		return 0, err
	}
	pd1 := raw - d.cali.t1
	pd2 := pd1 * d.cali.t2
	return pd2 + pd1*pd1*d.cali.t3, nil
}

// ReadTemperature returns the compensated temperature in degrees C.
func (d *BMP388) ReadTemperature() (float64, error) {
	return d.linearTemperature()
}

// ReadPressure returns the compensated pressure in pascal.
func (d *BMP388) ReadPressure() (float64, error) {
	tlin, err := d.linearTemperature()
	if err != nil {
		return 0, err
	}
	raw, err := d.readSensorData(RegPress)
	if err != nil {
		return 0, err
	}

	c := d.cali
	t2 := tlin * tlin
	t3 := t2 * tlin

	offset := c.p5 + c.p6*tlin + c.p7*t2 + c.p8*t3
	sensitivity := raw * (c.p1 + c.p2*tlin + c.p3*t2 + c.p4*t3)
	r2 := raw * raw
	nonLinear := r2*(c.p9+c.p10*tlin) + r2*raw*c.p11

	return offset + sensitivity + nonLinear, nil
}

func (d *BMP388) readSensorData(register byte) (float64, error) {
	if !d.Connected() {
		return 0, ErrNotConnected
	}

	// forced mode needs a wake up for every sample
	if d.Config.Mode != Normal {
		if err := d.SetMode(Forced); err != nil {
			return 0, err
		}
	}

	b, err := d.readRegister(register, 3)
	if err != nil {
		return 0, err
	}
	return float64(uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0])), nil
}

func (d *BMP388) configurationError() bool {
	data, err := d.readRegister(RegErr, 1)
	return err == nil && data[0]&errConfBit != 0
}

func (d *BMP388) readRegister(register byte, n int) ([]byte, error) {
	data := make([]byte, n)
	err := d.Bus.ReadFromReg(d.Address, register, data)
	return data, err
}

func (d *BMP388) writeRegister(register, data byte) error {
	return d.Bus.WriteToReg(d.Address, register, []byte{data})
}
