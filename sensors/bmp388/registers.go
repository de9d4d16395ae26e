// Package bmp388 drives a Bosch BMP388 barometer over I2C and reports compensated
// pressure in pascal.
//
// Datasheet: https://www.bosch-sensortec.com/media/boschsensortec/downloads/datasheets/bst-bmp388-ds001.pdf
package bmp388

// Address is the default I2C address (SDO pulled high). AddressAlt is used with SDO to GND.
const (
	Address    byte = 0x77
	AddressAlt byte = 0x76
)

const (
	RegChipID  byte = 0x00
	RegErr     byte = 0x02
	RegPress   byte = 0x04 // 3 bytes, little endian
	RegTemp    byte = 0x07 // 3 bytes, little endian
	RegPwrCtrl byte = 0x1B
	RegOSR     byte = 0x1C
	RegODR     byte = 0x1D
	RegIIR     byte = 0x1F
	RegCali    byte = 0x31 // 21 bytes of trimming coefficients
)

const (
	ChipID   byte = 0x50
	PwrPress byte = 0x01
	PwrTemp  byte = 0x02

	errConfBit byte = 0x04
	caliLen         = 21
)

type Oversampling byte
type Mode byte
type OutputDataRate byte
type FilterCoefficient byte

// In forced mode the sensor sleeps after every measurement; the driver wakes it
// up before each read.
const (
	Sleep  Mode = 0x00
	Forced Mode = 0x16
	Normal Mode = 0x30
)

const (
	Sampling1X Oversampling = iota
	Sampling2X
	Sampling4X
	Sampling8X
	Sampling16X
	Sampling32X
)

// Output data rates in Hz. High oversampling needs a lower rate, otherwise
// Configure reports a configuration error.
const (
	Odr200 OutputDataRate = iota
	Odr100
	Odr50
	Odr25
	Odr12p5
	Odr6p25
	Odr3p1
	Odr1p5
)

const (
	Coeff0 FilterCoefficient = iota
	Coeff1
	Coeff3
	Coeff7
	Coeff15
	Coeff31
	Coeff63
	Coeff127
)
