package pressure_test

import (
	"fmt"

	"github.com/b3nn0/baro/pressure"
)

func ExampleNew() {
	p, err := pressure.New(1, "Bar")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(p)
	s, _ := p.Format("atm")
	fmt.Println(s)
	// Output:
	// 100000 Pa
	// 0.9869232667160128 atm
}

func ExampleConvert() {
	v, err := pressure.Convert(1.5, "bar", "Pascal")
	fmt.Println(v, err)
	_, err = pressure.Convert(1, "mmHg", "Pa")
	fmt.Println(err)
	// Output:
	// 150000 <nil>
	// `mmHg` (parameter `fromUnit`) is not a supported pressure unit, only accept these values: Bar, Pa, Pascal, Pound Per Square Inch, Standard Atmosphere, Technical Atmosphere, Torr, at, atm, bar, psi
}
