package deck

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Value is a float that additionally accepts SPICE-style magnitude
// suffixes when given as a string, e.g. "2u" or "1.5meg".
type Value float64

var unitMap = map[string]float64{
	"T":   1e12,  // tera
	"G":   1e9,   // giga
	"meg": 1e6,   // mega
	"K":   1e3,   // kilo
	"k":   1e3,   // kilo
	"m":   1e-3,  // milli
	"u":   1e-6,  // micro
	"n":   1e-9,  // nano
	"p":   1e-12, // pico
	"f":   1e-15, // femto
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var f float64
	if err := node.Decode(&f); err == nil {
		*v = Value(f)
		return nil
	}

	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("deck: value must be a number or suffixed string: %v", err)
	}
	f, err := ParseValue(s)
	if err != nil {
		return err
	}
	*v = Value(f)
	return nil
}

// ParseValue parses "47", "4.7k", "100n" and friends.
func ParseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("deck: empty value")
	}

	for _, suffix := range []string{"meg", "T", "G", "K", "k", "m", "u", "n", "p", "f"} {
		if strings.HasSuffix(s, suffix) {
			num := strings.TrimSuffix(s, suffix)
			f, err := strconv.ParseFloat(num, 64)
			if err != nil {
				return 0, fmt.Errorf("deck: invalid value %q", s)
			}
			return f * unitMap[suffix], nil
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("deck: invalid value %q", s)
	}
	return f, nil
}

func (v Value) F() float64 { return float64(v) }
