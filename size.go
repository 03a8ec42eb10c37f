package placeicon

import (
	"fmt"
	"strconv"
	"strings"
)

// Size is the width and height named by an icon filename.
type Size int

// DefaultSizes is the list of PWA icon sizes written when nothing else is specified.
var DefaultSizes = []Size{16, 32, 72, 96, 128, 144, 152, 180, 192, 384, 512}

// Filename returns the icon filename for the size, e.g. icon-192x192.png.
func (s Size) Filename() string {
	return fmt.Sprintf("icon-%dx%d.png", s, s)
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s, s)
}

// ParseSizes parses a comma separated list of sizes such as "16,32,512".
func ParseSizes(in string) ([]Size, error) {
	if strings.TrimSpace(in) == "" {
		return nil, fmt.Errorf("no sizes specified")
	}
	var sizes []Size
	for _, part := range strings.Split(in, ",") {
		part = strings.TrimSpace(part)
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid size: %q", part)
		}
		s, err := NewSize(n)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, s)
	}
	return sizes, nil
}

// NewSize validates n as an icon size.
func NewSize(n int) (Size, error) {
	if n <= 0 {
		return 0, fmt.Errorf("invalid size: %d (must be positive)", n)
	}
	return Size(n), nil
}

// SizesFromInts converts and validates sizes read from configuration.
func SizesFromInts(ns []int) ([]Size, error) {
	sizes := make([]Size, 0, len(ns))
	for _, n := range ns {
		s, err := NewSize(n)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, s)
	}
	return sizes, nil
}
