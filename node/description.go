// SPDX-License-Identifier: EPL-2.0

package node

import (
	"fmt"
)

// Component types, as four character codes.
const (
	TypeOutput      uint32 = 'a'<<24 | 'u'<<16 | 'o'<<8 | 'u'
	TypeMusicDevice uint32 = 'a'<<24 | 'u'<<16 | 'm'<<8 | 'u'
	TypeEffect      uint32 = 'a'<<24 | 'u'<<16 | 'f'<<8 | 'x'
	TypeMixer       uint32 = 'a'<<24 | 'u'<<16 | 'm'<<8 | 'x'
	TypeGenerator   uint32 = 'a'<<24 | 'u'<<16 | 'g'<<8 | 'n'
)

// Component flags.
const (
	FlagUnsearchable uint32 = 1 << 0
	FlagSandboxSafe  uint32 = 1 << 1
)

// FourCC packs a four character ASCII code big-endian into a uint32.
func FourCC(s string) (uint32, error) {
	if len(s) != 4 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFourCC, s)
	}
	var out uint32
	for i := range len(s) {
		c := s[i]
		if c < 0x20 || c > 0x7e {
			return 0, fmt.Errorf("%w: %q", ErrInvalidFourCC, s)
		}
		out = out<<8 | uint32(c)
	}
	return out, nil
}

// MustFourCC is FourCC for literals; it panics on a malformed code.
func MustFourCC(s string) uint32 {
	v, err := FourCC(s)
	if err != nil {
		panic(err)
	}
	return v
}

// FourCCString renders a code back to its four characters.
func FourCCString(v uint32) string {
	return string([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}

// Identity is the triple a component is registered and looked up by.
type Identity struct {
	Type         uint32
	SubType      uint32
	Manufacturer uint32
}

func (id Identity) String() string {
	return FourCCString(id.Type) + "/" + FourCCString(id.SubType) + "/" + FourCCString(id.Manufacturer)
}

// Description identifies a component and carries its flags.
type Description struct {
	Type         uint32
	SubType      uint32
	Manufacturer uint32
	Flags        uint32
	FlagsMask    uint32
}

func (d Description) Identity() Identity {
	return Identity{Type: d.Type, SubType: d.SubType, Manufacturer: d.Manufacturer}
}

func (d Description) String() string { return d.Identity().String() }

// SandboxSafe reports whether FlagSandboxSafe is set.
func (d Description) SandboxSafe() bool { return d.Flags&FlagSandboxSafe != 0 }
