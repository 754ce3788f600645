package types

import (
	"strings"

	"github.com/nervos-community/light-wallet/errors"
)

// bech32 / bech32m codec for addresses. The 2021 address format uses
// bech32m; the deprecated short format used original bech32, so decoding
// reports which checksum matched.

type bech32Variant int

const (
	bech32Classic bech32Variant = iota
	bech32M
)

const bech32Charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

const (
	bech32ChecksumConst  = 1
	bech32MChecksumConst = 0x2bc830a3
)

func bech32Polymod(values []byte) uint32 {
	gen := [5]uint32{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}
	chk := uint32(1)

	for _, v := range values {
		b := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ uint32(v)

		for i := 0; i < 5; i++ {
			if (b>>uint(i))&1 == 1 {
				chk ^= gen[i]
			}
		}
	}

	return chk
}

func bech32HrpExpand(hrp string) []byte {
	out := make([]byte, 0, len(hrp)*2+1)
	for _, c := range hrp {
		out = append(out, byte(c)>>5)
	}

	out = append(out, 0)

	for _, c := range hrp {
		out = append(out, byte(c)&31)
	}

	return out
}

func bech32CreateChecksum(hrp string, data []byte, variant bech32Variant) []byte {
	values := append(bech32HrpExpand(hrp), data...)
	values = append(values, 0, 0, 0, 0, 0, 0)

	target := uint32(bech32ChecksumConst)
	if variant == bech32M {
		target = bech32MChecksumConst
	}

	mod := bech32Polymod(values) ^ target
	checksum := make([]byte, 6)

	for i := 0; i < 6; i++ {
		checksum[i] = byte(mod>>uint(5*(5-i))) & 31
	}

	return checksum
}

func bech32Encode(hrp string, data []byte, variant bech32Variant) string {
	combined := append(append([]byte{}, data...), bech32CreateChecksum(hrp, data, variant)...)

	var sb strings.Builder

	sb.WriteString(hrp)
	sb.WriteByte('1')

	for _, d := range combined {
		sb.WriteByte(bech32Charset[d])
	}

	return sb.String()
}

func bech32Decode(s string) (string, []byte, bech32Variant, error) {
	if strings.ToLower(s) != s && strings.ToUpper(s) != s {
		return "", nil, 0, errors.NewInvalidAddressError("mixed case address %q", s)
	}

	s = strings.ToLower(s)

	sep := strings.LastIndexByte(s, '1')
	if sep < 1 || sep+7 > len(s) {
		return "", nil, 0, errors.NewInvalidAddressError("missing separator in address %q", s)
	}

	hrp := s[:sep]

	data := make([]byte, 0, len(s)-sep-1)
	for _, c := range s[sep+1:] {
		idx := strings.IndexRune(bech32Charset, c)
		if idx < 0 {
			return "", nil, 0, errors.NewInvalidAddressError("invalid character %q in address", string(c))
		}

		data = append(data, byte(idx))
	}

	switch bech32Polymod(append(bech32HrpExpand(hrp), data...)) {
	case bech32ChecksumConst:
		return hrp, data[:len(data)-6], bech32Classic, nil
	case bech32MChecksumConst:
		return hrp, data[:len(data)-6], bech32M, nil
	default:
		return "", nil, 0, errors.NewInvalidAddressError("bad checksum in address %q", s)
	}
}

// convertBits regroups the bit stream between 8-bit bytes and the 5-bit
// groups bech32 encodes.
func convertBits(data []byte, fromBits, toBits uint, pad bool) ([]byte, error) {
	var acc uint32

	var bits uint

	maxv := uint32(1)<<toBits - 1
	out := make([]byte, 0, len(data)*int(fromBits)/int(toBits)+1)

	for _, b := range data {
		if uint32(b)>>fromBits != 0 {
			return nil, errors.NewInvalidAddressError("invalid data byte %#02x", b)
		}

		acc = acc<<fromBits | uint32(b)
		bits += fromBits

		for bits >= toBits {
			bits -= toBits
			out = append(out, byte(acc>>bits&maxv))
		}
	}

	if pad {
		if bits > 0 {
			out = append(out, byte(acc<<(toBits-bits)&maxv))
		}
	} else if bits >= fromBits || acc<<(toBits-bits)&maxv != 0 {
		return nil, errors.NewInvalidAddressError("invalid padding in address payload")
	}

	return out, nil
}
