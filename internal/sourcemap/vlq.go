package sourcemap

import (
	"fmt"
	"strings"
)

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

var base64Values = func() [128]int8 {
	var t [128]int8
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(base64Chars); i++ {
		t[base64Chars[i]] = int8(i)
	}
	return t
}()

const (
	vlqShift    = 5
	vlqMask     = 1<<vlqShift - 1
	vlqContinue = 1 << vlqShift
)

// EncodeVLQ appends the base64 VLQ encoding of v to sb.
func EncodeVLQ(sb *strings.Builder, v int) {
	var vlq int
	if v < 0 {
		vlq = (-v)<<1 | 1
	} else {
		vlq = v << 1
	}
	for {
		digit := vlq & vlqMask
		vlq >>= vlqShift
		if vlq > 0 {
			digit |= vlqContinue
		}
		sb.WriteByte(base64Chars[digit])
		if vlq == 0 {
			return
		}
	}
}

// DecodeVLQ reads one VLQ value from s starting at i and returns the value and
// the index just after it.
func DecodeVLQ(s string, i int) (int, int, error) {
	var result, shift int
	for {
		if i >= len(s) {
			return 0, i, fmt.Errorf("unexpected end of VLQ data")
		}
		c := s[i]
		if c >= 128 || base64Values[c] < 0 {
			return 0, i, fmt.Errorf("invalid base64 character %q at offset %d", c, i)
		}
		digit := int(base64Values[c])
		i++
		result += (digit & vlqMask) << shift
		shift += vlqShift
		if digit&vlqContinue == 0 {
			break
		}
	}
	if result&1 == 1 {
		return -(result >> 1), i, nil
	}
	return result >> 1, i, nil
}
