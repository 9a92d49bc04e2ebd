package diag

var hexDigits = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f'}

// PrintByte appends one byte, dropping it if the ring is full.
func (r *Ring) PrintByte(c byte) {
	r.Push(c)
}

// PrintText appends s byte by byte.
func (r *Ring) PrintText(s string) {
	for i := 0; i < len(s); i++ {
		r.Push(s[i])
	}
}

// PrintNumberNoSpace appends n in decimal without leading zeros.
func (r *Ring) PrintNumberNoSpace(n uint16) {
	if n >= 10000 {
		r.Push('0' + byte(n/10000))
	}
	if n >= 1000 {
		r.Push('0' + byte((n/1000)%10))
	}
	if n >= 100 {
		r.Push('0' + byte((n/100)%10))
	}
	if n >= 10 {
		r.Push('0' + byte((n/10)%10))
	}
	r.Push('0' + byte(n%10))
}

// PrintNumber appends n in decimal followed by a space.
func (r *Ring) PrintNumber(n uint16) {
	r.PrintNumberNoSpace(n)
	r.Push(' ')
}

// PrintNumber2 appends the last two decimal digits of n, zero padded.
func (r *Ring) PrintNumber2(n uint8) {
	r.Push('0' + (n/10)%10)
	r.Push('0' + n%10)
}

// PrintSigned appends n in signed decimal followed by a space.
func (r *Ring) PrintSigned(n int16) {
	if n < 0 {
		r.Push('-')
		// uint16(-n) is also right for -32768.
		r.PrintNumberNoSpace(uint16(-n))
	} else {
		r.PrintNumberNoSpace(uint16(n))
	}
	r.Push(' ')
}

// PrintHex2 appends n as two lowercase hex digits.
func (r *Ring) PrintHex2(n uint8) {
	r.Push(hexDigits[n>>4&0xf])
	r.Push(hexDigits[n&0xf])
}

// PrintBin appends n as eight binary digits, most significant first.
func (r *Ring) PrintBin(n uint8) {
	for mask := uint8(0x80); mask != 0; mask >>= 1 {
		if n&mask != 0 {
			r.Push('1')
		} else {
			r.Push('0')
		}
	}
}
