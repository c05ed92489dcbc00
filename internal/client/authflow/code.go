package authflow

// EnterDigit writes value into slot index. value must be empty or a single
// ASCII digit; anything else, or an index out of range, is rejected with
// ok=false and the code unchanged. focus is the slot that should be
// focused next: the following one after a digit, the same one after a
// clear.
func EnterDigit(code [CodeLength]string, index int, value string) (next [CodeLength]string, focus int, ok bool) {
	if index < 0 || index >= CodeLength || !isDigitOrEmpty(value) {
		return code, index, false
	}
	code[index] = value
	focus = index
	if value != "" && index < CodeLength-1 {
		focus = index + 1
	}
	return code, focus, true
}

// BackspaceFocus returns the slot to focus when backspace is pressed in
// slot index. Focus moves back only from an empty slot.
func BackspaceFocus(code [CodeLength]string, index int) int {
	if index > 0 && index < CodeLength && code[index] == "" {
		return index - 1
	}
	return index
}

// SplitCode spreads the digits of s over the slots, skipping any other
// characters. Extra digits are ignored. focus is the first empty slot, or
// the last slot when all are filled.
func SplitCode(s string) (code [CodeLength]string, focus int) {
	i := 0
	for _, r := range s {
		if i == CodeLength {
			break
		}
		if r >= '0' && r <= '9' {
			code[i] = string(r)
			i++
		}
	}
	if i == CodeLength {
		return code, CodeLength - 1
	}
	return code, i
}

func isDigitOrEmpty(v string) bool {
	if v == "" {
		return true
	}
	return len(v) == 1 && v[0] >= '0' && v[0] <= '9'
}
