package flow

import "strconv"

// FormatBudget renders a whole-dollar amount as a USD display string with
// thousands separators, e.g. 2500 -> "$2,500".
func FormatBudget(amount int) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	digits := strconv.Itoa(amount)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}

	if neg {
		return "-$" + string(out)
	}
	return "$" + string(out)
}
