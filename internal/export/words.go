package export

import (
	"fmt"
	"strings"

	"github.com/divan/num2words"
	"github.com/shopspring/decimal"
)

// AmountInWords spells an amount out check-writing style: 12.35 in a
// two-place currency reads "twelve and 35/100 USD", 150 in a zero-place
// currency reads "one hundred fifty AMD".
func AmountInWords(amount decimal.Decimal, places int, currencyCode string) string {
	whole := amount.IntPart()
	words := num2words.Convert(int(whole))
	if places == 0 {
		return fmt.Sprintf("%s %s", words, currencyCode)
	}
	frac := amount.Sub(decimal.NewFromInt(whole)).Shift(int32(places)).IntPart()
	if frac < 0 {
		frac = -frac
	}
	return fmt.Sprintf("%s and %0*d/1%s %s", words, places, frac, strings.Repeat("0", places), currencyCode)
}
