package textutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var addressRegex = regexp.MustCompile(`^\d+\s+[A-Za-z0-9\s\.,]+$`)

// ValidAddress reports whether s looks like a street address,
// a house number followed by street tokens.
func ValidAddress(s string) bool {
	return len(s) >= 5 && addressRegex.MatchString(s)
}

func PartitionAddresses(addresses []string) (valid []string, invalid []string) {
	for _, addr := range addresses {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		if ValidAddress(addr) {
			valid = append(valid, addr)
		} else {
			invalid = append(invalid, addr)
		}
	}
	return valid, invalid
}

// FormatCurrency normalizes a dollar amount to "$X,XXX.XX". Values that
// don't parse as numbers come back unchanged, including "N/A".
func FormatCurrency(value string) string {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return value
	}
	return "$" + groupThousands(fmt.Sprintf("%.2f", amount))
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	grouped := strings.Builder{}
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(c)
	}
	return sign + grouped.String() + "." + frac
}
