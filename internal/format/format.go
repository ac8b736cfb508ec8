package format

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"finitefield.org/konstruksi-web/internal/i18n"
)

// Currency formats a whole-rupiah amount with locale digit grouping.
// Example: Currency(1250000, "IDR", i18n.Indonesian) => "Rp 1.250.000"
func Currency(amount int64, currency string, l i18n.Locale) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "IDR"
	}
	digits := Number(amount, l)
	switch currency {
	case "IDR":
		if l == i18n.English {
			return "IDR " + digits
		}
		return "Rp " + digits
	case "USD":
		return "US$ " + digits
	default:
		return currency + " " + digits
	}
}

// Number groups digits the way the locale reads them: 1.250.000 in Indonesian,
// 1,250,000 in English.
func Number(n int64, l i18n.Locale) string {
	return printer(l).Sprintf("%d", n)
}

func printer(l i18n.Locale) *message.Printer {
	if l == i18n.English {
		return message.NewPrinter(language.English)
	}
	return message.NewPrinter(language.Indonesian)
}

var monthsID = [...]string{"Januari", "Februari", "Maret", "April", "Mei", "Juni", "Juli", "Agustus", "September", "Oktober", "November", "Desember"}

// Date formats time in a locale-friendly long form.
func Date(t time.Time, l i18n.Locale) string {
	if t.IsZero() {
		return ""
	}
	if l == i18n.English {
		return t.Format("January 2, 2006")
	}
	return t.Format("2") + " " + monthsID[t.Month()-1] + " " + t.Format("2006")
}

// ISODate formats t as YYYY-MM-DD, empty for the zero time.
func ISODate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
