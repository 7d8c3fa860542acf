// Package locale formats numbers, prices and dates for display.
package locale

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Default is the locale used when none or an unsupported one is configured.
const Default = "id-ID"

// Locale holds the display conventions of one language/region.
type Locale struct {
	Name           string
	Tag            language.Tag
	CurrencySymbol string
	monthsShort    [12]string
	dayFirst       bool
	printer        *message.Printer
}

var supported = []struct {
	name     string
	tag      language.Tag
	currency string
	months   [12]string
	dayFirst bool
}{
	{
		name:     "id-ID",
		tag:      language.Indonesian,
		currency: "Rp",
		months:   [12]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"},
		dayFirst: true,
	},
	{
		name:     "en-US",
		tag:      language.AmericanEnglish,
		currency: "IDR",
		months:   [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
		dayFirst: false,
	},
}

// New returns the locale matching name (a BCP 47 tag such as "id-ID").
// Unsupported or malformed names fall back to Default.
func New(name string) Locale {
	idx := 0
	if tag, err := language.Parse(name); err == nil {
		base, _ := tag.Base()
		for i, s := range supported {
			if sb, _ := s.tag.Base(); sb == base {
				idx = i
				break
			}
		}
	}

	s := supported[idx]
	return Locale{
		Name:           s.name,
		Tag:            s.tag,
		CurrencySymbol: s.currency,
		monthsShort:    s.months,
		dayFirst:       s.dayFirst,
		printer:        message.NewPrinter(s.tag),
	}
}

// FormatNumber groups digits, e.g. 45000 becomes "45.000" in id-ID.
func (l Locale) FormatNumber(n int) string {
	return l.printer.Sprintf("%d", n)
}

// FormatCurrency formats a whole-unit price, e.g. "Rp 185.000".
func (l Locale) FormatCurrency(amount float64) string {
	return l.CurrencySymbol + " " + l.printer.Sprintf("%d", int64(math.Round(amount)))
}

// FormatDate formats a date as day, abbreviated month and year ("15 Des 2023").
func (l Locale) FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%d %s %d", t.Day(), l.monthsShort[t.Month()-1], t.Year())
}

// FormatShortDate formats a date numerically in the locale's order.
func (l Locale) FormatShortDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	if l.dayFirst {
		return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
	}
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}

// FormatCardDate is the fixed dd/MM/yyyy layout printed on service cards.
func (l Locale) FormatCardDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006")
}
