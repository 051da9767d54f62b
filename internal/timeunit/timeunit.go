// Package timeunit resolves free-form paleoclimate time-unit labels
// ("years CE", "ky BP", "ma", ...) into structured descriptors. The
// descriptor is the single representation the rest of the toolkit
// converts through: a power-of-ten scale relating the label's base unit
// to years, a direction (prograde or retrograde), and the datum year the
// convention counts from.
package timeunit

import (
	"fmt"
	"math"
	"strings"
)

// Direction says whether increasing label values move forward or
// backward in astronomical time.
type Direction int

const (
	// Prograde conventions increase toward the present ("1871 CE" < "1950 CE").
	Prograde Direction = iota
	// Retrograde conventions count backward from their datum ("5 ky BP" is
	// older than "2 ky BP").
	Retrograde
)

// Sign returns the factor the direction contributes when projecting a
// value onto the absolute year line: +1 for prograde, -1 for retrograde.
func (d Direction) Sign() float64 {
	if d == Retrograde {
		return -1
	}
	return 1
}

func (d Direction) String() string {
	if d == Retrograde {
		return "retrograde"
	}
	return "prograde"
}

// Descriptor is a fully resolved time convention. The zero value is the
// year-CE convention (years, prograde, datum 0), which is also what
// Default returns.
type Descriptor struct {
	// ScaleExponent is the power of ten relating the label's base unit to
	// years: 0 for years, 3 for ky, 6 for my.
	ScaleExponent int

	// Direction is the sense in which values flow relative to absolute time.
	Direction Direction

	// DatumYears is the convention's zero point, in astronomical years.
	// BP conventions use 1950; plain year conventions use 0.
	DatumYears float64
}

// Scale returns 10^ScaleExponent as a float64.
func (d Descriptor) Scale() float64 {
	return math.Pow(10, float64(d.ScaleExponent))
}

// Default returns the descriptor used when no unit label is supplied:
// plain years CE, prograde, datum 0.
func Default() Descriptor {
	return Descriptor{}
}

// UnrecognizedUnitError is returned by Resolve when a label matches none
// of the known unit families. It carries the offending label verbatim.
type UnrecognizedUnitError struct {
	Label string
}

func (e *UnrecognizedUnitError) Error() string {
	return fmt.Sprintf("unrecognized time unit %q (supported: %s)", e.Label, strings.Join(Spellings(), ", "))
}

// Family groups the accepted spellings of one time convention under a
// canonical label and its descriptor.
type Family struct {
	// Canonical is the label used when printing the family.
	Canonical string

	// Descriptor is the convention every spelling in the family resolves to.
	Descriptor Descriptor

	// Spellings lists the accepted forms, already normalized.
	Spellings []string
}

// families is the process-wide resolution table. Adding a convention
// means adding a row here; nothing else in the toolkit changes.
var families = []Family{
	{
		Canonical:  "yrs",
		Descriptor: Descriptor{ScaleExponent: 0, Direction: Prograde, DatumYears: 0},
		Spellings:  []string{"year", "years", "yr", "yrs"},
	},
	{
		Canonical:  "yrs BP",
		Descriptor: Descriptor{ScaleExponent: 0, Direction: Retrograde, DatumYears: 1950},
		Spellings:  []string{"y bp", "yr bp", "yrs bp", "year bp", "years bp"},
	},
	{
		Canonical:  "ky BP",
		Descriptor: Descriptor{ScaleExponent: 3, Direction: Retrograde, DatumYears: 1950},
		Spellings:  []string{"ky bp", "kyr bp", "kyrs bp", "ka bp", "ka"},
	},
	{
		Canonical:  "my BP",
		Descriptor: Descriptor{ScaleExponent: 6, Direction: Retrograde, DatumYears: 1950},
		Spellings:  []string{"my bp", "myr bp", "myrs bp", "ma bp", "ma"},
	},
}

// byNormalized maps every normalized spelling to its family index.
var byNormalized = func() map[string]int {
	m := make(map[string]int)
	for i, f := range families {
		for _, s := range f.Spellings {
			m[s] = i
		}
	}
	return m
}()

// normalize lowercases a label and collapses runs of whitespace to a
// single space, so "Yrs   BP" and "yrs bp" hit the same table entry.
func normalize(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), " ")
}

// Resolve maps a free-form unit label to its descriptor. An empty or
// all-whitespace label resolves to Default(). Matching is case- and
// whitespace-insensitive. Unknown labels fail with *UnrecognizedUnitError.
func Resolve(label string) (Descriptor, error) {
	key := normalize(label)
	if key == "" {
		return Default(), nil
	}
	i, ok := byNormalized[key]
	if !ok {
		return Descriptor{}, &UnrecognizedUnitError{Label: label}
	}
	return families[i].Descriptor, nil
}

// CanonicalLabel returns the canonical family label for a recognized
// unit label ("KYR   bp" -> "ky BP"). The empty label canonicalizes to
// the default family's label.
func CanonicalLabel(label string) (string, error) {
	key := normalize(label)
	if key == "" {
		return families[0].Canonical, nil
	}
	i, ok := byNormalized[key]
	if !ok {
		return "", &UnrecognizedUnitError{Label: label}
	}
	return families[i].Canonical, nil
}

// Families returns a copy of the resolution table, in display order.
func Families() []Family {
	out := make([]Family, len(families))
	copy(out, families)
	for i := range out {
		sp := make([]string, len(out[i].Spellings))
		copy(sp, out[i].Spellings)
		out[i].Spellings = sp
	}
	return out
}

// Spellings returns every accepted spelling across all families, in
// table order. Used for error messages and the units listing.
func Spellings() []string {
	var out []string
	for _, f := range families {
		out = append(out, f.Spellings...)
	}
	return out
}
