// Package provider supplies seeded fake-data generation for batch records.
package provider

import (
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// ibanFormats lists countries with all-numeric basic account numbers and
// the digit count that follows the country code and check digits.
var ibanFormats = []struct {
	country string
	digits  uint
}{
	{country: "BE", digits: 12},
	{country: "DE", digits: 18},
	{country: "ES", digits: 20},
	{country: "PT", digits: 21},
	{country: "FR", digits: 23},
}

// Faker produces synthetic personal and network data. A non-zero seed makes
// the sequence of generated values fully reproducible.
type Faker struct {
	gen *gofakeit.Faker
}

// New creates a faker. Seed 0 draws a random seed.
func New(seed uint64) *Faker {
	return &Faker{gen: gofakeit.New(seed)}
}

// PersonName returns a full personal name.
func (f *Faker) PersonName() string {
	return f.gen.Name()
}

// Username returns a login-style user name.
func (f *Faker) Username() string {
	return f.gen.Username()
}

// Email returns an email address.
func (f *Faker) Email() string {
	return f.gen.Email()
}

// Phone returns a formatted phone number.
func (f *Faker) Phone() string {
	return f.gen.PhoneFormatted()
}

// Address returns a postal address flattened to a single line.
func (f *Faker) Address() string {
	addr := f.gen.Address().Address
	return strings.ReplaceAll(addr, "\n", ", ")
}

// MACAddress returns a hardware address.
func (f *Faker) MACAddress() string {
	return f.gen.MacAddress()
}

// IPv4 returns an IPv4 address in dotted-quad form.
func (f *Faker) IPv4() string {
	return f.gen.IPv4Address()
}

// IBAN returns a fictional international bank account number: a country
// code, two check digits and a numeric account part of the country's length.
func (f *Faker) IBAN() string {
	format := ibanFormats[f.gen.Number(0, len(ibanFormats)-1)]
	return format.country + f.gen.DigitN(2) + f.gen.DigitN(format.digits)
}

// BirthDate returns a date of birth for a person aged between minAge and
// maxAge years, inclusive.
func (f *Faker) BirthDate(minAge, maxAge int) time.Time {
	now := time.Now()
	from := now.AddDate(-maxAge, 0, 0)
	to := now.AddDate(-minAge, 0, 0)
	return f.gen.DateRange(from, to)
}

// AccessTime returns a timestamp in the interval [from, to].
func (f *Faker) AccessTime(from, to time.Time) time.Time {
	return f.gen.DateRange(from, to)
}

// Digits returns a string of exactly n decimal digits, leading zeros kept.
func (f *Faker) Digits(n int) string {
	return f.gen.DigitN(uint(n))
}

// IntBetween returns a uniformly distributed integer in [min, max].
func (f *Faker) IntBetween(min, max int) int {
	return f.gen.Number(min, max)
}
