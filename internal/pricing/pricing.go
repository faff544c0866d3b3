// Package pricing computes order totals and the stacked benefit breakdown for
// a cart snapshot. It is pure: no clock, no storage, no mutation of inputs.
// Callers inject the reference date so age and birthday checks stay
// deterministic under test.
package pricing

import "time"

// Promo code that grants the lifetime 10% benefit when redeemed at signup.
const CodeFelices50 = "FELICES50"

const (
	// Age50PlusRate is the discount applied to the subtotal for customers
	// aged 50 or older.
	Age50PlusRate = 0.5
	// Felices50Rate is the lifetime discount for the FELICES50 promo code.
	Felices50Rate = 0.1
)

// LineItem is one cart entry: a product reference plus quantity and the
// optional cake inscription.
type LineItem struct {
	ProductID      int64   `json:"product_id"`
	Name           string  `json:"name"`
	UnitPrice      float64 `json:"unit_price"` // CLP per unit
	Quantity       int     `json:"quantity"`
	MessageForCake string  `json:"message_for_cake,omitempty"`
}

// Profile carries the three independent benefit eligibility fields of a
// customer. A zero DateOfBirth means the birth date is unknown or was
// unparsable upstream; both date-dependent benefits then stay off.
type Profile struct {
	DateOfBirth   time.Time
	IsDuocStudent bool
	HasFelices50  bool
}

// Details is the display-oriented breakdown: one flag per named benefit with
// its amount mirrored. The amounts always equal the corresponding Summary
// discount fields.
type Details struct {
	Age50Plus      bool    `json:"age50Plus"`
	Felices50      bool    `json:"felices50"`
	Birthday       bool    `json:"birthday"`
	AmountByAge    float64 `json:"amountByAge"`
	AmountByCode   float64 `json:"amountByCode"`
	AmountBirthday float64 `json:"amountBirthday"`
}

// Summary is the computed order total for a cart/profile snapshot.
type Summary struct {
	Subtotal        float64 `json:"subtotal"`
	DiscountByAge   float64 `json:"discount_by_age"`
	DiscountByCode  float64 `json:"discount_by_code"`
	BirthdayBenefit float64 `json:"birthday_benefit"`
	Total           float64 `json:"total"`
	Details         Details `json:"discount_details"`
}

// ComputeOrderSummary derives the order summary for the given cart items and
// optional profile, evaluated at the given reference date.
//
// The age and promo-code benefits are both percentages of the original
// subtotal; they stack in parallel rather than compounding. The birthday
// benefit waives the single cheapest unit price in the cart for Duoc students
// whose birth month and day match the reference date. The total is clamped at
// zero since the stacked benefits can exceed the subtotal.
//
// A nil user means anonymous checkout: only the subtotal and total are
// populated. An unknown (zero) birth date disables the age and birthday
// benefits rather than guessing.
func ComputeOrderSummary(items []LineItem, user *Profile, today time.Time) Summary {
	var subtotal float64
	for _, it := range items {
		subtotal += it.UnitPrice * float64(it.Quantity)
	}

	s := Summary{Subtotal: subtotal}

	if user != nil {
		if !user.DateOfBirth.IsZero() && ageAt(user.DateOfBirth, today) >= 50 {
			s.DiscountByAge = subtotal * Age50PlusRate
			s.Details.Age50Plus = true
			s.Details.AmountByAge = s.DiscountByAge
		}

		if user.HasFelices50 {
			s.DiscountByCode = subtotal * Felices50Rate
			s.Details.Felices50 = true
			s.Details.AmountByCode = s.DiscountByCode
		}

		if user.IsDuocStudent && isBirthday(user.DateOfBirth, today) {
			s.BirthdayBenefit = cheapestUnitPrice(items)
			s.Details.Birthday = true
			s.Details.AmountBirthday = s.BirthdayBenefit
		}
	}

	s.Total = subtotal - s.DiscountByAge - s.DiscountByCode - s.BirthdayBenefit
	if s.Total < 0 {
		s.Total = 0
	}
	return s
}

// ageAt returns the whole-year age at the reference date: calendar-year
// difference minus one when the birthday has not yet occurred this year.
func ageAt(birth, today time.Time) int {
	age := today.Year() - birth.Year()
	if today.Month() < birth.Month() ||
		(today.Month() == birth.Month() && today.Day() < birth.Day()) {
		age--
	}
	return age
}

// isBirthday reports whether the birth (month, day) matches the reference
// date. A zero birth date never matches.
func isBirthday(birth, today time.Time) bool {
	if birth.IsZero() {
		return false
	}
	return birth.Month() == today.Month() && birth.Day() == today.Day()
}

// cheapestUnitPrice is the minimum unit price across cart items, ignoring
// quantities. Zero for an empty cart.
func cheapestUnitPrice(items []LineItem) float64 {
	if len(items) == 0 {
		return 0
	}
	min := items[0].UnitPrice
	for _, it := range items[1:] {
		if it.UnitPrice < min {
			min = it.UnitPrice
		}
	}
	return min
}
