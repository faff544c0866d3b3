package pricing

import (
	"testing"
	"time"
)

var refDate = time.Date(2035, time.January, 2, 0, 0, 0, 0, time.UTC)

func dob(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestComputeOrderSummary_AnonymousCheckout(t *testing.T) {
	items := []LineItem{{ProductID: 1, UnitPrice: 10000, Quantity: 2}}

	s := ComputeOrderSummary(items, nil, refDate)

	if s.Subtotal != 20000 {
		t.Errorf("expected subtotal 20000, got %.2f", s.Subtotal)
	}
	if s.DiscountByAge != 0 || s.DiscountByCode != 0 || s.BirthdayBenefit != 0 {
		t.Errorf("expected no discounts for nil user, got %+v", s)
	}
	if s.Total != s.Subtotal {
		t.Errorf("expected total == subtotal for nil user, got %.2f", s.Total)
	}
	if s.Details != (Details{}) {
		t.Errorf("expected empty details for nil user, got %+v", s.Details)
	}
}

func TestComputeOrderSummary_AgeDiscount(t *testing.T) {
	items := []LineItem{{ProductID: 1, UnitPrice: 10000, Quantity: 1}}
	user := &Profile{DateOfBirth: dob(1970, time.January, 1)} // 65 at refDate

	s := ComputeOrderSummary(items, user, refDate)

	if s.DiscountByAge != 5000 {
		t.Errorf("expected age discount 5000, got %.2f", s.DiscountByAge)
	}
	if s.Total != 5000 {
		t.Errorf("expected total 5000, got %.2f", s.Total)
	}
	if !s.Details.Age50Plus {
		t.Error("expected age50Plus flag set")
	}
	if s.Details.AmountByAge != s.DiscountByAge {
		t.Errorf("details amount %.2f does not mirror discount %.2f", s.Details.AmountByAge, s.DiscountByAge)
	}
}

func TestComputeOrderSummary_AgeBoundary(t *testing.T) {
	items := []LineItem{{ProductID: 1, UnitPrice: 10000, Quantity: 1}}

	tests := []struct {
		name     string
		birth    time.Time
		eligible bool
	}{
		{"turns 50 on reference date", dob(1985, time.January, 2), true},
		{"50th birthday tomorrow", dob(1985, time.January, 3), false},
		{"already 50 since yesterday", dob(1985, time.January, 1), true},
		{"49 years old", dob(1986, time.January, 2), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ComputeOrderSummary(items, &Profile{DateOfBirth: tt.birth}, refDate)
			if got := s.Details.Age50Plus; got != tt.eligible {
				t.Errorf("age50Plus = %v, want %v", got, tt.eligible)
			}
			want := 0.0
			if tt.eligible {
				want = 5000
			}
			if s.DiscountByAge != want {
				t.Errorf("discountByAge = %.2f, want %.2f", s.DiscountByAge, want)
			}
		})
	}
}

func TestComputeOrderSummary_PromoCode(t *testing.T) {
	items := []LineItem{{ProductID: 1, UnitPrice: 10000, Quantity: 1}}
	user := &Profile{DateOfBirth: dob(2005, time.June, 15), HasFelices50: true} // age 29

	s := ComputeOrderSummary(items, user, refDate)

	if s.DiscountByCode != 1000 {
		t.Errorf("expected promo discount 1000, got %.2f", s.DiscountByCode)
	}
	if s.DiscountByAge != 0 {
		t.Errorf("expected no age discount at age 29, got %.2f", s.DiscountByAge)
	}
	if s.Total != 9000 {
		t.Errorf("expected total 9000, got %.2f", s.Total)
	}
	if !s.Details.Felices50 || s.Details.AmountByCode != 1000 {
		t.Errorf("details not mirrored: %+v", s.Details)
	}
}

func TestComputeOrderSummary_DiscountsStackOffOriginalSubtotal(t *testing.T) {
	items := []LineItem{{ProductID: 1, UnitPrice: 20000, Quantity: 1}}
	user := &Profile{DateOfBirth: dob(1960, time.March, 10), HasFelices50: true}

	s := ComputeOrderSummary(items, user, refDate)

	// 50% and 10% are both taken from the 20000 subtotal, not compounded.
	if s.DiscountByAge != 10000 {
		t.Errorf("expected age discount 10000, got %.2f", s.DiscountByAge)
	}
	if s.DiscountByCode != 2000 {
		t.Errorf("expected promo discount 2000 (10%% of subtotal), got %.2f", s.DiscountByCode)
	}
	if s.Total != 8000 {
		t.Errorf("expected total 8000, got %.2f", s.Total)
	}
}

func TestComputeOrderSummary_BirthdayBenefit(t *testing.T) {
	items := []LineItem{
		{ProductID: 1, UnitPrice: 8000, Quantity: 1},
		{ProductID: 2, UnitPrice: 5000, Quantity: 1},
	}
	user := &Profile{DateOfBirth: dob(2010, time.January, 2), IsDuocStudent: true}

	s := ComputeOrderSummary(items, user, refDate)

	if s.BirthdayBenefit != 5000 {
		t.Errorf("expected cheapest item 5000 waived, got %.2f", s.BirthdayBenefit)
	}
	if s.Total != 8000 {
		t.Errorf("expected total 8000, got %.2f", s.Total)
	}
	if !s.Details.Birthday || s.Details.AmountBirthday != 5000 {
		t.Errorf("details not mirrored: %+v", s.Details)
	}
}

func TestComputeOrderSummary_BirthdayIgnoresQuantity(t *testing.T) {
	// Only one unit of the cheapest product is waived, regardless of quantity.
	items := []LineItem{{ProductID: 1, UnitPrice: 3000, Quantity: 4}}
	user := &Profile{DateOfBirth: dob(2008, time.January, 2), IsDuocStudent: true}

	s := ComputeOrderSummary(items, user, refDate)

	if s.BirthdayBenefit != 3000 {
		t.Errorf("expected 3000 waived, got %.2f", s.BirthdayBenefit)
	}
	if s.Total != 9000 {
		t.Errorf("expected total 9000, got %.2f", s.Total)
	}
}

func TestComputeOrderSummary_BirthdayRequiresStudentAndMatchingDate(t *testing.T) {
	items := []LineItem{{ProductID: 1, UnitPrice: 5000, Quantity: 1}}

	tests := []struct {
		name string
		user Profile
		want bool
	}{
		{"student, matching date", Profile{DateOfBirth: dob(2009, time.January, 2), IsDuocStudent: true}, true},
		{"student, wrong day", Profile{DateOfBirth: dob(2009, time.January, 3), IsDuocStudent: true}, false},
		{"student, wrong month", Profile{DateOfBirth: dob(2009, time.February, 2), IsDuocStudent: true}, false},
		{"not a student, matching date", Profile{DateOfBirth: dob(2009, time.January, 2)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ComputeOrderSummary(items, &tt.user, refDate)
			if s.Details.Birthday != tt.want {
				t.Errorf("birthday = %v, want %v", s.Details.Birthday, tt.want)
			}
		})
	}
}

func TestComputeOrderSummary_TotalClampedAtZero(t *testing.T) {
	// Age 50+, FELICES50 and a birthday waiver of the only item together
	// exceed the subtotal; the customer is never charged a negative amount.
	items := []LineItem{{ProductID: 1, UnitPrice: 10000, Quantity: 1}}
	user := &Profile{
		DateOfBirth:   dob(1950, time.January, 2),
		IsDuocStudent: true,
		HasFelices50:  true,
	}

	s := ComputeOrderSummary(items, user, refDate)

	if s.DiscountByAge != 5000 || s.DiscountByCode != 1000 || s.BirthdayBenefit != 10000 {
		t.Fatalf("unexpected breakdown: %+v", s)
	}
	if s.Total != 0 {
		t.Errorf("expected total clamped to 0, got %.2f", s.Total)
	}
}

func TestComputeOrderSummary_EmptyCart(t *testing.T) {
	user := &Profile{
		DateOfBirth:   dob(1950, time.January, 2),
		IsDuocStudent: true,
		HasFelices50:  true,
	}

	s := ComputeOrderSummary(nil, user, refDate)

	if s.Subtotal != 0 || s.Total != 0 {
		t.Errorf("expected zero subtotal and total, got %+v", s)
	}
	if s.BirthdayBenefit != 0 {
		t.Errorf("expected no birthday benefit on empty cart, got %.2f", s.BirthdayBenefit)
	}
}

func TestComputeOrderSummary_UnknownBirthDateFailsClosed(t *testing.T) {
	items := []LineItem{{ProductID: 1, UnitPrice: 10000, Quantity: 1}}
	user := &Profile{IsDuocStudent: true, HasFelices50: true}

	s := ComputeOrderSummary(items, user, refDate)

	if s.DiscountByAge != 0 {
		t.Errorf("expected no age discount without a birth date, got %.2f", s.DiscountByAge)
	}
	if s.BirthdayBenefit != 0 {
		t.Errorf("expected no birthday benefit without a birth date, got %.2f", s.BirthdayBenefit)
	}
	// The promo code does not depend on the birth date.
	if s.DiscountByCode != 1000 {
		t.Errorf("expected promo discount 1000, got %.2f", s.DiscountByCode)
	}
	if s.Total != 9000 {
		t.Errorf("expected total 9000, got %.2f", s.Total)
	}
}

func TestComputeOrderSummary_Idempotent(t *testing.T) {
	items := []LineItem{
		{ProductID: 1, UnitPrice: 8000, Quantity: 2},
		{ProductID: 2, UnitPrice: 5000, Quantity: 1},
	}
	user := &Profile{DateOfBirth: dob(1970, time.January, 2), IsDuocStudent: true, HasFelices50: true}

	first := ComputeOrderSummary(items, user, refDate)
	second := ComputeOrderSummary(items, user, refDate)

	if first != second {
		t.Errorf("repeated calls differ:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestComputeOrderSummary_DoesNotMutateInputs(t *testing.T) {
	items := []LineItem{{ProductID: 1, UnitPrice: 8000, Quantity: 2}}
	user := &Profile{DateOfBirth: dob(1970, time.January, 2), HasFelices50: true}
	itemsCopy := items[0]
	userCopy := *user

	ComputeOrderSummary(items, user, refDate)

	if items[0] != itemsCopy {
		t.Errorf("line item mutated: %+v", items[0])
	}
	if *user != userCopy {
		t.Errorf("profile mutated: %+v", *user)
	}
}

func TestComputeOrderSummary_TotalIdentityHolds(t *testing.T) {
	carts := [][]LineItem{
		nil,
		{{ProductID: 1, UnitPrice: 990, Quantity: 3}},
		{{ProductID: 1, UnitPrice: 8000, Quantity: 1}, {ProductID: 2, UnitPrice: 5000, Quantity: 2}},
		{{ProductID: 1, UnitPrice: 45500, Quantity: 1}},
	}
	users := []*Profile{
		nil,
		{DateOfBirth: dob(1960, time.July, 9)},
		{DateOfBirth: dob(2010, time.January, 2), IsDuocStudent: true},
		{DateOfBirth: dob(1950, time.January, 2), IsDuocStudent: true, HasFelices50: true},
	}

	for _, cart := range carts {
		for _, user := range users {
			s := ComputeOrderSummary(cart, user, refDate)
			want := s.Subtotal - s.DiscountByAge - s.DiscountByCode - s.BirthdayBenefit
			if want < 0 {
				want = 0
			}
			if s.Total != want {
				t.Errorf("total %.2f violates identity (want %.2f) for %+v", s.Total, want, s)
			}
			if s.Total < 0 {
				t.Errorf("negative total %.2f", s.Total)
			}
			if s.Details.AmountByAge != s.DiscountByAge ||
				s.Details.AmountByCode != s.DiscountByCode ||
				s.Details.AmountBirthday != s.BirthdayBenefit {
				t.Errorf("details out of sync with amounts: %+v", s)
			}
		}
	}
}

func TestAgeAt(t *testing.T) {
	tests := []struct {
		name  string
		birth time.Time
		want  int
	}{
		{"birthday already passed this year", dob(1970, time.January, 1), 65},
		{"birthday is today", dob(1970, time.January, 2), 65},
		{"birthday later this year", dob(1970, time.December, 31), 64},
		{"born on reference date", dob(2035, time.January, 2), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ageAt(tt.birth, refDate); got != tt.want {
				t.Errorf("ageAt = %d, want %d", got, tt.want)
			}
		})
	}
}
