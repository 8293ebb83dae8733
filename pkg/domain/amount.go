package domain

// Amount is a quantity of funds in the smallest unit of the pool's currency.
// Unsigned by construction: the ledger has no representation for a negative
// balance, so debits must be guarded before subtraction.
type Amount uint64

// Add returns a+b, reporting false when the sum would overflow uint64.
func (a Amount) Add(b Amount) (Amount, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}

// Sub returns a-b, reporting false when b exceeds a.
func (a Amount) Sub(b Amount) (Amount, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}

// IsZero reports whether the amount is zero. Zero amounts are never valid
// operation inputs.
func (a Amount) IsZero() bool {
	return a == 0
}
