package plan

import "time"

// Plan represents a priced subscription tier. Price is in the currency's minor unit.
type Plan struct {
	ID        int64
	Name      string
	Price     int64
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// IsUpgradeTo reports whether switching from p to target strictly increases the price
func (p Plan) IsUpgradeTo(target Plan) bool {
	return target.Price > p.Price
}
