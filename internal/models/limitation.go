package models

// Badge is the urgency tier derived from days remaining until expiry.
type Badge string

// Urgency badges, most to least urgent.
const (
	BadgeRed   Badge = "red"
	BadgeAmber Badge = "amber"
	BadgeGreen Badge = "green"
)

// LimitationResult is the output of the limitation-period calculator.
//
// ExpiryDate and DaysRemaining are nil when the claim category is unmapped
// or the inputs are insufficient; in that case Disclaimer explains why and
// Badge stays at the non-alarming green tier. DaysRemaining may be negative
// for already-expired claims.
type LimitationResult struct {
	ExpiryDate        *string `json:"expiry_date,omitempty"`
	DaysRemaining     *int    `json:"days_remaining,omitempty"`
	Badge             Badge   `json:"badge,omitempty"`
	Basis             string  `json:"basis,omitempty"`
	Disclaimer        string  `json:"disclaimer,omitempty"`
	Version           string  `json:"version,omitempty"`
	DisclaimerVersion string  `json:"disclaimer_version,omitempty"`
}
