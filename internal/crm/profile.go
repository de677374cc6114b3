// Package crm provides the demo's mock tool backends: canned customer
// profiles and pattern-based trip conditions. The upstream agent calls
// these over JSON-RPC; nothing here touches a real CRM or weather API.
package crm

// Purchase is one line in a customer's order history.
type Purchase struct {
	OrderID  string  `json:"order_id"`
	Date     string  `json:"date"`
	Item     string  `json:"item"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// CustomerProfile is the mock CRM record surfaced to the agent.
type CustomerProfile struct {
	UserID          string            `json:"user_id"`
	Name            string            `json:"name"`
	Email           string            `json:"email"`
	LoyaltyTier     string            `json:"loyalty_tier"`
	AccountType     string            `json:"account_type"`
	LifetimeValue   float64           `json:"lifetime_value"`
	PurchaseHistory []Purchase        `json:"purchase_history"`
	Preferences     map[string]string `json:"preferences"`
}

var customerProfiles = map[string]CustomerProfile{
	"user_17": {
		UserID:        "user_17",
		Name:          "Dana Whitfield",
		Email:         "dana.whitfield@example.com",
		LoyaltyTier:   "summit",
		AccountType:   "individual",
		LifetimeValue: 4820.50,
		PurchaseHistory: []Purchase{
			{OrderID: "ord-3021", Date: "2026-03-14", Item: "Summit Forge 2P Tent", Category: "shelter", Price: 349.00},
			{OrderID: "ord-2877", Date: "2025-11-02", Item: "NorthRidge Down Jacket", Category: "apparel", Price: 289.00},
			{OrderID: "ord-2640", Date: "2025-07-19", Item: "TrailWeight 55L Pack", Category: "packs", Price: 219.00},
		},
		Preferences: map[string]string{
			"activity":   "backpacking",
			"fit":        "regular",
			"price_band": "premium",
		},
	},
	"user_42": {
		UserID:        "user_42",
		Name:          "Marcus Oyelaran",
		Email:         "marcus.oyelaran@example.com",
		LoyaltyTier:   "basecamp",
		AccountType:   "individual",
		LifetimeValue: 612.75,
		PurchaseHistory: []Purchase{
			{OrderID: "ord-3102", Date: "2026-05-02", Item: "BasePoint Camp Stove", Category: "cooking", Price: 84.95},
			{OrderID: "ord-2988", Date: "2026-01-22", Item: "Cascade Works Trekking Poles", Category: "accessories", Price: 119.00},
		},
		Preferences: map[string]string{
			"activity":   "car camping",
			"price_band": "value",
		},
	},
	"user_88": {
		UserID:        "user_88",
		Name:          "Priya Raghunathan",
		Email:         "priya.raghunathan@example.com",
		LoyaltyTier:   "summit",
		AccountType:   "business",
		LifetimeValue: 12140.00,
		PurchaseHistory: []Purchase{
			{OrderID: "ord-3150", Date: "2026-06-11", Item: "Alpenlite Expedition Shell", Category: "apparel", Price: 449.00},
			{OrderID: "ord-3149", Date: "2026-06-11", Item: "Summit Forge 4-Season Tent", Category: "shelter", Price: 689.00},
			{OrderID: "ord-2901", Date: "2025-12-03", Item: "TrailWeight Sleep System", Category: "sleep", Price: 399.00},
		},
		Preferences: map[string]string{
			"activity":   "mountaineering",
			"fit":        "athletic",
			"price_band": "premium",
		},
	},
}

// Profile looks up the mock CRM record for a user. Unknown users get a
// fresh default profile rather than an error, matching how a storefront
// treats first-time visitors.
func Profile(userID string) CustomerProfile {
	if p, ok := customerProfiles[userID]; ok {
		return p
	}
	return CustomerProfile{
		UserID:          userID,
		Name:            "Unknown User",
		Email:           userID + "@example.com",
		LoyaltyTier:     "none",
		AccountType:     "individual",
		LifetimeValue:   0,
		PurchaseHistory: []Purchase{},
		Preferences:     map[string]string{},
	}
}
