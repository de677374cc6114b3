package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Persona is a pre-built demo shopper with canned browsing history, so
// the persona picker works before anyone generates clickstream data.
type Persona struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	AvatarColor   string           `json:"avatar_color"`
	Story         string           `json:"story"`
	Sessions      []PersonaSession `json:"sessions"`
	TotalViews    int              `json:"total_views"`
	TotalCartAdds int              `json:"total_cart_adds"`
}

type PersonaSession struct {
	Goal       string   `json:"goal"`
	Timeframe  string   `json:"timeframe"`
	ItemCount  int      `json:"item_count"`
	Categories []string `json:"categories"`
}

var defaultPersonas = []Persona{
	{
		ID:          "user_17",
		Name:        "Dana Whitfield",
		AvatarColor: "from-teal-500 to-cyan-500",
		Story:       "Planning a 3-week Pacific Crest Trail thru-hike",
		Sessions: []PersonaSession{
			{Goal: "Research ultralight shelter options", Timeframe: "3 days ago", ItemCount: 12, Categories: []string{"Tents", "Tarps"}},
			{Goal: "Find lightweight sleep system", Timeframe: "2 days ago", ItemCount: 8, Categories: []string{"Sleeping Bags", "Pads"}},
			{Goal: "Browse backpacks", Timeframe: "Yesterday", ItemCount: 15, Categories: []string{"Backpacks"}},
		},
		TotalViews:    35,
		TotalCartAdds: 3,
	},
	{
		ID:          "user_42",
		Name:        "Marcus Oyelaran",
		AvatarColor: "from-amber-500 to-orange-500",
		Story:       "Getting gear for weekend family camping trips",
		Sessions: []PersonaSession{
			{Goal: "Find a spacious family tent", Timeframe: "5 days ago", ItemCount: 9, Categories: []string{"Tents"}},
			{Goal: "Camp kitchen and cooking gear", Timeframe: "3 days ago", ItemCount: 11, Categories: []string{"Stoves", "Cookware"}},
		},
		TotalViews:    20,
		TotalCartAdds: 5,
	},
	{
		ID:          "user_88",
		Name:        "Priya Raghunathan",
		AvatarColor: "from-blue-500 to-indigo-500",
		Story:       "Outfitting a guided mountaineering business for winter",
		Sessions: []PersonaSession{
			{Goal: "Upgrade 4-season tents for alpine", Timeframe: "1 week ago", ItemCount: 6, Categories: []string{"Tents"}},
			{Goal: "Cold weather sleep systems in bulk", Timeframe: "5 days ago", ItemCount: 7, Categories: []string{"Sleeping Bags", "Pads"}},
		},
		TotalViews:    18,
		TotalCartAdds: 9,
	},
	{
		ID:          "user_new",
		Name:        "Guest User",
		AvatarColor: "from-gray-500 to-slate-500",
		Story:       "First-time visitor, browsing casually",
		Sessions:    []PersonaSession{},
	},
}

type PersonasOutput struct {
	Body struct {
		Personas []Persona `json:"personas"`
	}
}

func RegisterUserRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "user-personas",
		Method:      http.MethodGet,
		Path:        "/users/personas",
		Summary:     "Demo shopper personas with canned browsing history",
		Tags:        []string{"Users"},
	}, func(_ context.Context, _ *struct{}) (*PersonasOutput, error) {
		out := &PersonasOutput{}
		out.Body.Personas = defaultPersonas
		return out, nil
	})
}
