package place

// ptr helpers for the static catalog below.
func ratingOf(v float64) *float64 { return &v }
func openFlag(v bool) *bool       { return &v }

// stockCatalog is the built-in demo catalog. It stands in for a real place
// provider and doubles as the always-available fallback sample.
var stockCatalog = []Place{
	{
		ID:               "1",
		Name:             "Chrome Brew Co",
		Address:          "123 Tech Street, Downtown",
		Latitude:         37.7749,
		Longitude:        -122.4194,
		Rating:           ratingOf(4.7),
		UserRatingsTotal: 320,
		OpenNow:          openFlag(true),
		PriceLevel:       "$$",
		Types:            []string{"cafe", "coffee"},
		PhotoURL:         "https://via.placeholder.com/400x300?text=Chrome+Brew+Co",
	},
	{
		ID:               "2",
		Name:             "Silicon Valley Coffee Lab",
		Address:          "456 Innovation Ave, Tech Hub",
		Latitude:         37.7758,
		Longitude:        -122.4128,
		Rating:           ratingOf(4.5),
		UserRatingsTotal: 450,
		OpenNow:          openFlag(true),
		PriceLevel:       "$$",
		Types:            []string{"cafe", "restaurant"},
		PhotoURL:         "https://via.placeholder.com/400x300?text=Silicon+Valley+Coffee",
	},
	{
		ID:               "3",
		Name:             "Cloud Nine Co-working",
		Address:          "789 Business Blvd, Corporate Park",
		Latitude:         37.7699,
		Longitude:        -122.4162,
		Rating:           ratingOf(4.8),
		UserRatingsTotal: 280,
		OpenNow:          openFlag(true),
		PriceLevel:       "$$$",
		Types:            []string{"library", "cafe"},
		PhotoURL:         "https://via.placeholder.com/400x300?text=Cloud+Nine",
	},
	{
		ID:               "4",
		Name:             "Romantic Italian Trattoria",
		Address:          "321 Love Lane, Historic District",
		Latitude:         37.7749,
		Longitude:        -122.4150,
		Rating:           ratingOf(4.9),
		UserRatingsTotal: 600,
		OpenNow:          openFlag(true),
		PriceLevel:       "$$$",
		Types:            []string{"restaurant", "italian"},
		PhotoURL:         "https://via.placeholder.com/400x300?text=Italian+Restaurant",
	},
	{
		ID:               "5",
		Name:             "Moonlight Bar & Lounge",
		Address:          "654 Sunset Blvd, Entertainment District",
		Latitude:         37.7840,
		Longitude:        -122.4180,
		Rating:           ratingOf(4.6),
		UserRatingsTotal: 520,
		OpenNow:          openFlag(true),
		PriceLevel:       "$$$",
		Types:            []string{"bar", "restaurant"},
		PhotoURL:         "https://via.placeholder.com/400x300?text=Moonlight+Lounge",
	},
	{
		ID:               "6",
		Name:             "Art Gallery Cafe",
		Address:          "987 Culture Street, Arts District",
		Latitude:         37.7730,
		Longitude:        -122.4200,
		Rating:           ratingOf(4.4),
		UserRatingsTotal: 380,
		OpenNow:          openFlag(true),
		PriceLevel:       "$$",
		Types:            []string{"cafe", "art_gallery"},
		PhotoURL:         "https://via.placeholder.com/400x300?text=Art+Gallery",
	},
	{
		ID:               "7",
		Name:             "Quick Bite Burgers",
		Address:          "111 Fast Food Court, Main Street",
		Latitude:         37.7769,
		Longitude:        -122.4140,
		Rating:           ratingOf(4.3),
		UserRatingsTotal: 890,
		OpenNow:          openFlag(true),
		PriceLevel:       "$",
		Types:            []string{"fast_food", "burger"},
		PhotoURL:         "https://via.placeholder.com/400x300?text=Quick+Bite",
	},
	{
		ID:               "8",
		Name:             "Speedy Tacos",
		Address:          "222 Quick Eats Lane, Downtown",
		Latitude:         37.7750,
		Longitude:        -122.4120,
		Rating:           ratingOf(4.5),
		UserRatingsTotal: 720,
		OpenNow:          openFlag(true),
		PriceLevel:       "$",
		Types:            []string{"fast_food", "mexican"},
		PhotoURL:         "https://via.placeholder.com/400x300?text=Speedy+Tacos",
	},
	{
		ID:               "9",
		Name:             "Fresh Pita House",
		Address:          "333 Sandwiches St, Market District",
		Latitude:         37.7760,
		Longitude:        -122.4110,
		Rating:           ratingOf(4.6),
		UserRatingsTotal: 650,
		OpenNow:          openFlag(true),
		PriceLevel:       "$",
		Types:            []string{"fast_food", "sandwich"},
		PhotoURL:         "https://via.placeholder.com/400x300?text=Fresh+Pita",
	},
	{
		ID:               "10",
		Name:             "Budget Bowl Restaurant",
		Address:          "444 Cheap Eats Ave, Downtown",
		Latitude:         37.7748,
		Longitude:        -122.4135,
		Rating:           ratingOf(4.2),
		UserRatingsTotal: 580,
		OpenNow:          openFlag(true),
		PriceLevel:       "$",
		Types:            []string{"restaurant", "budget"},
		PhotoURL:         "https://via.placeholder.com/400x300?text=Budget+Bowl",
	},
	{
		ID:               "11",
		Name:             "Street Food Court",
		Address:          "555 Affordable Lane, East Bay",
		Latitude:         37.7755,
		Longitude:        -122.4125,
		Rating:           ratingOf(4.4),
		UserRatingsTotal: 420,
		OpenNow:          openFlag(true),
		PriceLevel:       "$",
		Types:            []string{"food_court", "budget"},
		PhotoURL:         "https://via.placeholder.com/400x300?text=Street+Food",
	},
	{
		ID:               "12",
		Name:             "Value Bakery Cafe",
		Address:          "666 Savings Street, Midtown",
		Latitude:         37.7740,
		Longitude:        -122.4145,
		Rating:           ratingOf(4.3),
		UserRatingsTotal: 340,
		OpenNow:          openFlag(true),
		PriceLevel:       "$",
		Types:            []string{"bakery", "cafe"},
		PhotoURL:         "https://via.placeholder.com/400x300?text=Value+Bakery",
	},
}

// StockCatalog returns a deep copy of the built-in demo catalog.
func StockCatalog() []Place {
	out := make([]Place, len(stockCatalog))
	for i, p := range stockCatalog {
		out[i] = p.Clone()
	}
	return out
}
