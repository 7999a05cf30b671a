package pricing

import "courierbook/entity"

// Profile table. One canonical ruleset: fixed base fee covering a mileage
// threshold, per-mile beyond it, additive flat uplifts, rounding to the
// profile granularity and a hard ceiling for automated pricing.
// Brackets are listed in ascending FromMiles order.

var defaultProfile = Profile{
	Name:          "standard",
	BaseFee:       3500,
	IncludedMiles: 10,
	PerMile:       150,
	RoundTo:       500,
	MaxMiles:      200,
	AfterHoursFee: 1000,
	WeekendFee:    1500,
	UrgentFee:     2000,
	ShortNotice:   1000,
	Brackets: []Bracket{
		{FromMiles: 50, Fee: 500},
		{FromMiles: 100, Fee: 1000},
	},
}

var industryProfiles = map[profileKey]Profile{
	{industry: "medical", service: entity.ServiceOneWay}: {
		Name:          "medical",
		BaseFee:       5000,
		IncludedMiles: 5,
		PerMile:       200,
		RoundTo:       500,
		MaxMiles:      250,
		AfterHoursFee: 1500,
		WeekendFee:    1500,
		UrgentFee:     3000,
		ShortNotice:   1500,
		Brackets: []Bracket{
			{FromMiles: 50, Fee: 500},
			{FromMiles: 100, Fee: 1500},
		},
	},
	{industry: "medical", service: entity.ServiceSameDayReturn}: {
		Name:          "medical-return",
		BaseFee:       8000,
		IncludedMiles: 5,
		PerMile:       350,
		RoundTo:       1000,
		MaxMiles:      150,
		AfterHoursFee: 2000,
		WeekendFee:    2000,
		UrgentFee:     4000,
		ShortNotice:   2000,
		Brackets: []Bracket{
			{FromMiles: 50, Fee: 1000},
		},
	},
	{industry: "legal", service: entity.ServiceOneWay}: {
		Name:          "legal",
		BaseFee:       4500,
		IncludedMiles: 10,
		PerMile:       175,
		RoundTo:       500,
		MaxMiles:      200,
		AfterHoursFee: 1000,
		WeekendFee:    2000,
		UrgentFee:     2500,
		ShortNotice:   1000,
		Brackets: []Bracket{
			{FromMiles: 50, Fee: 500},
			{FromMiles: 100, Fee: 1000},
		},
	},
	{industry: "legal", service: entity.ServiceSameDayReturn}: {
		Name:          "legal-return",
		BaseFee:       7000,
		IncludedMiles: 10,
		PerMile:       300,
		RoundTo:       1000,
		MaxMiles:      120,
		AfterHoursFee: 1500,
		WeekendFee:    2500,
		UrgentFee:     3000,
		ShortNotice:   1500,
		Brackets: []Bracket{
			{FromMiles: 50, Fee: 1000},
		},
	},
	{industry: "manufacturing", service: entity.ServiceOneWay}: {
		Name:          "manufacturing",
		BaseFee:       3000,
		IncludedMiles: 15,
		PerMile:       125,
		RoundTo:       500,
		MaxMiles:      300,
		AfterHoursFee: 750,
		WeekendFee:    1250,
		UrgentFee:     1500,
		ShortNotice:   750,
		Brackets: []Bracket{
			{FromMiles: 100, Fee: 500},
			{FromMiles: 200, Fee: 1000},
		},
	},
	{industry: "manufacturing", service: entity.ServiceSameDayReturn}: {
		Name:          "manufacturing-return",
		BaseFee:       5500,
		IncludedMiles: 15,
		PerMile:       225,
		RoundTo:       500,
		MaxMiles:      180,
		AfterHoursFee: 1000,
		WeekendFee:    1500,
		UrgentFee:     2000,
		ShortNotice:   1000,
		Brackets: []Bracket{
			{FromMiles: 100, Fee: 1000},
		},
	},
}
