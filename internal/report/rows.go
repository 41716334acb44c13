package report

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Row shapes of the reporting endpoints. The JSON names are the published
// contract the BI tooling binds to; renaming any of them is a breaking change.

type SummaryRow struct {
	OrderID       string  `json:"OrderID"`
	Region        string  `json:"Region"`
	Country       string  `json:"Country"`
	ItemType      string  `json:"ItemType"`
	SalesChannel  string  `json:"SalesChannel"`
	OrderPriority string  `json:"OrderPriority"`
	OrderDate     string  `json:"OrderDate"`
	ShipDate      string  `json:"ShipDate"`
	UnitsSold     int     `json:"UnitsSold"`
	UnitPrice     float64 `json:"UnitPrice"`
	UnitCost      float64 `json:"UnitCost"`
	TotalRevenue  float64 `json:"TotalRevenue"`
	TotalCost     float64 `json:"TotalCost"`
	TotalProfit   float64 `json:"TotalProfit"`
	ProfitMargin  float64 `json:"ProfitMargin"`
}

type CountryRow struct {
	Region        string  `json:"Region"`
	Country       string  `json:"Country"`
	TotalOrders   int     `json:"TotalOrders"`
	TotalRevenue  float64 `json:"TotalRevenue"`
	TotalCost     float64 `json:"TotalCost"`
	TotalProfit   float64 `json:"TotalProfit"`
	TotalUnits    int     `json:"TotalUnits"`
	AvgOrderValue float64 `json:"AvgOrderValue"`
	ProfitMargin  float64 `json:"ProfitMargin"`
}

type ProductRow struct {
	ItemType     string  `json:"ItemType"`
	TotalOrders  int     `json:"TotalOrders"`
	TotalRevenue float64 `json:"TotalRevenue"`
	TotalCost    float64 `json:"TotalCost"`
	TotalProfit  float64 `json:"TotalProfit"`
	TotalUnits   int     `json:"TotalUnits"`
	AvgUnitPrice float64 `json:"AvgUnitPrice"`
	AvgUnitCost  float64 `json:"AvgUnitCost"`
	ProfitMargin float64 `json:"ProfitMargin"`
}

type MonthlyRow struct {
	YearMonth    string  `json:"YearMonth"`
	Year         int     `json:"Year"`
	Month        int     `json:"Month"`
	MonthName    string  `json:"MonthName"`
	TotalOrders  int     `json:"TotalOrders"`
	TotalRevenue float64 `json:"TotalRevenue"`
	TotalCost    float64 `json:"TotalCost"`
	TotalProfit  float64 `json:"TotalProfit"`
	TotalUnits   int     `json:"TotalUnits"`
	ProfitMargin float64 `json:"ProfitMargin"`
}

type ChannelRow struct {
	SalesChannel  string  `json:"SalesChannel"`
	OrderPriority string  `json:"OrderPriority"`
	TotalOrders   int     `json:"TotalOrders"`
	TotalRevenue  float64 `json:"TotalRevenue"`
	TotalCost     float64 `json:"TotalCost"`
	TotalProfit   float64 `json:"TotalProfit"`
	TotalUnits    int     `json:"TotalUnits"`
	AvgOrderValue float64 `json:"AvgOrderValue"`
	ProfitMargin  float64 `json:"ProfitMargin"`
}

type RegionRow struct {
	Region         string  `json:"Region"`
	TotalCountries int     `json:"TotalCountries"`
	TotalOrders    int     `json:"TotalOrders"`
	TotalRevenue   float64 `json:"TotalRevenue"`
	TotalCost      float64 `json:"TotalCost"`
	TotalProfit    float64 `json:"TotalProfit"`
	TotalUnits     int     `json:"TotalUnits"`
	AvgOrderValue  float64 `json:"AvgOrderValue"`
	ProfitMargin   float64 `json:"ProfitMargin"`
}

// RankedTotal is one name/value entry of a ranked listing.
type RankedTotal struct {
	Name  string
	Value float64
}

// RankedTotals is a ranked listing serialized as a JSON object whose keys
// keep their slice order. A plain map would lose the ranking: encoding/json
// writes map keys alphabetically.
type RankedTotals []RankedTotal

// Get looks a name up by key, ignoring rank.
func (t RankedTotals) Get(name string) (float64, bool) {
	for _, e := range t {
		if e.Name == name {
			return e.Value, true
		}
	}
	return 0, false
}

func (t RankedTotals) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, e := range t {
		if i > 0 {
			b.WriteByte(',')
		}
		name, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		b.Write(name)
		b.WriteByte(':')
		value, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		b.Write(value)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON reads the object token by token so the cached digest keeps
// its ranking across a round trip.
func (t *RankedTotals) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("ranked totals: expected object, got %v", tok)
	}
	var out RankedTotals
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("ranked totals: expected string key, got %v", keyTok)
		}
		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		num, ok := valTok.(json.Number)
		if !ok {
			return fmt.Errorf("ranked totals: expected number for %q, got %v", key, valTok)
		}
		value, err := num.Float64()
		if err != nil {
			return err
		}
		out = append(out, RankedTotal{Name: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*t = out
	return nil
}

// Digest is the dashboard payload: top-5 lists keyed by name plus the
// whole-table totals.
type Digest struct {
	Suppliers    RankedTotals `json:"suppliers"`
	Clients      RankedTotals `json:"clients"`
	Products     RankedTotals `json:"products"`
	TotalRecords int          `json:"total_records"`
	TotalRevenue float64      `json:"total_revenue"`
}
