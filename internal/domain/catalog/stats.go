package catalog

import "github.com/shopspring/decimal"

// ProductStat pairs a product name with an aggregate value
// (units sold for popularity, profit for profitability)
type ProductStat struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// AdminStats aggregates the back-office dashboard figures
type AdminStats struct {
	TotalSoldItems int64         `json:"totalSoldItems"`
	MostPopular    []ProductStat `json:"mostPopular"`
	MostProfitable []ProductStat `json:"mostProfitable"`
}

// UserStats aggregates the per-user purchase summaries shown on the
// dashboard: most recently and most frequently purchased product names.
type UserStats struct {
	MostRecent   []string `json:"mostRecent"`
	MostFrequent []string `json:"mostFrequent"`
}
