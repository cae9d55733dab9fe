package domain

// ListingPerformance is the headline metrics block shown on a marketplace
// card, taken from the strategy's most recent backtest report. Nil on a
// listing means the strategy has never been backtested.
type ListingPerformance struct {
	WinRate        float64 `json:"winRate"`
	ProfitFactor   float64 `json:"profitFactor"`
	MaxDrawdown    float64 `json:"maxDrawdown"`
	TotalReturnPct float64 `json:"totalReturnPct"`
	TotalTrades    int     `json:"totalTrades"`
}

// MarketplaceListing is the public view of a published strategy.
type MarketplaceListing struct {
	StrategyID  string              `json:"strategyId"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	OwnerID     string              `json:"ownerId"`
	PublishedAt int64               `json:"publishedAt"` // Unix ms
	Indicators  []string            `json:"indicators"`  // display names of indicators used
	Performance *ListingPerformance `json:"performance,omitempty"`
}

// Asset is an uploaded blob with its retrieval URL.
type Asset struct {
	AssetID     string `json:"assetId"`
	Folder      string `json:"folder"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
	UploadedAt  int64  `json:"uploadedAt"`
}
