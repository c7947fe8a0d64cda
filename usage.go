package skillreview

// Usage is the accounting record for one or more analyzer calls. Token
// counts the analyzer does not report stay zero.
type Usage struct {
	InputTokens         int64   `json:"input_tokens"`
	OutputTokens        int64   `json:"output_tokens"`
	CacheReadTokens     int64   `json:"cache_read_tokens,omitempty"`
	CacheCreationTokens int64   `json:"cache_creation_tokens,omitempty"`
	CostUSD             float64 `json:"cost_usd"`
}

// Add returns the per-field sum of u and v.
func (u Usage) Add(v Usage) Usage {
	return Usage{
		InputTokens:         u.InputTokens + v.InputTokens,
		OutputTokens:        u.OutputTokens + v.OutputTokens,
		CacheReadTokens:     u.CacheReadTokens + v.CacheReadTokens,
		CacheCreationTokens: u.CacheCreationTokens + v.CacheCreationTokens,
		CostUSD:             u.CostUSD + v.CostUSD,
	}
}

// TotalTokens returns the sum of all token counts.
func (u Usage) TotalTokens() int64 {
	return u.InputTokens + u.OutputTokens + u.CacheReadTokens + u.CacheCreationTokens
}

// SumUsage folds usages into a single record. Order does not matter.
func SumUsage(usages []Usage) Usage {
	var total Usage
	for _, u := range usages {
		total = total.Add(u)
	}
	return total
}
