package catalog

// Markets is the built-in catalog: market → sector → company name → ticker.
var Markets = map[string]map[string]map[string]string{
	"Indian Market 🇮🇳": {
		"Technology": {
			"TCS":      "TCS.NS",
			"Infosys":  "INFY.NS",
			"Wipro":    "WIPRO.NS",
			"HCL Tech": "HCLTECH.NS",
		},
		"Finance": {
			"HDFC Bank":  "HDFCBANK.NS",
			"ICICI Bank": "ICICIBANK.NS",
			"SBI":        "SBIN.NS",
			"Axis Bank":  "AXISBANK.NS",
		},
		"Healthcare": {
			"Sun Pharma": "SUNPHARMA.NS",
			"Dr Reddy’s": "DRREDDY.NS",
		},
		"Consumer": {
			"ITC": "ITC.NS",
			"HUL": "HINDUNILVR.NS",
		},
		"Energy": {
			"Reliance": "RELIANCE.NS",
			"ONGC":     "ONGC.NS",
		},
		"Automotive": {
			"Tata Motors": "TATAMOTORS.NS",
			"Maruti":      "MARUTI.NS",
		},
		"Industrial": {
			"Larsen & Toubro": "LT.NS",
		},
		"Telecom": {
			"Bharti Airtel": "BHARTIARTL.NS",
		},
	},
	"US Market 🇺🇸": {
		"Technology": {
			"Apple":     "AAPL",
			"Microsoft": "MSFT",
			"Google":    "GOOGL",
			"Amazon":    "AMZN",
			"Meta":      "META",
		},
		"Finance": {
			"JPMorgan Chase":  "JPM",
			"Goldman Sachs":   "GS",
			"Bank of America": "BAC",
		},
		"Healthcare": {
			"Pfizer":            "PFE",
			"Johnson & Johnson": "JNJ",
		},
		"Consumer": {
			"Coca-Cola": "KO",
			"Walmart":   "WMT",
		},
		"Energy": {
			"Exxon Mobil": "XOM",
			"Chevron":     "CVX",
		},
		"Automotive": {
			"Tesla": "TSLA",
			"Ford":  "F",
		},
		"Industrial": {
			"Boeing": "BA",
		},
		"Telecom": {
			"AT&T":    "T",
			"Verizon": "VZ",
		},
	},
}
