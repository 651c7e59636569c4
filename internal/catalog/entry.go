package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Entry is one company known to the catalog. Entries loaded from the legacy
// file format have an empty Market and Sector.
type Entry struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker"`
	Market string `json:"market,omitempty"`
	Sector string `json:"sector,omitempty"`
}

// Legacy reports whether e carries no market/sector placement.
func (e Entry) Legacy() bool { return e.Market == "" && e.Sector == "" }

func (e Entry) normalize() Entry {
	return Entry{
		Name:   strings.TrimSpace(e.Name),
		Ticker: strings.ToUpper(strings.TrimSpace(e.Ticker)),
		Market: strings.TrimSpace(e.Market),
		Sector: strings.TrimSpace(e.Sector),
	}
}

func (e Entry) validate() error {
	if e.Name == "" {
		return errors.New("company name is required")
	}
	if e.Ticker == "" {
		return errors.New("ticker is required")
	}
	if strings.ContainsAny(e.Ticker, " \t\n") {
		return fmt.Errorf("invalid ticker %q", e.Ticker)
	}
	return nil
}

// fileEntry is the object form stored in the companies file.
type fileEntry struct {
	Ticker string `json:"ticker"`
	Market string `json:"market,omitempty"`
	Sector string `json:"sector,omitempty"`
}

// decodeEntries reads the companies file: a JSON object mapping each name to
// either a bare ticker string or {"ticker","market","sector"}.
func decodeEntries(data []byte) ([]Entry, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("companies file: %w", err)
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Entry, 0, len(raw))
	for _, name := range names {
		v := bytes.TrimSpace(raw[name])
		var e Entry
		switch {
		case len(v) > 0 && v[0] == '"':
			var ticker string
			if err := json.Unmarshal(v, &ticker); err != nil {
				return nil, fmt.Errorf("companies file: %s: %w", name, err)
			}
			e = Entry{Name: name, Ticker: ticker}
		case len(v) > 0 && v[0] == '{':
			var fe fileEntry
			if err := json.Unmarshal(v, &fe); err != nil {
				return nil, fmt.Errorf("companies file: %s: %w", name, err)
			}
			e = Entry{Name: name, Ticker: fe.Ticker, Market: fe.Market, Sector: fe.Sector}
		default:
			return nil, fmt.Errorf("companies file: %s: expected a ticker string or object", name)
		}
		e = e.normalize()
		if err := e.validate(); err != nil {
			return nil, fmt.Errorf("companies file: %s: %w", name, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// encodeEntries writes entries back in the file format. Legacy entries keep
// the bare string form.
func encodeEntries(entries []Entry) ([]byte, error) {
	raw := make(map[string]any, len(entries))
	for _, e := range entries {
		if e.Legacy() {
			raw[e.Name] = e.Ticker
			continue
		}
		raw[e.Name] = fileEntry{Ticker: e.Ticker, Market: e.Market, Sector: e.Sector}
	}
	return json.MarshalIndent(raw, "", "  ")
}
