package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"fleetwatch/backend/internal/model"
)

// Export format constants
const (
	ExportFormatCSV  = "csv"
	ExportFormatJSON = "json"
)

// ExportService serializes bot history and market data for download.
// It reads through the same query path as the dashboard, so exported
// values match what is on screen.
type ExportService struct {
	fleet  *FleetService
	market *MarketDataService
}

// NewExportService creates the exporter
func NewExportService(fleet *FleetService, market *MarketDataService) *ExportService {
	return &ExportService{
		fleet:  fleet,
		market: market,
	}
}

// ExportHistory serializes a bot's full ledger in the given format.
// Unknown bots export an empty document, mirroring the history query.
func (s *ExportService) ExportHistory(botID, format string) ([]byte, string, error) {
	entries := s.fleet.History(botID, 0)

	switch format {
	case ExportFormatJSON:
		data, err := json.MarshalIndent(entries, "", "  ")
		return data, "application/json", err
	case ExportFormatCSV, "":
		return historyCSV(entries)
	default:
		return nil, "", fmt.Errorf("unsupported export format: %s", format)
	}
}

// ExportMarket serializes the current candle window in the given format
func (s *ExportService) ExportMarket(format string) ([]byte, string, error) {
	snapshot := s.market.Snapshot()

	switch format {
	case ExportFormatJSON:
		data, err := json.MarshalIndent(snapshot, "", "  ")
		return data, "application/json", err
	case ExportFormatCSV, "":
		return marketCSV(snapshot.Candles)
	default:
		return nil, "", fmt.Errorf("unsupported export format: %s", format)
	}
}

func historyCSV(entries []*model.HistoryEntry) ([]byte, string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"id", "timestamp", "type", "title", "description", "profit"}); err != nil {
		return nil, "", err
	}
	for _, e := range entries {
		profit := ""
		if e.Profit != nil {
			profit = strconv.FormatFloat(*e.Profit, 'f', 2, 64)
		}
		record := []string{
			e.ID,
			e.Timestamp.Format(time.RFC3339),
			e.Type,
			e.Title,
			e.Description,
			profit,
		}
		if err := w.Write(record); err != nil {
			return nil, "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "text/csv", nil
}

func marketCSV(candles []model.Candle) ([]byte, string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"time", "open", "high", "low", "close", "volume", "sma_short", "sma_long"}); err != nil {
		return nil, "", err
	}
	for _, c := range candles {
		record := []string{
			c.Time.Format(time.RFC3339),
			strconv.FormatFloat(c.Open, 'f', 2, 64),
			strconv.FormatFloat(c.High, 'f', 2, 64),
			strconv.FormatFloat(c.Low, 'f', 2, 64),
			strconv.FormatFloat(c.Close, 'f', 2, 64),
			strconv.FormatFloat(c.Volume, 'f', 2, 64),
			strconv.FormatFloat(c.SMAShort, 'f', 2, 64),
			strconv.FormatFloat(c.SMALong, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return nil, "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "text/csv", nil
}
