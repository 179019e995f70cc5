package chart

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the label format used for generated series.
const DateFormat = "2006/01/02"

var (
	// ErrNotEnoughColumns is returned when a CSV record is missing price columns.
	ErrNotEnoughColumns = errors.New("not enough columns")

	// ErrInvalidPriceFormat is returned when a price column is not a decimal number.
	ErrInvalidPriceFormat = errors.New("OHLC prices must be in valid decimal format")

	// ErrEmptySeries is returned when a source contains no candles.
	ErrEmptySeries = errors.New("series has no candles")
)

// Candle is one category of the price series.
type Candle struct {
	Label string
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// Up reports whether the candle closed at or above its open.
func (c Candle) Up() bool { return c.Close >= c.Open }

// Series is an ordered list of candles. The position of a candle is its
// category index on the x axis.
type Series struct {
	Candles []Candle
}

// Len returns the number of categories.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Candles)
}

// CategoryLabel returns the label of category i.
func (s *Series) CategoryLabel(i int) (string, bool) {
	if s == nil || i < 0 || i >= len(s.Candles) {
		return "", false
	}
	return s.Candles[i].Label, true
}

// Range returns the lowest low and highest high of candles [from, to].
// Indices are clamped to the series.
func (s *Series) Range(from, to int) (lo, hi float64, ok bool) {
	if s.Len() == 0 {
		return 0, 0, false
	}
	from = max(from, 0)
	to = min(to, len(s.Candles)-1)
	if from > to {
		return 0, 0, false
	}
	lo, hi = s.Candles[from].Low, s.Candles[from].High
	for _, c := range s.Candles[from+1 : to+1] {
		lo = min(lo, c.Low)
		hi = max(hi, c.High)
	}
	return lo, hi, true
}

type columns struct {
	date, open, high, low, close int
}

// headerless rows follow the candlestick data order date, open, close, low, high.
var defaultColumns = columns{date: 0, open: 1, close: 2, low: 3, high: 4}

// LoadCSV reads a series from CSV. When the first record names its columns
// (date, open, high, low, close in any order) they are used; otherwise rows
// are read as date, open, close, low, high.
func LoadCSV(r io.Reader) (*Series, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	first, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptySeries
	}
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	cols, isHeader := headerColumns(first)
	s := &Series{}
	row := 1
	if !isHeader {
		c, err := decodeCandle(first, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		s.Candles = append(s.Candles, c)
	}
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		c, err := decodeCandle(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		s.Candles = append(s.Candles, c)
	}
	if len(s.Candles) == 0 {
		return nil, ErrEmptySeries
	}
	return s, nil
}

func headerColumns(rec []string) (columns, bool) {
	cols := columns{-1, -1, -1, -1, -1}
	for i, name := range rec {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date", "time", "timestamp", "label":
			cols.date = i
		case "open":
			cols.open = i
		case "high":
			cols.high = i
		case "low":
			cols.low = i
		case "close":
			cols.close = i
		}
	}
	if cols.open < 0 || cols.high < 0 || cols.low < 0 || cols.close < 0 {
		return defaultColumns, false
	}
	return cols, true
}

func decodeCandle(rec []string, cols columns) (Candle, error) {
	need := max(cols.date, cols.open, cols.high, cols.low, cols.close)
	if len(rec) <= need {
		return Candle{}, ErrNotEnoughColumns
	}
	var c Candle
	if cols.date >= 0 {
		c.Label = strings.TrimSpace(rec[cols.date])
	}
	fields := []struct {
		dst *float64
		idx int
	}{{&c.Open, cols.open}, {&c.High, cols.high}, {&c.Low, cols.low}, {&c.Close, cols.close}}
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[f.idx]), 64)
		if err != nil {
			return Candle{}, ErrInvalidPriceFormat
		}
		*f.dst = v
	}
	return c, nil
}

// WriteCSV writes s with a date,open,high,low,close header.
func WriteCSV(w io.Writer, s *Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "open", "high", "low", "close"}); err != nil {
		return err
	}
	for _, c := range s.Candles {
		row := []string{
			c.Label,
			strconv.FormatFloat(c.Open, 'f', -1, 64),
			strconv.FormatFloat(c.High, 'f', -1, 64),
			strconv.FormatFloat(c.Low, 'f', -1, 64),
			strconv.FormatFloat(c.Close, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// GenerateSeries returns n daily candles from a seeded random walk starting
// at start. The same seed always yields the same series.
func GenerateSeries(n int, seed int64, start time.Time) *Series {
	rng := rand.New(rand.NewSource(seed))
	s := &Series{Candles: make([]Candle, 0, n)}
	price := 2300.0
	for i := 0; i < n; i++ {
		open := price
		closePrice := open + (rng.Float64()-0.5)*open*0.03
		high := max(open, closePrice) + rng.Float64()*open*0.01
		low := min(open, closePrice) - rng.Float64()*open*0.01
		s.Candles = append(s.Candles, Candle{
			Label: start.AddDate(0, 0, i).Format(DateFormat),
			Open:  round2(open),
			High:  round2(high),
			Low:   round2(low),
			Close: round2(closePrice),
		})
		price = closePrice
	}
	return s
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
