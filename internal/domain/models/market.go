package models

import "time"

// Region identifies an equity market whose sentiment index is computed
// independently of every other region.
type Region string

const (
	RegionUS Region = "us"
	RegionEU Region = "eu"
	RegionCN Region = "cn"
)

// Field identifies which column of a ticker's history a series carries.
type Field string

const (
	FieldClose  Field = "close"
	FieldVolume Field = "volume"
)

// Point is a single (timestamp, value) observation.
type Point struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Series is an ascending-time ordered sequence of observations for one
// ticker and field. An empty Points slice is never a valid fetch result;
// sources must report a distinct no-data error instead.
type Series struct {
	Ticker string  `json:"ticker"`
	Field  Field   `json:"field"`
	Points []Point `json:"points"`
}

// Len returns the number of observations.
func (s Series) Len() int { return len(s.Points) }

// Values returns the raw values in time order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// Last returns the most recent value, or (0, false) on an empty series.
func (s Series) Last() (float64, bool) {
	if len(s.Points) == 0 {
		return 0, false
	}
	return s.Points[len(s.Points)-1].Value, true
}

// First returns the oldest value, or (0, false) on an empty series.
func (s Series) First() (float64, bool) {
	if len(s.Points) == 0 {
		return 0, false
	}
	return s.Points[0].Value, true
}

// Tail returns a view of the most recent n observations (all of them when
// the series is shorter than n).
func (s Series) Tail(n int) Series {
	if n <= 0 || len(s.Points) == 0 {
		return Series{Ticker: s.Ticker, Field: s.Field}
	}
	if n > len(s.Points) {
		n = len(s.Points)
	}
	return Series{Ticker: s.Ticker, Field: s.Field, Points: s.Points[len(s.Points)-n:]}
}
