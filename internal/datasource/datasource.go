// Package datasource loads historical bar series from disk for the
// backtest engine. The engine itself only ever sees in-memory series;
// this package is the collaborator that fills them.
package datasource

import (
	"time"

	"github.com/moznion/go-optional"

	"github.com/quantsim-lab/quantsim/internal/types"
)

// DataSource serves time-ordered bar series per symbol.
type DataSource interface {
	// Initialize loads the market data file at path. Supports CSV with a
	// time, symbol, open, high, low, close, volume header.
	Initialize(path string) error
	// Count returns the number of bars inside the optional time window.
	Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// Symbols lists the distinct symbols available, sorted.
	Symbols() ([]string, error)
	// ReadSeries returns the bars for one symbol ordered by time,
	// restricted to the optional window.
	ReadSeries(symbol string, start optional.Option[time.Time], end optional.Option[time.Time]) (types.Series, error)
	// Close releases the underlying database handle.
	Close() error
}
