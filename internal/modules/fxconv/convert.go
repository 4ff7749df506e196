// Package fxconv normalises every monetary column in a RawDataBundle to
// the reporting currency, preserving the original currency and amount as
// audit columns. It is the first pipeline stage and runs
// before hierarchy resolution so every downstream stage can assume a
// single currency.
package fxconv

import (
	"github.com/aristath/rwa-engine/internal/bundle"
	"github.com/aristath/rwa-engine/internal/ctypes"
)

// rateKey identifies a directed currency pair.
type rateKey struct{ from, to string }

func buildRateIndex(rates []bundle.FXRate, reportingCurrency string) map[rateKey]float64 {
	idx := make(map[rateKey]float64, len(rates)+1)
	for _, r := range rates {
		idx[rateKey{from: r.CurrencyFrom, to: r.CurrencyTo}] = r.Rate
	}
	idx[rateKey{from: reportingCurrency, to: reportingCurrency}] = 1.0
	return idx
}

// lookup returns the rate to convert amounts denominated in from into the
// reporting currency, and whether a rate was found.
func lookup(idx map[rateKey]float64, from, reportingCurrency string) (float64, bool) {
	if from == reportingCurrency {
		return 1.0, true
	}
	rate, ok := idx[rateKey{from: from, to: reportingCurrency}]
	return rate, ok
}

// Convert rewrites every monetary table of raw into the reporting
// currency. Rows whose currency has no matching rate retain their
// original currency and amount, and a warning is accumulated.
func Convert(raw bundle.RawDataBundle, reportingCurrency string) (bundle.RawDataBundle, ctypes.Errors) {
	var errs ctypes.Errors
	idx := buildRateIndex(raw.FXRates, reportingCurrency)

	out := raw

	out.Facilities = make([]bundle.Facility, len(raw.Facilities))
	for i, f := range raw.Facilities {
		f.OriginalCurrency = f.Currency
		f.OriginalLimit = f.Limit
		if rate, ok := lookup(idx, f.Currency, reportingCurrency); ok {
			if rate != 1.0 {
				applied := rate
				f.FXRateApplied = &applied
			}
			f.Limit *= rate
			f.Currency = reportingCurrency
		} else {
			errs = errs.Add(missingRateWarning(f.FacilityReference, f.Currency))
		}
		out.Facilities[i] = f
	}

	out.Loans = make([]bundle.Loan, len(raw.Loans))
	for i, l := range raw.Loans {
		l.OriginalCurrency = l.Currency
		l.OriginalDrawnAmount = l.DrawnAmount
		if rate, ok := lookup(idx, l.Currency, reportingCurrency); ok {
			if rate != 1.0 {
				applied := rate
				l.FXRateApplied = &applied
			}
			l.DrawnAmount *= rate
			l.AccruedInterest *= rate
			l.Currency = reportingCurrency
		} else {
			errs = errs.Add(missingRateWarning(l.LoanReference, l.Currency))
		}
		out.Loans[i] = l
	}

	out.Contingents = make([]bundle.Contingent, len(raw.Contingents))
	for i, c := range raw.Contingents {
		c.OriginalCurrency = c.Currency
		c.OriginalNominalAmount = c.NominalAmount
		if rate, ok := lookup(idx, c.Currency, reportingCurrency); ok {
			if rate != 1.0 {
				applied := rate
				c.FXRateApplied = &applied
			}
			c.NominalAmount *= rate
			c.Currency = reportingCurrency
		} else {
			errs = errs.Add(missingRateWarning(c.ContingentReference, c.Currency))
		}
		out.Contingents[i] = c
	}

	out.Collateral = make([]bundle.Collateral, len(raw.Collateral))
	for i, col := range raw.Collateral {
		col.OriginalCurrency = col.Currency
		col.OriginalMarketValue = col.MarketValue
		if rate, ok := lookup(idx, col.Currency, reportingCurrency); ok {
			if rate != 1.0 {
				applied := rate
				col.FXRateApplied = &applied
			}
			col.MarketValue *= rate
			col.NominalValue *= rate
			col.Currency = reportingCurrency
		} else {
			errs = errs.Add(missingRateWarning(col.CollateralReference, col.Currency))
		}
		out.Collateral[i] = col
	}

	out.Guarantees = make([]bundle.Guarantee, len(raw.Guarantees))
	for i, g := range raw.Guarantees {
		g.OriginalCurrency = g.Currency
		g.OriginalAmountCovered = g.AmountCovered
		if rate, ok := lookup(idx, g.Currency, reportingCurrency); ok {
			if rate != 1.0 {
				applied := rate
				g.FXRateApplied = &applied
			}
			g.AmountCovered *= rate
			g.Currency = reportingCurrency
		} else {
			errs = errs.Add(missingRateWarning(g.GuaranteeReference, g.Currency))
		}
		out.Guarantees[i] = g
	}

	out.Provisions = make([]bundle.Provision, len(raw.Provisions))
	for i, p := range raw.Provisions {
		p.OriginalCurrency = p.Currency
		p.OriginalAmount = p.Amount
		if rate, ok := lookup(idx, p.Currency, reportingCurrency); ok {
			if rate != 1.0 {
				applied := rate
				p.FXRateApplied = &applied
			}
			p.Amount *= rate
			p.Currency = reportingCurrency
		} else {
			errs = errs.Add(missingRateWarning(p.ProvisionReference, p.Currency))
		}
		out.Provisions[i] = p
	}

	return out, errs
}

func missingRateWarning(reference, currency string) ctypes.CalculationError {
	return ctypes.New(
		"FX_RATE_MISSING",
		"no FX rate found for currency "+currency+"; amount retained in original currency",
		ctypes.SeverityWarning,
		ctypes.CategoryDataQuality,
	).WithField("currency", "reporting_currency", currency).WithExposure(reference)
}
