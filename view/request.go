package view

import (
	"errors"
	"fmt"

	"github.com/warp/wallet-engine/wallet"
)

// DefaultPageSize matches the history table of the wallet page.
const DefaultPageSize = 10

// ErrInvalidRequest is returned by the Parse* helpers for unknown values.
var ErrInvalidRequest = errors.New("invalid view request")

// =============================================================================
// FILTER / SORT VOCABULARY
// =============================================================================

// Filter is "all" or one of the transaction types.
type Filter string

const FilterAll Filter = "all"

// Matches reports whether tx passes the filter.
func (f Filter) Matches(tx wallet.Transaction) bool {
	return f == FilterAll || wallet.TransactionType(f) == tx.Type
}

type SortField string

const (
	SortByDate   SortField = "date"
	SortByAmount SortField = "amount"
)

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Reverse returns the opposite order.
func (o SortOrder) Reverse() SortOrder {
	if o == Asc {
		return Desc
	}
	return Asc
}

// ParseFilter accepts "", "all" or a transaction type.
func ParseFilter(s string) (Filter, error) {
	if s == "" || s == string(FilterAll) {
		return FilterAll, nil
	}
	if !wallet.TransactionType(s).Valid() {
		return "", fmt.Errorf("%w: unknown filter %q", ErrInvalidRequest, s)
	}
	return Filter(s), nil
}

// ParseSortField accepts "", "date" or "amount". Empty means date.
func ParseSortField(s string) (SortField, error) {
	switch SortField(s) {
	case "", SortByDate:
		return SortByDate, nil
	case SortByAmount:
		return SortByAmount, nil
	}
	return "", fmt.Errorf("%w: unknown sort field %q", ErrInvalidRequest, s)
}

// ParseSortOrder accepts "", "asc" or "desc". Empty means desc.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case "", Desc:
		return Desc, nil
	case Asc:
		return Asc, nil
	}
	return "", fmt.Errorf("%w: unknown sort order %q", ErrInvalidRequest, s)
}

// =============================================================================
// REQUEST
// =============================================================================

// Request describes one page of the transaction history. Page is 1-based.
type Request struct {
	Filter    Filter
	SortField SortField
	SortOrder SortOrder
	Page      int
	PageSize  int
}

// DefaultRequest is the first page of everything, newest first.
func DefaultRequest() Request {
	return Request{
		Filter:    FilterAll,
		SortField: SortByDate,
		SortOrder: Desc,
		Page:      1,
		PageSize:  DefaultPageSize,
	}
}

// Normalize fills zero values with defaults. Unknown sort fields fall back to
// date and unknown orders to desc; an unknown filter is kept and matches nothing.
func (r Request) Normalize() Request {
	if r.Filter == "" {
		r.Filter = FilterAll
	}
	if r.SortField != SortByAmount {
		r.SortField = SortByDate
	}
	if r.SortOrder != Asc {
		r.SortOrder = Desc
	}
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = DefaultPageSize
	}
	return r
}

// WithFilter switches the filter and goes back to the first page.
func (r Request) WithFilter(f Filter) Request {
	r.Filter = f
	r.Page = 1
	return r
}

// ToggleSort flips the order when field is already selected; otherwise it
// selects field in descending order. The page is kept.
func (r Request) ToggleSort(field SortField) Request {
	r = r.Normalize()
	if r.SortField == field {
		r.SortOrder = r.SortOrder.Reverse()
		return r
	}
	r.SortField = field
	r.SortOrder = Desc
	return r
}
