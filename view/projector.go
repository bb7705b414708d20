/*
Package view derives paged history views from a wallet transaction log.

PURPOSE:
  Project is a pure function of (transactions, Request). It keeps no state
  between calls: the same inputs always produce the same Page, and the input
  slice is never reordered.

PIPELINE:
  1. Filter   - keep all, or only one transaction type (stable)
  2. Sort     - by CreatedAt or Amount, asc or desc (stable: ties keep the
                order they had in the log)
  3. Paginate - totalPages = max(1, ceil(n / pageSize)); the requested page
                is clamped into [1, totalPages]

  An empty filtered set yields one empty page, not an error.

SEE ALSO:
  - request.go: Request vocabulary and parsing
  - wallet/ledger.go: Source of the log
*/
package view

import (
	"sort"

	"github.com/warp/wallet-engine/wallet"
)

// Page is one slice of the filtered, sorted log.
type Page struct {
	Items      []wallet.Transaction
	Page       int
	TotalPages int
	TotalItems int // size of the filtered set
	PageSize   int
}

// Project filters, sorts and paginates txs according to req.
func Project(txs []wallet.Transaction, req Request) Page {
	req = req.Normalize()

	filtered := filter(txs, req.Filter)
	sortStable(filtered, req.SortField, req.SortOrder)

	total := TotalPages(len(filtered), req.PageSize)
	page := clamp(req.Page, 1, total)

	start := (page - 1) * req.PageSize
	end := start + req.PageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	items := make([]wallet.Transaction, end-start)
	copy(items, filtered[start:end])

	return Page{
		Items:      items,
		Page:       page,
		TotalPages: total,
		TotalItems: len(filtered),
		PageSize:   req.PageSize,
	}
}

// ChangePage moves req by direction pages (negative goes back), clamped to
// the pages available under the current filter, and projects the result.
func ChangePage(txs []wallet.Transaction, req Request, direction int) (Request, Page) {
	req = req.Normalize()
	count := 0
	for _, tx := range txs {
		if req.Filter.Matches(tx) {
			count++
		}
	}
	req.Page = clamp(req.Page+direction, 1, TotalPages(count, req.PageSize))
	return req, Project(txs, req)
}

// TotalPages returns max(1, ceil(count / pageSize)).
func TotalPages(count, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	pages := (count + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

func filter(txs []wallet.Transaction, f Filter) []wallet.Transaction {
	out := make([]wallet.Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.Matches(tx) {
			out = append(out, tx)
		}
	}
	return out
}

func sortStable(txs []wallet.Transaction, field SortField, order SortOrder) {
	cmp := func(a, b wallet.Transaction) int {
		if field == SortByAmount {
			return a.Amount.Cmp(b.Amount)
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	}
	sort.SliceStable(txs, func(i, j int) bool {
		c := cmp(txs[i], txs[j])
		if order == Desc {
			return c > 0
		}
		return c < 0
	})
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
