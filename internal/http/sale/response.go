package sale

import (
	"github.com/salestream/server/internal/sale"
)

// listResponse is the pagination envelope clients render.
type listResponse struct {
	TotalItems  int64        `json:"totalItems"`
	TotalPages  int          `json:"totalPages"`
	CurrentPage int          `json:"currentPage"`
	Sales       []*sale.Sale `json:"sales"`
}

func toListResponse(p *sale.Page) listResponse {
	sales := p.Sales
	if sales == nil {
		sales = []*sale.Sale{}
	}

	return listResponse{
		TotalItems:  p.TotalItems,
		TotalPages:  p.TotalPages,
		CurrentPage: p.CurrentPage,
		Sales:       sales,
	}
}
