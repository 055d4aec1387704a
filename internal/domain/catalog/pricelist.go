package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/shoporders/backend/internal/domain/shared"
)

// PriceList is a shop's published assortment: its categories and goods
type PriceList struct {
	Shop       string
	Categories []PriceListCategory
	Goods      []PriceListGood
}

// PriceListCategory is a category declared by the feed under the feed's own id
type PriceListCategory struct {
	ID   int64
	Name string
}

// PriceListGood is one product line of the feed
type PriceListGood struct {
	ID         int64
	CategoryID int64
	Model      string
	Name       string
	Price      decimal.Decimal
	PriceRRC   decimal.Decimal
	Quantity   int
	Parameters map[string]string
}

// codeInvalidPriceList is reported for malformed feeds
const codeInvalidPriceList = "INVALID_PRICE_LIST"

// Validate checks the feed's internal consistency
func (pl *PriceList) Validate() error {
	if strings.TrimSpace(pl.Shop) == "" {
		return shared.NewDomainError(codeInvalidPriceList, "Price list does not name a shop")
	}

	categories := make(map[int64]struct{}, len(pl.Categories))
	for _, c := range pl.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return shared.NewDomainError(codeInvalidPriceList, fmt.Sprintf("Category %d has no name", c.ID))
		}
		categories[c.ID] = struct{}{}
	}

	goods := make(map[int64]struct{}, len(pl.Goods))
	for _, g := range pl.Goods {
		if _, ok := categories[g.CategoryID]; !ok {
			return shared.NewDomainError(codeInvalidPriceList,
				fmt.Sprintf("Good %d references unknown category %d", g.ID, g.CategoryID))
		}
		if _, dup := goods[g.ID]; dup {
			return shared.NewDomainError(codeInvalidPriceList, fmt.Sprintf("Good %d is listed twice", g.ID))
		}
		goods[g.ID] = struct{}{}
		if g.Price.IsNegative() || g.PriceRRC.IsNegative() {
			return shared.NewDomainError(codeInvalidPriceList, fmt.Sprintf("Good %d has a negative price", g.ID))
		}
		if g.Quantity < 0 {
			return shared.NewDomainError(codeInvalidPriceList, fmt.Sprintf("Good %d has a negative quantity", g.ID))
		}
	}
	return nil
}

// CategoryName returns the name the feed gives to a category id
func (pl *PriceList) CategoryName(id int64) (string, bool) {
	for _, c := range pl.Categories {
		if c.ID == id {
			return strings.TrimSpace(c.Name), true
		}
	}
	return "", false
}

// ImportResult summarizes an assortment replacement
type ImportResult struct {
	Categories int `json:"categories"`
	Products   int `json:"products"`
	Parameters int `json:"parameters"`
	Deleted    int `json:"deleted"`
}
