package pricelist

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/shoporders/backend/internal/domain/catalog"
	"github.com/shoporders/backend/internal/domain/shared"
	"gopkg.in/yaml.v3"
)

const codeInvalidPriceList = "INVALID_PRICE_LIST"

// feed mirrors the YAML layout published by partners:
//
//	shop: Connect
//	categories:
//	  - {id: 224, name: Smartphones}
//	goods:
//	  - id: 4216292
//	    category: 224
//	    model: apple/iphone/xs-max
//	    name: Apple iPhone XS Max 512GB (gold)
//	    price: 110000
//	    price_rrc: 116990
//	    quantity: 14
//	    parameters:
//	      "Screen (inch)": 6.5
//	      "Colour": gold
type feed struct {
	Shop       string         `yaml:"shop"`
	Categories []feedCategory `yaml:"categories"`
	Goods      []feedGood     `yaml:"goods"`
}

type feedCategory struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
}

type feedGood struct {
	ID         int64                `yaml:"id"`
	Category   int64                `yaml:"category"`
	Model      string               `yaml:"model"`
	Name       string               `yaml:"name"`
	Price      yaml.Node            `yaml:"price"`
	PriceRRC   yaml.Node            `yaml:"price_rrc"`
	Quantity   int                  `yaml:"quantity"`
	Parameters map[string]yaml.Node `yaml:"parameters"`
}

// Parse decodes a YAML feed into a validated PriceList.
// Prices keep their literal decimal text and parameter values keep their scalar text.
func Parse(data []byte) (*catalog.PriceList, error) {
	var doc feed
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, shared.NewDomainError(codeInvalidPriceList, fmt.Sprintf("Price list is not valid YAML: %v", err))
	}

	pl := &catalog.PriceList{
		Shop:       strings.TrimSpace(doc.Shop),
		Categories: make([]catalog.PriceListCategory, 0, len(doc.Categories)),
		Goods:      make([]catalog.PriceListGood, 0, len(doc.Goods)),
	}
	for _, c := range doc.Categories {
		pl.Categories = append(pl.Categories, catalog.PriceListCategory{ID: c.ID, Name: strings.TrimSpace(c.Name)})
	}

	for _, g := range doc.Goods {
		price, err := decimalNode(g.Price, g.ID, "price")
		if err != nil {
			return nil, err
		}
		priceRRC, err := decimalNode(g.PriceRRC, g.ID, "price_rrc")
		if err != nil {
			return nil, err
		}

		params := make(map[string]string, len(g.Parameters))
		for name, node := range g.Parameters {
			if node.Kind != yaml.ScalarNode {
				return nil, shared.NewDomainError(codeInvalidPriceList,
					fmt.Sprintf("Good %d parameter %q must be a scalar", g.ID, name))
			}
			params[strings.TrimSpace(name)] = node.Value
		}

		pl.Goods = append(pl.Goods, catalog.PriceListGood{
			ID:         g.ID,
			CategoryID: g.Category,
			Model:      strings.TrimSpace(g.Model),
			Name:       strings.TrimSpace(g.Name),
			Price:      price,
			PriceRRC:   priceRRC,
			Quantity:   g.Quantity,
			Parameters: params,
		})
	}

	if err := pl.Validate(); err != nil {
		return nil, err
	}
	return pl, nil
}

func decimalNode(node yaml.Node, goodID int64, field string) (decimal.Decimal, error) {
	if node.Kind == 0 {
		return decimal.Zero, nil
	}
	if node.Kind != yaml.ScalarNode {
		return decimal.Zero, shared.NewDomainError(codeInvalidPriceList,
			fmt.Sprintf("Good %d %s must be a number", goodID, field))
	}
	d, err := decimal.NewFromString(node.Value)
	if err != nil {
		return decimal.Zero, shared.NewDomainError(codeInvalidPriceList,
			fmt.Sprintf("Good %d %s must be a number, got %q", goodID, field, node.Value))
	}
	return d, nil
}
