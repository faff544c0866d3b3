package products

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedProduct is one catalog entry in the seed file.
type SeedProduct struct {
	Name          string  `yaml:"name"`
	Description   string  `yaml:"description"`
	Category      string  `yaml:"category"`
	Price         float64 `yaml:"price"`
	Stock         int     `yaml:"stock"`
	StripePriceID string  `yaml:"stripe_price_id"`
}

type seedFile struct {
	Products []SeedProduct `yaml:"products"`
}

// LoadSeedFile parses a YAML seed catalog and validates every entry.
func LoadSeedFile(path string) ([]SeedProduct, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	return parseSeed(raw)
}

func parseSeed(raw []byte) ([]SeedProduct, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	for i, p := range f.Products {
		if p.Name == "" {
			return nil, fmt.Errorf("seed product %d: name is required", i)
		}
		if p.Price <= 0 {
			return nil, fmt.Errorf("seed product %q: price must be positive", p.Name)
		}
		if p.Stock < 0 {
			return nil, fmt.Errorf("seed product %q: stock must not be negative", p.Name)
		}
	}
	return f.Products, nil
}

// SeedCatalog inserts the seed products when the catalog is empty. Reruns are
// no-ops so restarts do not duplicate the catalog.
func (c *Conf) SeedCatalog(ctx context.Context, seeds []SeedProduct) (int, error) {
	count, err := c.CountProducts(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	inserted := 0
	for _, s := range seeds {
		_, err := c.InsertProduct(ctx, NewProduct{
			Name:          s.Name,
			Description:   s.Description,
			Category:      s.Category,
			Price:         s.Price,
			Stock:         s.Stock,
			StripePriceID: s.StripePriceID,
		})
		if err != nil {
			return inserted, fmt.Errorf("seeding product %q: %w", s.Name, err)
		}
		inserted++
	}
	return inserted, nil
}
