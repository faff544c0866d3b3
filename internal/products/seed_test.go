package products

import (
	"strings"
	"testing"
)

func TestParseSeed(t *testing.T) {
	raw := []byte(`
products:
  - name: Torta Cuadrada de Chocolate
    description: Bizcocho de chocolate con relleno de manjar
    category: Tortas Cuadradas
    price: 45000
    stock: 10
  - name: Mousse de Chocolate
    category: Postres Individuales
    price: 5000
    stock: 25
`)
	seeds, err := parseSeed(raw)
	if err != nil {
		t.Fatalf("parseSeed: %v", err)
	}
	if len(seeds) != 2 {
		t.Fatalf("expected 2 products, got %d", len(seeds))
	}
	if seeds[0].Name != "Torta Cuadrada de Chocolate" || seeds[0].Price != 45000 {
		t.Errorf("unexpected first product: %+v", seeds[0])
	}
	if seeds[1].Category != "Postres Individuales" || seeds[1].Stock != 25 {
		t.Errorf("unexpected second product: %+v", seeds[1])
	}
}

func TestParseSeedRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{
			"missing name",
			"products:\n  - price: 1000\n    stock: 1\n",
			"name is required",
		},
		{
			"zero price",
			"products:\n  - name: Torta\n    price: 0\n",
			"price must be positive",
		},
		{
			"negative stock",
			"products:\n  - name: Torta\n    price: 1000\n    stock: -2\n",
			"stock must not be negative",
		},
		{
			"malformed yaml",
			"products: [\n",
			"parsing seed file",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSeed([]byte(tt.raw))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
