package ledger

import "github.com/rogerio-castellano/inventory-ledger/internal/models"

// ProductPatch carries the fields an upsert may apply. Zero values mean "not provided".
type ProductPatch struct {
	SKU          string
	Name         string
	PackSize     int
	Stock        *int
	InitialStock *int
}

// Catalog maps SKU to product and remembers insertion order.
type Catalog struct {
	order []string
	items map[string]models.Product
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{items: make(map[string]models.Product)}
}

// Get returns the product stored under sku.
func (c *Catalog) Get(sku string) (models.Product, bool) {
	p, ok := c.items[sku]
	if !ok {
		return models.Product{}, false
	}
	return p.Clone(), true
}

// Has reports whether sku is in the catalog.
func (c *Catalog) Has(sku string) bool {
	_, ok := c.items[sku]
	return ok
}

// All returns every product in insertion order.
func (c *Catalog) All() []models.Product {
	out := make([]models.Product, 0, len(c.order))
	for _, sku := range c.order {
		out = append(out, c.items[sku].Clone())
	}
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Upsert merges p into the catalog and reports whether a new product was created.
//
// For an existing SKU only a positive PackSize and a non-empty Name are applied;
// stock figures are left alone. A new SKU is inserted with the provided fields,
// PackSize defaulting to 1 and Stock/InitialStock to 0.
func (c *Catalog) Upsert(p ProductPatch) (bool, error) {
	if p.SKU == "" {
		return false, invalid("sku", "sku is required")
	}

	if existing, ok := c.items[p.SKU]; ok {
		if p.PackSize > 0 {
			existing.PackSize = p.PackSize
		}
		if p.Name != "" {
			existing.Name = p.Name
		}
		c.items[p.SKU] = existing
		return false, nil
	}

	product := models.Product{
		SKU:          p.SKU,
		Name:         p.Name,
		PackSize:     max(1, p.PackSize),
		InitialStock: models.IntPtr(0),
	}
	if p.Stock != nil {
		product.Stock = max(0, *p.Stock)
	}
	if p.InitialStock != nil {
		product.InitialStock = models.IntPtr(max(0, *p.InitialStock))
	}
	c.insert(product)
	return true, nil
}

// Put stores p under its SKU, replacing any existing record.
func (c *Catalog) Put(p models.Product) error {
	if p.SKU == "" {
		return invalid("sku", "sku is required")
	}
	if _, ok := c.items[p.SKU]; ok {
		c.items[p.SKU] = p.Clone()
		return nil
	}
	c.insert(p.Clone())
	return nil
}

func (c *Catalog) insert(p models.Product) {
	c.order = append(c.order, p.SKU)
	c.items[p.SKU] = p
}

func (c *Catalog) clone() *Catalog {
	out := &Catalog{
		order: make([]string, len(c.order)),
		items: make(map[string]models.Product, len(c.items)),
	}
	copy(out.order, c.order)
	for sku, p := range c.items {
		out.items[sku] = p.Clone()
	}
	return out
}
