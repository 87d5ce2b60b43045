package generation

import "strings"

// Catalog is an immutable, in-memory list of models owned by one provider.
type Catalog struct {
	providerID string
	models     []ProviderModel
}

// NewCatalog builds a catalog for providerID. Every model's Provider field is
// stamped with providerID so entries always match their owner.
func NewCatalog(providerID string, models ...ProviderModel) *Catalog {
	c := &Catalog{providerID: providerID, models: make([]ProviderModel, 0, len(models))}
	for _, m := range models {
		m = m.clone()
		m.Provider = providerID
		c.models = append(c.models, m)
	}
	return c
}

// Models returns a copy of every model in catalog order.
func (c *Catalog) Models() []ProviderModel {
	out := make([]ProviderModel, len(c.models))
	for i, m := range c.models {
		out[i] = m.clone()
	}
	return out
}

// Search returns the models whose name, id or description contains query,
// case-insensitively. An empty query matches everything.
func (c *Catalog) Search(query string) []ProviderModel {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]ProviderModel, 0)
	for _, m := range c.models {
		if strings.Contains(strings.ToLower(m.Name), q) ||
			strings.Contains(strings.ToLower(m.ID), q) ||
			strings.Contains(strings.ToLower(m.Description), q) {
			out = append(out, m.clone())
		}
	}
	return out
}

// Get looks up a model by exact id.
func (c *Catalog) Get(id string) (*ProviderModel, bool) {
	for _, m := range c.models {
		if m.ID == id {
			cp := m.clone()
			return &cp, true
		}
	}
	return nil, false
}

// Len returns the number of models.
func (c *Catalog) Len() int { return len(c.models) }
