package generation

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func testCatalog() *Catalog {
	return NewCatalog("acme",
		ProviderModel{
			ID:           "acme/flux-dev",
			Name:         "FLUX Dev",
			Description:  "High quality images",
			Provider:     "someone-else",
			Capabilities: []Capability{CapabilityTextToImage},
			Pricing:      &Pricing{Type: PricingPerRun, Amount: decimal.RequireFromString("0.025"), Currency: "USD"},
		},
		ProviderModel{
			ID:           "acme/painter",
			Name:         "Painter",
			Description:  "Oil painting style",
			Capabilities: []Capability{CapabilityTextToImage, CapabilityImageToImage},
		},
		ProviderModel{
			ID:           "acme/motion",
			Name:         "Motion",
			Description:  "Short clips",
			Capabilities: []Capability{CapabilityTextToVideo},
		},
	)
}

func TestCatalog_StampsProvider(t *testing.T) {
	for _, m := range testCatalog().Models() {
		assert.Equal(t, "acme", m.Provider)
	}
}

func TestCatalog_Search(t *testing.T) {
	c := testCatalog()

	ids := func(ms []ProviderModel) []string {
		out := make([]string, 0, len(ms))
		for _, m := range ms {
			out = append(out, m.ID)
		}
		return out
	}

	assert.Equal(t, []string{"acme/flux-dev"}, ids(c.Search("FLUX")))
	assert.Equal(t, []string{"acme/painter"}, ids(c.Search("oil")), "description matches")
	assert.Equal(t, []string{"acme/motion"}, ids(c.Search("ACME/MOT")), "id matches")
	assert.Len(t, c.Search(""), 3)
	assert.Empty(t, c.Search("nothing-here"))
	assert.NotNil(t, c.Search("nothing-here"))
}

func TestCatalog_Get(t *testing.T) {
	c := testCatalog()

	m, ok := c.Get("acme/painter")
	require.True(t, ok)
	assert.Equal(t, "Painter", m.Name)
	assert.True(t, m.HasCapability(CapabilityImageToImage))
	assert.False(t, m.HasCapability(CapabilityTextToVideo))

	_, ok = c.Get("acme/PAINTER")
	assert.False(t, ok)
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	c := testCatalog()

	models := c.Models()
	models[0].Name = "mutated"
	models[0].Capabilities[0] = CapabilityTextToVideo
	models[0].Pricing.Currency = "EUR"

	m, ok := c.Get("acme/flux-dev")
	require.True(t, ok)
	assert.Equal(t, "FLUX Dev", m.Name)
	assert.Equal(t, CapabilityTextToImage, m.Capabilities[0])
	assert.Equal(t, "USD", m.Pricing.Currency)
	assert.True(t, m.Pricing.Amount.Equal(decimal.RequireFromString("0.025")))
}

// 属性：Search 的结果恰好是 name/id/description 中包含查询串（忽略大小写）的条目。
func TestProperty_Catalog_SearchMatchesSubstring(t *testing.T) {
	c := testCatalog()
	all := c.Models()

	rapid.Check(t, func(rt *rapid.T) {
		q := rapid.StringMatching(`[a-zA-Z/ -]{0,6}`).Draw(rt, "query")
		got := c.Search(q)

		needle := strings.ToLower(strings.TrimSpace(q))
		want := 0
		for _, m := range all {
			if strings.Contains(strings.ToLower(m.Name), needle) ||
				strings.Contains(strings.ToLower(m.ID), needle) ||
				strings.Contains(strings.ToLower(m.Description), needle) {
				want++
			}
		}
		if len(got) != want {
			rt.Fatalf("query %q: expected %d matches, got %d", q, want, len(got))
		}
	})
}
