package tiendanube

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unmarshalLS(t *testing.T, raw string) LocalizedString {
	t.Helper()
	var ls LocalizedString
	require.NoError(t, json.Unmarshal([]byte(raw), &ls))
	return ls
}

func TestLocalizedStringPlain(t *testing.T) {
	ls := unmarshalLS(t, `"Remera"`)
	assert.Equal(t, "Remera", ls.Resolve("es", "fallback"))
	assert.False(t, ls.IsZero())
}

func TestLocalizedStringMap(t *testing.T) {
	ls := unmarshalLS(t, `{"es":"Remera","en":"Tee","pt":"Camiseta"}`)

	assert.Equal(t, "Remera", ls.Resolve("es", "fallback"))
	assert.Equal(t, "Tee", ls.Resolve("en", "fallback"))
	// Unknown preferred language falls back to a deterministic choice.
	assert.Equal(t, "Tee", ls.Resolve("fr", "fallback"))
}

func TestLocalizedStringArrayTakesFirst(t *testing.T) {
	ls := unmarshalLS(t, `[{"es":"Frente"},{"es":"Dorso"}]`)
	assert.Equal(t, "Frente", ls.Resolve("es", "fallback"))

	ls = unmarshalLS(t, `["Frente","Dorso"]`)
	assert.Equal(t, "Frente", ls.Resolve("es", "fallback"))
}

func TestLocalizedStringNullAndEmpty(t *testing.T) {
	ls := unmarshalLS(t, `null`)
	assert.True(t, ls.IsZero())
	assert.Equal(t, "fallback", ls.Resolve("es", "fallback"))

	ls = unmarshalLS(t, `{}`)
	assert.Equal(t, "fallback", ls.Resolve("es", "fallback"))

	ls = unmarshalLS(t, `[]`)
	assert.True(t, ls.IsZero())
}

func TestLocalizedStringIgnoresScalars(t *testing.T) {
	ls := unmarshalLS(t, `42`)
	assert.True(t, ls.IsZero())
}

func TestLocalizedStringSkipsEmptyTranslations(t *testing.T) {
	ls := unmarshalLS(t, `{"es":"","en":"Tee"}`)
	assert.Equal(t, "Tee", ls.Resolve("es", "fallback"))
}

func TestProductPayloadDecodes(t *testing.T) {
	payload := `{
		"id": 101,
		"name": {"es": "Zapatilla"},
		"handle": {"es": "zapatilla"},
		"published": true,
		"free_shipping": true,
		"tags": "calzado, verano",
		"categories": [{"id": 3, "name": {"es": "Calzado"}}],
		"variants": [{"id": 7, "price": "4999.99", "stock": 12, "values": [{"es": "42"}]}],
		"images": [{"id": 9, "src": "https://cdn.example/z.jpg", "position": 1, "alt": []}]
	}`

	var p Product
	require.NoError(t, json.Unmarshal([]byte(payload), &p))

	assert.Equal(t, int64(101), p.ID)
	assert.Equal(t, "Zapatilla", p.Name.Resolve("es", ""))
	assert.True(t, p.FreeShipping)
	require.Len(t, p.Variants, 1)
	assert.Equal(t, "4999.99", p.Variants[0].Price)
	assert.Equal(t, "42", p.Variants[0].Values[0].Resolve("es", ""))
	require.Len(t, p.Images, 1)
	assert.True(t, p.Images[0].Alt.IsZero())
}
