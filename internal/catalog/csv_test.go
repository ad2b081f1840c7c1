package catalog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mekha7/mekha-store/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func priceOf(v float64) *float64 {
	return &v
}

func TestProductsCSVRoundTrip(t *testing.T) {
	products := []models.Product{
		{Name: "Dome Camera", Category: "Cameras", MRP: priceOf(1500), Price: priceOf(1200), Stock: 8, Description: "2MP\nindoor"},
		{Name: "HDMI Cable", Category: "Misc", Stock: 0},
	}

	data, err := ProductsCSV(products)
	require.NoError(t, err)

	parsed, err := ParseProductsCSV(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, parsed, 2)

	assert.Equal(t, "Dome Camera", parsed[0].Name)
	assert.Equal(t, "Cameras", parsed[0].Category)
	require.NotNil(t, parsed[0].Price)
	assert.Equal(t, 1200.0, *parsed[0].Price)
	assert.Equal(t, 8, parsed[0].Stock)
	assert.Equal(t, "2MP indoor", parsed[0].Description)

	assert.Nil(t, parsed[1].Price, "blank price imports as ask-price")
	assert.Nil(t, parsed[1].MRP)
	assert.Equal(t, 0, parsed[1].Stock)
}

func TestParseProductsCSVReorderedColumns(t *testing.T) {
	csv := "Stock,Price,Product Name,Category\n4,999.50,Bullet Camera,Cameras\n"

	parsed, err := ParseProductsCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, parsed, 1)

	assert.Equal(t, "Bullet Camera", parsed[0].Name)
	assert.Equal(t, "Cameras", parsed[0].Category)
	assert.Equal(t, 4, parsed[0].Stock)
	require.NotNil(t, parsed[0].Price)
	assert.Equal(t, 999.5, *parsed[0].Price)
}

func TestParseProductsCSVDefaultsAndSkips(t *testing.T) {
	csv := "Name,Category,MRP,Price,Stock,Description\n" +
		"Camera,,abc,-5,junk,\n" + // bad numerics fall back, blank category defaults
		",Cameras,,,,\n" // nameless row skipped

	parsed, err := ParseProductsCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, parsed, 1)

	assert.Equal(t, models.DefaultCategory, parsed[0].Category)
	assert.Nil(t, parsed[0].MRP)
	assert.Nil(t, parsed[0].Price, "non-positive price imports as ask-price")
	assert.Equal(t, 0, parsed[0].Stock)
}

func TestParseProductsCSVErrors(t *testing.T) {
	_, err := ParseProductsCSV(strings.NewReader("Category,Price\nCameras,5\n"))
	assert.Error(t, err, "missing name column")

	_, err = ParseProductsCSV(strings.NewReader("Name,Price\n"))
	assert.Error(t, err, "no data rows")
}
