package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mihigojordan/Abysphere-sub003/internal/application/dto"
)

func TestReceiveStock_SKUDuplicado_Retorna409(t *testing.T) {
	a := newAPITest(t)
	a.seed()

	resp := a.do(http.MethodPost, "/api/stock", a.admin, map[string]any{"sku": "SKU-1", "itemName": "otro", "quantity": "1"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", decode[dto.ErrorResponse](t, resp).Code)
}

func TestAdjust_SoloAdmin(t *testing.T) {
	a := newAPITest(t)
	stockID, _ := a.seed()

	resp := a.do(http.MethodPost, "/api/stock/"+stockID+"/adjust", a.emp, map[string]any{"delta": "1"})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = a.do(http.MethodPost, "/api/stock/"+stockID+"/adjust", a.admin, map[string]any{"delta": "-2", "note": "merma"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "4", decode[dto.StockItemResponse](t, resp).Quantity.String())

	resp = a.do(http.MethodPost, "/api/stock/"+stockID+"/adjust", a.admin, map[string]any{"delta": "-100"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestRecordStockOut_StockInsuficiente_Retorna409(t *testing.T) {
	a := newAPITest(t)
	stockID, _ := a.seed()

	resp := a.do(http.MethodPost, "/api/stock-outs", a.emp, map[string]any{"stockId": stockID, "quantity": "7"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decode[dto.ErrorResponse](t, resp).Code)
}

func TestStockHistory_SinFiltro_Retorna400(t *testing.T) {
	a := newAPITest(t)
	resp := a.do(http.MethodGet, "/api/stock-history", a.admin, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = a.do(http.MethodGet, "/api/stock-history?type=OUT", a.admin, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestLowStockYPorSKU(t *testing.T) {
	a := newAPITest(t)
	a.seed()

	resp := a.do(http.MethodGet, "/api/stock/sku/SKU-1", a.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "6", decode[dto.StockItemResponse](t, resp).Quantity.String())

	resp = a.do(http.MethodGet, "/api/stock/low", a.admin, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
