package routes

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redlineautoworks/mechanic-shop/internal/models"
)

func TestCreatePart(t *testing.T) {
	r, db, svc := setupAPI(t)
	_, mechToken := seedMechanic(t, db, svc)

	w := doReq(t, r, http.MethodPost, "/inventory", mechToken, map[string]any{
		"name":              "Brake pad set",
		"description":       "Front axle",
		"price":             54.90,
		"quantity_in_stock": 12,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "Brake pad set", body["name"])
	assert.Equal(t, float64(12), body["quantity_in_stock"])
}

func TestCreatePartValidation(t *testing.T) {
	r, db, svc := setupAPI(t)
	_, mechToken := seedMechanic(t, db, svc)

	cases := []map[string]any{
		{"name": "Free part", "price": 0, "quantity_in_stock": 1},
		{"name": "Negative price", "price": -5.0, "quantity_in_stock": 1},
		{"name": "Negative stock", "price": 10.0, "quantity_in_stock": -1},
		{"name": "  ", "price": 10.0, "quantity_in_stock": 1},
		{"price": 10.0, "quantity_in_stock": 1},
	}
	for _, payload := range cases {
		w := doReq(t, r, http.MethodPost, "/inventory", mechToken, payload)
		assert.Equal(t, http.StatusBadRequest, w.Code, "payload %v", payload)
	}
}

func TestCreatePartRequiresMechanicToken(t *testing.T) {
	r, db, svc := setupAPI(t)
	_, custToken := seedCustomer(t, db, svc)

	payload := map[string]any{"name": "Oil filter", "price": 9.0, "quantity_in_stock": 3}

	w := doReq(t, r, http.MethodPost, "/inventory", "", payload)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doReq(t, r, http.MethodPost, "/inventory", custToken, payload)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListAndGetPartsArePublic(t *testing.T) {
	r, db, svc := setupAPI(t)
	_ = svc
	p := seedPart(t, db, "Spark plug", 8)

	w := doReq(t, r, http.MethodGet, "/inventory", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["total"])

	w = doReq(t, r, http.MethodGet, fmt.Sprintf("/inventory/%d", p.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Spark plug", decodeBody(t, w)["name"])

	w = doReq(t, r, http.MethodGet, "/inventory/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdatePartPartial(t *testing.T) {
	r, db, svc := setupAPI(t)
	_, mechToken := seedMechanic(t, db, svc)
	p := seedPart(t, db, "Air filter", 4)

	path := fmt.Sprintf("/inventory/%d", p.ID)

	w := doReq(t, r, http.MethodPut, path, mechToken, map[string]any{"price": 24.50})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, 24.50, body["price"])
	assert.Equal(t, "Air filter", body["name"])
	assert.Equal(t, float64(4), body["quantity_in_stock"])

	// AddStock goes through the same partial update.
	w = doReq(t, r, http.MethodPut, path, mechToken, map[string]any{"quantity_in_stock": 10})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(10), decodeBody(t, w)["quantity_in_stock"])

	w = doReq(t, r, http.MethodPut, path, mechToken, map[string]any{"price": -1.0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveStock(t *testing.T) {
	r, db, svc := setupAPI(t)
	_, mechToken := seedMechanic(t, db, svc)
	p := seedPart(t, db, "Wiper blade", 5)

	path := fmt.Sprintf("/inventory/%d/remove_stock", p.ID)

	w := doReq(t, r, http.MethodPost, path, mechToken, map[string]any{"quantity": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(3), decodeBody(t, w)["quantity_in_stock"])

	// More than remains: rejected, stock echoed, nothing changes.
	w = doReq(t, r, http.MethodPost, path, mechToken, map[string]any{"quantity": 10})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "insufficient_stock", body["error_code"])
	assert.Equal(t, float64(3), body["quantity_in_stock"])

	var fresh models.Part
	require.NoError(t, db.First(&fresh, p.ID).Error)
	assert.Equal(t, 3, fresh.QuantityInStock)
}

func TestRemoveStockValidation(t *testing.T) {
	r, db, svc := setupAPI(t)
	_, mechToken := seedMechanic(t, db, svc)
	p := seedPart(t, db, "Coolant", 5)

	path := fmt.Sprintf("/inventory/%d/remove_stock", p.ID)

	w := doReq(t, r, http.MethodPost, path, mechToken, map[string]any{"quantity": 0})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_quantity", decodeBody(t, w)["error_code"])

	w = doReq(t, r, http.MethodPost, path, mechToken, map[string]any{"quantity": -3})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doReq(t, r, http.MethodPost, path, mechToken, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doReq(t, r, http.MethodPost, "/inventory/9999/remove_stock", mechToken, map[string]any{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddPartToTicketDecrementsOnce(t *testing.T) {
	r, db, svc := setupAPI(t)
	owner, _ := seedCustomer(t, db, svc)
	_, mechToken := seedMechanic(t, db, svc)
	tk := seedTicket(t, db, owner)
	p := seedPart(t, db, "Alternator", 3)

	path := fmt.Sprintf("/inventory/%d/add-to-ticket/%d", p.ID, tk.ID)

	w := doReq(t, r, http.MethodPost, path, mechToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, decodeBody(t, w)["message"], "added to ticket")

	// Re-attaching the same part is a no-op success and does not decrement.
	w = doReq(t, r, http.MethodPost, path, mechToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decodeBody(t, w)["message"], "already on ticket")

	var fresh models.Part
	require.NoError(t, db.First(&fresh, p.ID).Error)
	assert.Equal(t, 2, fresh.QuantityInStock)

	assert.Equal(t, int64(1), joinCount(t, db, "ticket_parts",
		"service_ticket_id = ? AND part_id = ?", tk.ID, p.ID))
}

func TestAddPartToTicketInsufficientStock(t *testing.T) {
	r, db, svc := setupAPI(t)
	owner, _ := seedCustomer(t, db, svc)
	_, mechToken := seedMechanic(t, db, svc)
	tk1 := seedTicket(t, db, owner)
	tk2 := seedTicket(t, db, owner)
	p := seedPart(t, db, "Head gasket", 1)

	w := doReq(t, r, http.MethodPost,
		fmt.Sprintf("/inventory/%d/add-to-ticket/%d", p.ID, tk1.ID), mechToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The last unit is gone; the second ticket cannot take the part and no
	// association is left behind.
	w = doReq(t, r, http.MethodPost,
		fmt.Sprintf("/inventory/%d/add-to-ticket/%d", p.ID, tk2.ID), mechToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "insufficient_stock", decodeBody(t, w)["error_code"])

	var fresh models.Part
	require.NoError(t, db.First(&fresh, p.ID).Error)
	assert.Equal(t, 0, fresh.QuantityInStock)

	assert.Equal(t, int64(0), joinCount(t, db, "ticket_parts",
		"service_ticket_id = ? AND part_id = ?", tk2.ID, p.ID))
}

func TestAddPartToTicketConcurrentLastUnit(t *testing.T) {
	r, db, svc := setupAPI(t)
	owner, _ := seedCustomer(t, db, svc)
	_, mechToken := seedMechanic(t, db, svc)
	p := seedPart(t, db, "Timing belt", 1)

	const attempts = 4
	tickets := make([]*models.ServiceTicket, attempts)
	for i := range tickets {
		tickets[i] = seedTicket(t, db, owner)
	}

	codes := make([]int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := doReq(t, r, http.MethodPost,
				fmt.Sprintf("/inventory/%d/add-to-ticket/%d", p.ID, tickets[i].ID), mechToken, nil)
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	// The last unit admits exactly one winner.
	won := 0
	for _, code := range codes {
		if code == http.StatusOK {
			won++
		}
	}
	assert.Equal(t, 1, won, "codes: %v", codes)

	var fresh models.Part
	require.NoError(t, db.First(&fresh, p.ID).Error)
	assert.Equal(t, 0, fresh.QuantityInStock)

	assert.Equal(t, int64(1), joinCount(t, db, "ticket_parts", "part_id = ?", p.ID))
}

func TestAddPartToTicketUnknownTargets(t *testing.T) {
	r, db, svc := setupAPI(t)
	owner, _ := seedCustomer(t, db, svc)
	_, mechToken := seedMechanic(t, db, svc)
	tk := seedTicket(t, db, owner)
	p := seedPart(t, db, "Radiator", 1)

	w := doReq(t, r, http.MethodPost,
		fmt.Sprintf("/inventory/9999/add-to-ticket/%d", tk.ID), mechToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "part_not_found", decodeBody(t, w)["error_code"])

	w = doReq(t, r, http.MethodPost,
		fmt.Sprintf("/inventory/%d/add-to-ticket/9999", p.ID), mechToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ticket_not_found", decodeBody(t, w)["error_code"])
}

func TestDeletePartClearsAssociations(t *testing.T) {
	r, db, svc := setupAPI(t)
	owner, _ := seedCustomer(t, db, svc)
	_, mechToken := seedMechanic(t, db, svc)
	tk := seedTicket(t, db, owner)
	p := seedPart(t, db, "Fuel pump", 2)

	w := doReq(t, r, http.MethodPost,
		fmt.Sprintf("/inventory/%d/add-to-ticket/%d", p.ID, tk.ID), mechToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doReq(t, r, http.MethodDelete, fmt.Sprintf("/inventory/%d", p.ID), mechToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var count int64
	require.NoError(t, db.Model(&models.Part{}).Where("id = ?", p.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	assert.Equal(t, int64(0), joinCount(t, db, "ticket_parts", "part_id = ?", p.ID))
}
