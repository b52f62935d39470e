package routes

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redlineautoworks/mechanic-shop/internal/models"
)

func TestCreateTicket(t *testing.T) {
	r, db, svc := setupAPI(t)
	customer, token := seedCustomer(t, db, svc)

	vin := strings.ToLower(nextVIN())
	w := doReq(t, r, http.MethodPost, "/service-tickets", token, map[string]any{
		"service_date": "2025-04-01",
		"description":  "Timing belt replacement",
		"vin":          vin,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, strings.ToUpper(vin), body["vin"])
	assert.Equal(t, "Open", body["status"])
	assert.Equal(t, float64(customer.ID), body["customer_id"])
	assert.Nil(t, body["date_completed"])
}

func TestCreateTicketRequiresCustomerToken(t *testing.T) {
	r, db, svc := setupAPI(t)
	_, mechToken := seedMechanic(t, db, svc)

	w := doReq(t, r, http.MethodPost, "/service-tickets", "", map[string]any{
		"service_date": "2025-04-01",
		"description":  "No token",
		"vin":          nextVIN(),
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doReq(t, r, http.MethodPost, "/service-tickets", mechToken, map[string]any{
		"service_date": "2025-04-01",
		"description":  "Mechanic token",
		"vin":          nextVIN(),
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateTicketInvalidVIN(t *testing.T) {
	r, db, svc := setupAPI(t)
	_, token := seedCustomer(t, db, svc)

	w := doReq(t, r, http.MethodPost, "/service-tickets", token, map[string]any{
		"service_date": "2025-04-01",
		"description":  "Bad VIN",
		"vin":          "IOQ123", // wrong length and excluded letters
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_vin", decodeBody(t, w)["error_code"])
}

func TestCreateTicketDuplicateVIN(t *testing.T) {
	r, db, svc := setupAPI(t)
	_, token := seedCustomer(t, db, svc)

	vin := nextVIN()
	payload := map[string]any{
		"service_date": "2025-04-01",
		"description":  "First ticket",
		"vin":          vin,
	}
	w := doReq(t, r, http.MethodPost, "/service-tickets", token, payload)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doReq(t, r, http.MethodPost, "/service-tickets", token, payload)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, "duplicate_vin", decodeBody(t, w)["error_code"])
}

func TestUpdateTicketOwnerOnly(t *testing.T) {
	r, db, svc := setupAPI(t)
	owner, ownerToken := seedCustomer(t, db, svc)
	_, otherToken := seedCustomer(t, db, svc)
	tk := seedTicket(t, db, owner)

	path := fmt.Sprintf("/service-tickets/%d", tk.ID)

	w := doReq(t, r, http.MethodPut, path, otherToken, map[string]any{
		"description": "hijacked",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doReq(t, r, http.MethodPut, path, ownerToken, map[string]any{
		"description": "Brake pads and rotors",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Brake pads and rotors", decodeBody(t, w)["description"])
}

func TestUpdateTicketCompletedSetsDateCompleted(t *testing.T) {
	r, db, svc := setupAPI(t)
	owner, token := seedCustomer(t, db, svc)
	tk := seedTicket(t, db, owner)

	path := fmt.Sprintf("/service-tickets/%d", tk.ID)

	w := doReq(t, r, http.MethodPut, path, token, map[string]any{"status": "Completed"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Completed", body["status"])
	assert.NotNil(t, body["date_completed"])

	// Reopening clears the completion timestamp.
	w = doReq(t, r, http.MethodPut, path, token, map[string]any{"status": "In Progress"})
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, "In Progress", body["status"])
	assert.Nil(t, body["date_completed"])
}

func TestUpdateTicketDescriptionTooLong(t *testing.T) {
	r, db, svc := setupAPI(t)
	owner, token := seedCustomer(t, db, svc)
	tk := seedTicket(t, db, owner)

	w := doReq(t, r, http.MethodPut, fmt.Sprintf("/service-tickets/%d", tk.ID), token, map[string]any{
		"description": strings.Repeat("x", 501),
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "validation_error", decodeBody(t, w)["error_code"])

	var fresh models.ServiceTicket
	require.NoError(t, db.First(&fresh, tk.ID).Error)
	assert.Equal(t, "Brake inspection", fresh.Description)
}

func TestUpdateTicketNotFound(t *testing.T) {
	r, db, svc := setupAPI(t)
	_, token := seedCustomer(t, db, svc)

	w := doReq(t, r, http.MethodPut, "/service-tickets/9999", token, map[string]any{
		"description": "ghost",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAndListTicketsArePublic(t *testing.T) {
	r, db, svc := setupAPI(t)
	owner, _ := seedCustomer(t, db, svc)
	tk := seedTicket(t, db, owner)

	w := doReq(t, r, http.MethodGet, "/service-tickets", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["total"])

	w = doReq(t, r, http.MethodGet, fmt.Sprintf("/service-tickets/%d", tk.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, tk.VIN, decodeBody(t, w)["vin"])

	w = doReq(t, r, http.MethodGet, "/service-tickets/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssignMechanicIsIdempotent(t *testing.T) {
	r, db, svc := setupAPI(t)
	owner, _ := seedCustomer(t, db, svc)
	mech, mechToken := seedMechanic(t, db, svc)
	tk := seedTicket(t, db, owner)

	path := fmt.Sprintf("/service-tickets/%d/assign-mechanic/%d", tk.ID, mech.ID)

	w := doReq(t, r, http.MethodPut, path, mechToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, decodeBody(t, w)["message"], "assigned to ticket")

	// Second call succeeds without a second join row.
	w = doReq(t, r, http.MethodPut, path, mechToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decodeBody(t, w)["message"], "already assigned")

	n := joinCount(t, db, "ticket_mechanics",
		"service_ticket_id = ? AND mechanic_id = ?", tk.ID, mech.ID)
	assert.Equal(t, int64(1), n)
}

func TestAssignMechanicUnknownTargets(t *testing.T) {
	r, db, svc := setupAPI(t)
	owner, _ := seedCustomer(t, db, svc)
	mech, mechToken := seedMechanic(t, db, svc)
	tk := seedTicket(t, db, owner)

	w := doReq(t, r, http.MethodPut,
		fmt.Sprintf("/service-tickets/9999/assign-mechanic/%d", mech.ID), mechToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doReq(t, r, http.MethodPut,
		fmt.Sprintf("/service-tickets/%d/assign-mechanic/9999", tk.ID), mechToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssignMechanicRequiresMechanicToken(t *testing.T) {
	r, db, svc := setupAPI(t)
	owner, custToken := seedCustomer(t, db, svc)
	mech, _ := seedMechanic(t, db, svc)
	tk := seedTicket(t, db, owner)

	w := doReq(t, r, http.MethodPut,
		fmt.Sprintf("/service-tickets/%d/assign-mechanic/%d", tk.ID, mech.ID), custToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRemoveMechanic(t *testing.T) {
	r, db, svc := setupAPI(t)
	owner, _ := seedCustomer(t, db, svc)
	mech, mechToken := seedMechanic(t, db, svc)
	tk := seedTicket(t, db, owner)

	path := fmt.Sprintf("/service-tickets/%d/remove-mechanic/%d", tk.ID, mech.ID)

	// Removing a mechanic that was never assigned is a 404.
	w := doReq(t, r, http.MethodPut, path, mechToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "mechanic_not_assigned", decodeBody(t, w)["error_code"])

	assignMechanicToTicket(t, db, tk, mech)

	w = doReq(t, r, http.MethodPut, path, mechToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, decodeBody(t, w)["message"], "removed from ticket")

	n := joinCount(t, db, "ticket_mechanics",
		"service_ticket_id = ? AND mechanic_id = ?", tk.ID, mech.ID)
	assert.Equal(t, int64(0), n)

	// Removing again returns to the 404 path.
	w = doReq(t, r, http.MethodPut, path, mechToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditMechanics(t *testing.T) {
	r, db, svc := setupAPI(t)
	owner, ownerToken := seedCustomer(t, db, svc)
	mechA, _ := seedMechanic(t, db, svc)
	mechB, _ := seedMechanic(t, db, svc)
	tk := seedTicket(t, db, owner)
	assignMechanicToTicket(t, db, tk, mechA)

	path := fmt.Sprintf("/service-tickets/%d/edit-mechanics", tk.ID)

	// Unknown ids in either list are skipped silently.
	w := doReq(t, r, http.MethodPut, path, ownerToken, map[string]any{
		"add_mechanic_ids":    []uint{mechB.ID, 9999},
		"remove_mechanic_ids": []uint{mechA.ID, 8888},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, int64(0), joinCount(t, db, "ticket_mechanics",
		"service_ticket_id = ? AND mechanic_id = ?", tk.ID, mechA.ID))
	assert.Equal(t, int64(1), joinCount(t, db, "ticket_mechanics",
		"service_ticket_id = ? AND mechanic_id = ?", tk.ID, mechB.ID))
}

func TestEditMechanicsOwnerOnly(t *testing.T) {
	r, db, svc := setupAPI(t)
	owner, _ := seedCustomer(t, db, svc)
	_, otherToken := seedCustomer(t, db, svc)
	mech, _ := seedMechanic(t, db, svc)
	tk := seedTicket(t, db, owner)

	w := doReq(t, r, http.MethodPut,
		fmt.Sprintf("/service-tickets/%d/edit-mechanics", tk.ID), otherToken, map[string]any{
			"add_mechanic_ids": []uint{mech.ID},
		})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteTicketOwnerOnly(t *testing.T) {
	r, db, svc := setupAPI(t)
	owner, ownerToken := seedCustomer(t, db, svc)
	_, otherToken := seedCustomer(t, db, svc)
	mech, _ := seedMechanic(t, db, svc)
	tk := seedTicket(t, db, owner)
	assignMechanicToTicket(t, db, tk, mech)
	seedLaborLog(t, db, tk, mech, 2.5)

	path := fmt.Sprintf("/service-tickets/%d", tk.ID)

	w := doReq(t, r, http.MethodDelete, path, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doReq(t, r, http.MethodDelete, path, ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var ticketCount int64
	require.NoError(t, db.Model(&models.ServiceTicket{}).
		Where("id = ?", tk.ID).Count(&ticketCount).Error)
	assert.Equal(t, int64(0), ticketCount)

	var logCount int64
	require.NoError(t, db.Model(&models.LaborLog{}).
		Where("ticket_id = ?", tk.ID).Count(&logCount).Error)
	assert.Equal(t, int64(0), logCount)

	assert.Equal(t, int64(0), joinCount(t, db, "ticket_mechanics",
		"service_ticket_id = ?", tk.ID))
}

func TestAddLaborLog(t *testing.T) {
	r, db, svc := setupAPI(t)
	owner, _ := seedCustomer(t, db, svc)
	mech, mechToken := seedMechanic(t, db, svc)
	tk := seedTicket(t, db, owner)
	assignMechanicToTicket(t, db, tk, mech)

	path := fmt.Sprintf("/service-tickets/%d/labor", tk.ID)

	w := doReq(t, r, http.MethodPost, path, mechToken, map[string]any{
		"mechanic_id":  mech.ID,
		"hours_worked": 3.5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, float64(mech.ID), body["mechanic_id"])
	assert.Equal(t, 3.5, body["hours_worked"])
	assert.NotEmpty(t, body["date_logged"])
}

func TestAddLaborLogForAnotherMechanicIsForbidden(t *testing.T) {
	r, db, svc := setupAPI(t)
	owner, _ := seedCustomer(t, db, svc)
	mechA, tokenA := seedMechanic(t, db, svc)
	mechB, _ := seedMechanic(t, db, svc)
	tk := seedTicket(t, db, owner)
	assignMechanicToTicket(t, db, tk, mechA)
	assignMechanicToTicket(t, db, tk, mechB)

	w := doReq(t, r, http.MethodPost,
		fmt.Sprintf("/service-tickets/%d/labor", tk.ID), tokenA, map[string]any{
			"mechanic_id":  mechB.ID,
			"hours_worked": 2.0,
		})
	require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	assert.Equal(t, "forbidden", decodeBody(t, w)["error_code"])
}

func TestAddLaborLogRules(t *testing.T) {
	r, db, svc := setupAPI(t)
	owner, _ := seedCustomer(t, db, svc)
	mech, mechToken := seedMechanic(t, db, svc)
	outsider, _ := seedMechanic(t, db, svc)
	tk := seedTicket(t, db, owner)
	assignMechanicToTicket(t, db, tk, mech)

	path := fmt.Sprintf("/service-tickets/%d/labor", tk.ID)

	// Ticket must exist.
	w := doReq(t, r, http.MethodPost, "/service-tickets/9999/labor", mechToken, map[string]any{
		"mechanic_id":  mech.ID,
		"hours_worked": 1.0,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Target mechanic must exist.
	w = doReq(t, r, http.MethodPost, path, mechToken, map[string]any{
		"mechanic_id":  9999,
		"hours_worked": 1.0,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Target must be assigned to the ticket; that check precedes the
	// self-logging rule, so an unassigned outsider yields a 400.
	w = doReq(t, r, http.MethodPost, path, mechToken, map[string]any{
		"mechanic_id":  outsider.ID,
		"hours_worked": 1.0,
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "mechanic_not_assigned", decodeBody(t, w)["error_code"])

	// Hours cannot be negative.
	w = doReq(t, r, http.MethodPost, path, mechToken, map[string]any{
		"mechanic_id":  mech.ID,
		"hours_worked": -1.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing fields fail binding.
	w = doReq(t, r, http.MethodPost, path, mechToken, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateLaborLogOwnerOnly(t *testing.T) {
	r, db, svc := setupAPI(t)
	owner, _ := seedCustomer(t, db, svc)
	mechA, tokenA := seedMechanic(t, db, svc)
	_, tokenB := seedMechanic(t, db, svc)
	tk := seedTicket(t, db, owner)
	assignMechanicToTicket(t, db, tk, mechA)
	log := seedLaborLog(t, db, tk, mechA, 2.0)

	path := fmt.Sprintf("/labor/%d", log.ID)

	w := doReq(t, r, http.MethodPut, path, tokenB, map[string]any{"hours_worked": 5.0})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doReq(t, r, http.MethodPut, path, tokenA, map[string]any{"hours_worked": 5.0})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 5.0, decodeBody(t, w)["hours_worked"])

	w = doReq(t, r, http.MethodPut, path, tokenA, map[string]any{"hours_worked": -1.0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doReq(t, r, http.MethodPut, "/labor/9999", tokenA, map[string]any{"hours_worked": 1.0})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteLaborLogOwnerOnly(t *testing.T) {
	r, db, svc := setupAPI(t)
	owner, _ := seedCustomer(t, db, svc)
	mechA, tokenA := seedMechanic(t, db, svc)
	_, tokenB := seedMechanic(t, db, svc)
	tk := seedTicket(t, db, owner)
	assignMechanicToTicket(t, db, tk, mechA)
	log := seedLaborLog(t, db, tk, mechA, 2.0)

	path := fmt.Sprintf("/labor/%d", log.ID)

	w := doReq(t, r, http.MethodDelete, path, tokenB, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doReq(t, r, http.MethodDelete, path, tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.LaborLog{}).
		Where("id = ?", log.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestTicketListPagination(t *testing.T) {
	r, db, svc := setupAPI(t)
	owner, _ := seedCustomer(t, db, svc)
	for i := 0; i < 5; i++ {
		seedTicket(t, db, owner)
	}

	w := doReq(t, r, http.MethodGet, "/service-tickets?page=1&per_page=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeBody(t, w)["total"])

	w = doReq(t, r, http.MethodGet, "/service-tickets?page=3&per_page=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["total"])
}
