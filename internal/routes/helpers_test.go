package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/redlineautoworks/mechanic-shop/internal/auth"
	"github.com/redlineautoworks/mechanic-shop/internal/config"
	dbpkg "github.com/redlineautoworks/mechanic-shop/internal/db"
	"github.com/redlineautoworks/mechanic-shop/internal/models"
)

const testJWTSecret = "test-secret"

func setupAPI(t *testing.T) (*gin.Engine, *gorm.DB, *auth.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(db))

	cfg := &config.Config{
		JWTSecret: testJWTSecret,
		TokenTTL:  time.Hour,
	}

	r := gin.New()
	RegisterRoutes(r, db, cfg)

	authSvc := auth.New(auth.Config{
		Secret:   []byte(cfg.JWTSecret),
		TokenTTL: cfg.TokenTTL,
	}, db)

	return r, db, authSvc
}

func doReq(
	t *testing.T,
	r *gin.Engine,
	method, path, token string,
	body any,
) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

var seedCounter int

func seedCustomer(t *testing.T, db *gorm.DB, svc *auth.Service) (*models.Customer, string) {
	t.Helper()
	seedCounter++
	c := &models.Customer{
		Name:  fmt.Sprintf("Customer %d", seedCounter),
		Email: fmt.Sprintf("customer%d@example.com", seedCounter),
		Phone: "555-0100",
		// not a real hash; login tests register through the API instead
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(c).Error)

	token, err := svc.IssueToken(c.ID, auth.RoleCustomer)
	require.NoError(t, err)
	return c, token
}

func seedMechanic(t *testing.T, db *gorm.DB, svc *auth.Service) (*models.Mechanic, string) {
	t.Helper()
	seedCounter++
	m := &models.Mechanic{
		Name:         fmt.Sprintf("Mechanic %d", seedCounter),
		Email:        fmt.Sprintf("mechanic%d@example.com", seedCounter),
		Phone:        "555-0200",
		PasswordHash: "x",
		Salary:       48000,
	}
	require.NoError(t, db.Create(m).Error)

	token, err := svc.IssueToken(m.ID, auth.RoleMechanic)
	require.NoError(t, err)
	return m, token
}

var vinCounter int

func nextVIN() string {
	vinCounter++
	return fmt.Sprintf("1HGBH41JXMN%06d", vinCounter)
}

func seedTicket(t *testing.T, db *gorm.DB, customer *models.Customer) *models.ServiceTicket {
	t.Helper()
	tk := &models.ServiceTicket{
		CustomerID:  customer.ID,
		ServiceDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Description: "Brake inspection",
		VIN:         nextVIN(),
		Status:      "Open",
	}
	require.NoError(t, db.Create(tk).Error)
	return tk
}

func seedPart(t *testing.T, db *gorm.DB, name string, qty int) *models.Part {
	t.Helper()
	p := &models.Part{
		Name:            name,
		Price:           19.99,
		QuantityInStock: qty,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func assignMechanicToTicket(t *testing.T, db *gorm.DB, tk *models.ServiceTicket, m *models.Mechanic) {
	t.Helper()
	require.NoError(t, db.Model(tk).Association("Mechanics").Append(m))
}

func seedLaborLog(t *testing.T, db *gorm.DB, tk *models.ServiceTicket, m *models.Mechanic, hours float64) *models.LaborLog {
	t.Helper()
	log := &models.LaborLog{
		TicketID:    tk.ID,
		MechanicID:  m.ID,
		HoursWorked: hours,
		DateLogged:  time.Now(),
	}
	require.NoError(t, db.Create(log).Error)
	return log
}

func joinCount(t *testing.T, db *gorm.DB, table, where string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table(table).Where(where, args...).Count(&n).Error)
	return n
}
