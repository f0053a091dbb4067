package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/obra-stock-api/internal/application/dto"
	"github.com/jhoicas/obra-stock-api/internal/application/inventory"
	"github.com/jhoicas/obra-stock-api/internal/application/usecase"
	"github.com/jhoicas/obra-stock-api/internal/infrastructure/lock"
	"github.com/jhoicas/obra-stock-api/internal/infrastructure/memory"
	"github.com/jhoicas/obra-stock-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/obra-stock-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/obra-stock-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor de prueba: router completo sobre almacenamiento en memoria
// ──────────────────────────────────────────────────────────────────────────────

type testServer struct {
	t   *testing.T
	app *fiber.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	locker := lock.NewKeyedLocker()
	items := memory.NewItemRepository(store)
	projects := memory.NewProjectRepository(store)
	mrs := memory.NewMaterialRequestRepository(store)

	ledger := inventory.NewStockLedgerUseCase(inventory.StockLedgerDeps{
		TxRunner:         memory.NewTxRunner(store),
		Locker:           locker,
		Items:            items,
		Projects:         projects,
		MaterialRequests: mrs,
		Balances:         memory.NewBalanceRepository(store),
		Ledger:           memory.NewLedgerRepository(store),
		GRNs:             memory.NewGRNRepository(store),
		Issues:           memory.NewStockIssueRepository(store),
		PDF:              pdf.NewMarotoGRNGenerator(),
		Logger:           zerolog.Nop(),
	})

	app := fiber.New()
	app.Get("/health", apphttp.Health(store, "memory"))
	apphttp.Router(app, apphttp.RouterDeps{
		ItemUC:            usecase.NewItemUseCase(items),
		ProjectUC:         usecase.NewProjectUseCase(projects),
		MaterialRequestUC: usecase.NewMaterialRequestUseCase(mrs, projects, items, locker),
		StockLedger:       ledger,
		JWTSecret:         testJWTSecret,
	})
	return &testServer{t: t, app: app}
}

// do envía la petición con un token del rol indicado; role vacío = sin Authorization.
func (s *testServer) do(method, path, role string, body any) *http.Response {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenFor(s.t, "user-"+role, role))
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// seedCatalog crea un item y dos obras por la API.
func (s *testServer) seedCatalog() (itemID, projectA, projectB string) {
	s.t.Helper()
	resp := s.do(http.MethodPost, "/api/items", pkgjwt.RoleAdmin, map[string]any{"name": "Cemento", "unit": "bag"})
	require.Equal(s.t, http.StatusCreated, resp.StatusCode)
	item := decodeBody[dto.ItemResponse](s.t, resp)

	resp = s.do(http.MethodPost, "/api/projects", pkgjwt.RoleAdmin, map[string]any{"name": "Torre A", "code": "TA"})
	require.Equal(s.t, http.StatusCreated, resp.StatusCode)
	a := decodeBody[dto.ProjectResponse](s.t, resp)

	resp = s.do(http.MethodPost, "/api/projects", pkgjwt.RoleAdmin, map[string]any{"name": "Torre B", "code": "TB"})
	require.Equal(s.t, http.StatusCreated, resp.StatusCode)
	b := decodeBody[dto.ProjectResponse](s.t, resp)
	return item.ID, a.ID, b.ID
}

// receive crea una solicitud, la aprueba, la ordena y recibe received/damaged.
func (s *testServer) receive(projectID, itemID string, requested, received, damaged int64) dto.GRNResponse {
	s.t.Helper()
	resp := s.do(http.MethodPost, "/api/material-requests", pkgjwt.RoleSupervisor, map[string]any{
		"project_id": projectID,
		"items":      []map[string]any{{"item_id": itemID, "requested_qty": requested}},
	})
	require.Equal(s.t, http.StatusCreated, resp.StatusCode)
	mr := decodeBody[dto.MaterialRequestResponse](s.t, resp)

	resp = s.do(http.MethodPatch, "/api/material-requests/"+mr.ID+"/approve", pkgjwt.RoleManager, nil)
	require.Equal(s.t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = s.do(http.MethodPatch, "/api/material-requests/"+mr.ID+"/order", pkgjwt.RoleManager, map[string]any{"po_number": "PO-77"})
	require.Equal(s.t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodPost, "/api/grn", pkgjwt.RoleStorekeeper, map[string]any{
		"material_request_id": mr.ID,
		"items": []map[string]any{{
			"item_id":      itemID,
			"received_qty": received,
			"damaged_qty":  damaged,
		}},
	})
	require.Equal(s.t, http.StatusCreated, resp.StatusCode)
	return decodeBody[dto.GRNResponse](s.t, resp)
}

func (s *testServer) stockOf(projectID, itemID string) decimal.Decimal {
	s.t.Helper()
	resp := s.do(http.MethodGet, "/api/projects/"+projectID+"/stock", pkgjwt.RoleStorekeeper, nil)
	require.Equal(s.t, http.StatusOK, resp.StatusCode)
	stock := decodeBody[dto.ProjectStockResponse](s.t, resp)
	for _, l := range stock.Items {
		if l.ItemID == itemID {
			return l.Qty
		}
	}
	return decimal.Zero
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujos
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth_MemoriaResponde200(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(http.MethodGet, "/health", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_SinTokenRetorna401(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(http.MethodGet, "/api/items", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGRN_RecibeYLuegoConsume(t *testing.T) {
	s := newTestServer(t)
	itemID, projectA, _ := s.seedCatalog()

	grn := s.receive(projectA, itemID, 100, 100, 0)
	assert.Equal(t, "completed", grn.MaterialRequestStatus)
	assert.Equal(t, "PO-77", grn.PONumber)
	require.Len(t, grn.Entries, 1)
	assert.True(t, grn.Entries[0].BalanceQty.Equal(decimal.NewFromInt(100)))

	resp := s.do(http.MethodPost, "/api/stock/consumption", pkgjwt.RoleStorekeeper, map[string]any{
		"project_id": projectA,
		"items":      []map[string]any{{"item_id": itemID, "qty": 30}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	doc := decodeBody[dto.StockIssueResponse](t, resp)
	assert.Equal(t, "CONSUMPTION", doc.Type)
	assert.Regexp(t, `^CONS-\d+$`, doc.ReferenceNumber)
	require.Len(t, doc.Entries, 1)
	assert.True(t, doc.Entries[0].QtyOut.Equal(decimal.NewFromInt(30)))
	assert.True(t, doc.Entries[0].BalanceQty.Equal(decimal.NewFromInt(70)))

	assert.True(t, s.stockOf(projectA, itemID).Equal(decimal.NewFromInt(70)))

	resp = s.do(http.MethodGet, "/api/projects/"+projectA+"/transactions", pkgjwt.RoleStorekeeper, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	txs := decodeBody[dto.LedgerListResponse](t, resp)
	require.Len(t, txs.Items, 2)
	assert.Equal(t, "CONSUMPTION", txs.Items[0].TransactionType)
	assert.Equal(t, "GRN", txs.Items[1].TransactionType)
}

func TestGRN_DañadoNoSumaAlSaldo(t *testing.T) {
	s := newTestServer(t)
	itemID, projectA, _ := s.seedCatalog()

	grn := s.receive(projectA, itemID, 50, 50, 5)
	require.Len(t, grn.Items, 1)
	assert.True(t, grn.Items[0].AcceptedQty.Equal(decimal.NewFromInt(45)))

	resp := s.do(http.MethodGet, "/api/projects/"+projectA+"/stock", pkgjwt.RoleStorekeeper, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stock := decodeBody[dto.ProjectStockResponse](t, resp)
	require.Len(t, stock.Items, 1)
	assert.True(t, stock.Items[0].Qty.Equal(decimal.NewFromInt(45)))
	assert.True(t, stock.Items[0].Damaged.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "Cemento", stock.Items[0].Name)
}

func TestStock_SobreconsumoRetorna409ConLinea(t *testing.T) {
	s := newTestServer(t)
	itemID, projectA, _ := s.seedCatalog()
	s.receive(projectA, itemID, 10, 10, 0)

	resp := s.do(http.MethodPost, "/api/stock/issue", pkgjwt.RoleStorekeeper, map[string]any{
		"project_id": projectA,
		"items": []map[string]any{
			{"item_id": itemID, "qty": 4},
			{"item_id": itemID, "qty": 11},
		},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decodeBody[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	details, ok := body.Details.(map[string]any)
	require.True(t, ok, "details debe traer la línea que falló")
	assert.EqualValues(t, 1, details["line"])
	assert.Equal(t, itemID, details["item_id"])

	// ninguna línea del lote quedó aplicada
	assert.True(t, s.stockOf(projectA, itemID).Equal(decimal.NewFromInt(10)))
}

func TestStock_TrasladoEntreObras(t *testing.T) {
	s := newTestServer(t)
	itemID, projectA, projectB := s.seedCatalog()
	s.receive(projectA, itemID, 20, 20, 0)

	resp := s.do(http.MethodPost, "/api/stock/transfer", pkgjwt.RoleStorekeeper, map[string]any{
		"from_project_id": projectA,
		"to_project_id":   projectB,
		"item_id":         itemID,
		"qty":             8,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decodeBody[dto.TransferResponse](t, resp)
	assert.True(t, out.FromBalance.Qty.Equal(decimal.NewFromInt(12)))
	assert.True(t, out.ToBalance.Qty.Equal(decimal.NewFromInt(8)))
	assert.Equal(t, projectA, out.Entry.FromProject)
	assert.Equal(t, projectB, out.Entry.ToProject)
	assert.Regexp(t, `^TRF-\d+$`, out.Entry.ReferenceNumber)

	// el destino ve el traslado como entrada
	resp = s.do(http.MethodGet, "/api/items/"+itemID+"/history?project_id="+projectB, pkgjwt.RoleStorekeeper, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	hist := decodeBody[dto.LedgerListResponse](t, resp)
	require.Len(t, hist.Items, 1)
	assert.True(t, hist.Items[0].QtyIn.Equal(decimal.NewFromInt(8)))
	assert.True(t, hist.Items[0].BalanceQty.Equal(decimal.NewFromInt(8)))
}

func TestStock_TrasladoMismaObraRetorna400(t *testing.T) {
	s := newTestServer(t)
	itemID, projectA, _ := s.seedCatalog()

	resp := s.do(http.MethodPost, "/api/stock/transfer", pkgjwt.RoleStorekeeper, map[string]any{
		"from_project_id": projectA,
		"to_project_id":   projectA,
		"item_id":         itemID,
		"qty":             1,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStock_DevolucionSinSaldoRetorna409(t *testing.T) {
	s := newTestServer(t)
	itemID, projectA, _ := s.seedCatalog()

	resp := s.do(http.MethodPost, "/api/stock/return", pkgjwt.RoleStorekeeper, map[string]any{
		"project_id": projectA,
		"item_id":    itemID,
		"qty":        1,
	})
	body := decodeBody[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
}

func TestStock_ObraInexistenteRetorna404(t *testing.T) {
	s := newTestServer(t)
	itemID, _, _ := s.seedCatalog()

	resp := s.do(http.MethodPost, "/api/stock/issue", pkgjwt.RoleStorekeeper, map[string]any{
		"project_id": "no-existe",
		"items":      []map[string]any{{"item_id": itemID, "qty": 1}},
	})
	body := decodeBody[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestStock_CuerpoSinItemsRetorna400(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(http.MethodPost, "/api/stock/issue", pkgjwt.RoleStorekeeper, map[string]any{"project_id": "p"})
	body := decodeBody[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Message, "items")
}

func TestMaterialRequest_SupervisorNoPuedeAprobar(t *testing.T) {
	s := newTestServer(t)
	itemID, projectA, _ := s.seedCatalog()

	resp := s.do(http.MethodPost, "/api/material-requests", pkgjwt.RoleSupervisor, map[string]any{
		"project_id": projectA,
		"items":      []map[string]any{{"item_id": itemID, "requested_qty": 5}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	mr := decodeBody[dto.MaterialRequestResponse](t, resp)
	assert.Equal(t, "pending", mr.Status)
	assert.Equal(t, "user-supervisor", mr.RequestedBy)

	resp = s.do(http.MethodPatch, "/api/material-requests/"+mr.ID+"/approve", pkgjwt.RoleSupervisor, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestMaterialRequest_TransicionInvalidaRetorna409(t *testing.T) {
	s := newTestServer(t)
	itemID, projectA, _ := s.seedCatalog()

	resp := s.do(http.MethodPost, "/api/material-requests", pkgjwt.RoleSupervisor, map[string]any{
		"project_id": projectA,
		"items":      []map[string]any{{"item_id": itemID, "requested_qty": 5}},
	})
	mr := decodeBody[dto.MaterialRequestResponse](t, resp)

	// pending -> ordered no está permitido
	resp = s.do(http.MethodPatch, "/api/material-requests/"+mr.ID+"/order", pkgjwt.RoleManager, map[string]any{"po_number": "PO-1"})
	body := decodeBody[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", body.Code)
}

func TestMaterialRequest_SupervisorSoloVeLasSuyas(t *testing.T) {
	s := newTestServer(t)
	itemID, projectA, _ := s.seedCatalog()

	for _, role := range []string{pkgjwt.RoleSupervisor, pkgjwt.RoleManager} {
		resp := s.do(http.MethodPost, "/api/material-requests", role, map[string]any{
			"project_id": projectA,
			"items":      []map[string]any{{"item_id": itemID, "requested_qty": 1}},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := s.do(http.MethodGet, "/api/material-requests", pkgjwt.RoleSupervisor, nil)
	own := decodeBody[dto.MaterialRequestListResponse](t, resp)
	require.Len(t, own.Items, 1)
	assert.Equal(t, "user-supervisor", own.Items[0].RequestedBy)

	resp = s.do(http.MethodGet, "/api/material-requests/pending", pkgjwt.RoleManager, nil)
	all := decodeBody[dto.MaterialRequestListResponse](t, resp)
	assert.Len(t, all.Items, 2)
}

func TestGRN_DescargaPDF(t *testing.T) {
	s := newTestServer(t)
	itemID, projectA, _ := s.seedCatalog()
	grn := s.receive(projectA, itemID, 10, 10, 0)

	resp := s.do(http.MethodGet, "/api/grn/"+grn.ID+"/pdf", pkgjwt.RoleStorekeeper, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "GRN-PO-77.pdf")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestGRN_InexistenteRetorna404(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(http.MethodGet, "/api/grn/no-existe", pkgjwt.RoleStorekeeper, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProject_IssuesFiltraPorTipo(t *testing.T) {
	s := newTestServer(t)
	itemID, projectA, _ := s.seedCatalog()
	s.receive(projectA, itemID, 10, 10, 0)

	for _, path := range []string{"/api/stock/issue", "/api/stock/consumption"} {
		resp := s.do(http.MethodPost, path, pkgjwt.RoleStorekeeper, map[string]any{
			"project_id": projectA,
			"items":      []map[string]any{{"item_id": itemID, "qty": 1}},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := s.do(http.MethodGet, "/api/projects/"+projectA+"/issues?type=ISSUE&period=today", pkgjwt.RoleStorekeeper, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[dto.StockIssueListResponse](t, resp)
	require.Len(t, list.Items, 1)
	assert.Regexp(t, `^ISS-[0-9A-F]{8}$`, list.Items[0].ReferenceNumber)

	resp = s.do(http.MethodGet, "/api/projects/"+projectA+"/issues?period=year", pkgjwt.RoleStorekeeper, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
