package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgaplan/estimator/internal/domain/dto"
	"github.com/tgaplan/estimator/internal/pkg/config"
)

func newTestService(t *testing.T) *APIService {
	t.Helper()

	require.NoError(t, config.Init())

	svc, err := NewAPIService(nil)
	require.NoError(t, err)

	return svc
}

func doJSON(svc *APIService, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	svc.router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	svc := newTestService(t)

	rec := doJSON(svc, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestClassifyEndpoint(t *testing.T) {
	svc := newTestService(t)

	body := `{
		"project_name": "Projekt Nord",
		"mapping": [
			{"code": "BUERO", "display_name": "Büro", "synonyms": ["Office"],
			 "benchmarks": {"heating_w_per_m2": 45, "cooling_w_per_m2": 35, "ventilation_rate": 4, "ventilation_unit": "per_m2", "median_area_m2": 25}},
			{"code": "LAGER", "display_name": "Lager",
			 "benchmarks": {"heating_w_per_m2": 20, "ventilation_rate": 1, "ventilation_unit": "per_m2", "median_area_m2": 100}}
		],
		"rooms": [
			{"id": "r1", "name": "Büro 1.01", "area_m2": 20},
			{"id": "r2", "name": "Zzzz"}
		]
	}`

	rec := doJSON(svc, http.MethodPost, "/api/v1/roomtypes/classify", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp dto.ClassifyResponse
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, 2, resp.Rows)
	assert.Equal(t, 1, resp.Classified)
	assert.Equal(t, 1, resp.Unclassified)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "BUERO", resp.Results[0].TypeCode)
	assert.Equal(t, 1.0, resp.Results[0].Confidence)
	require.Len(t, resp.Issues, 1)
}

func TestClassifyEndpointValidation(t *testing.T) {
	svc := newTestService(t)

	// missing project_name and rooms
	rec := doJSON(svc, http.MethodPost, "/api/v1/roomtypes/classify", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClassifyEndpointCatalogConflict(t *testing.T) {
	svc := newTestService(t)

	body := `{
		"project_name": "Projekt Nord",
		"mapping": [
			{"code": "BUERO", "display_name": "Büro", "synonyms": ["Arbeitsraum"]},
			{"code": "WERKSTATT", "display_name": "Werkstatt", "synonyms": ["Arbeitsraum"]}
		],
		"rooms": [{"id": "r1", "name": "Büro"}]
	}`

	rec := doJSON(svc, http.MethodPost, "/api/v1/roomtypes/classify", body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Arbeitsraum")
}

func TestPowerEndpointWithoutStore(t *testing.T) {
	svc := newTestService(t)

	// no persistence layer, so run lookup reports not found
	rec := doJSON(svc, http.MethodPost, "/api/v1/power/requirements", `{"run_id": "missing"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	svc := newTestService(t)

	rec := doJSON(svc, http.MethodPost, "/api/v1/admin/catalog/import",
		`{"version": "v1", "entries": [{"code": "BUERO", "display_name": "Büro"}]}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
