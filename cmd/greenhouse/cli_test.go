package main

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"greenhouse/database"
	"greenhouse/entities"
	cropRepoImp "greenhouse/pkg/crop/repositoryImp"
	cropSvcImp "greenhouse/pkg/crop/serviceImp"
	"greenhouse/pkg/gateway/gatewaytest"
	journalRepoImp "greenhouse/pkg/journal/repositoryImp"
	journalSvcImp "greenhouse/pkg/journal/serviceImp"
	sensorSvcImp "greenhouse/pkg/sensor/serviceImp"
	"greenhouse/pkg/session"
	"greenhouse/pkg/session/sessiontest"
)

func TestCommandTree(t *testing.T) {
	want := []string{
		"serve", "session", "crops list", "crops show", "crops add",
		"crops send-to-manufacturer", "crops send-to-supplier", "crops set-status",
		"crops export", "sensor add", "ops list",
	}
	for _, path := range want {
		cmd, _, err := rootCmd.Find(strings.Fields(path))
		require.NoError(t, err, path)
		assert.Equal(t, strings.Fields(path)[len(strings.Fields(path))-1], cmd.Name(), path)
	}
}

func TestCropTable(t *testing.T) {
	c := entities.Crop{CropID: "7", Name: "Wheat", CropType: "Grain", Location: "Bay 3", WeightKg: 120, PriceEth: "2.5"}
	c.SetStatus(entities.StatusInSeller)
	out := cropTable([]entities.Crop{c})
	for _, s := range []string{"ID", "Price (ETH)", "Wheat", "Bay 3", "120", "2.5", "In Seller"} {
		assert.Contains(t, out, s)
	}
}

func TestDay(t *testing.T) {
	d, err := day("")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = day("2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())

	_, err = day("May 1st")
	assert.Error(t, err)
}

func testApp(t *testing.T, s *session.Session) *app {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "greenhouse.db"))
	require.NoError(t, err)
	log := zaptest.NewLogger(t)
	crops := cropRepoImp.New(db)
	journal := journalSvcImp.New(journalRepoImp.New(db))
	dir := cropSvcImp.NewDirectory(s, crops, 2, log)
	return &app{
		log:       log,
		db:        db,
		session:   s,
		directory: dir,
		lifecycle: cropSvcImp.NewLifecycle(s, crops, journal, 0, log),
		creator:   cropSvcImp.NewCreator(s, dir, journal, 0, log),
		sensor:    sensorSvcImp.New(s, journal, 0, log),
		journal:   journal,
	}
}

func TestServerRoutes(t *testing.T) {
	e, err := newServer(testApp(t, sessiontest.Disconnected(t)))
	require.NoError(t, err)

	cases := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/operations", http.StatusOK},
		{http.MethodGet, "/session", http.StatusOK},
		{http.MethodGet, "/ghop", http.StatusOK},
		{http.MethodGet, "/exporter", http.StatusOK},
		{http.MethodGet, "/buyer", http.StatusOK},
		{http.MethodGet, "/buyer/session", http.StatusOK},
		{http.MethodGet, "/ghop/crops", http.StatusPreconditionRequired},
		{http.MethodGet, "/ghop/crops.xlsx", http.StatusPreconditionRequired},
		{http.MethodGet, "/exporter/crops", http.StatusPreconditionRequired},
		{http.MethodPost, "/ghop/crops/1/send-to-manufacturer", http.StatusPreconditionRequired},
		{http.MethodPost, "/exporter/crops/1/send-to-supplier", http.StatusPreconditionRequired},
		{http.MethodPost, "/crops/1/status", http.StatusPreconditionRequired},
		{http.MethodGet, "/ghop/nope", http.StatusNotFound},
		{http.MethodGet, "/exporter/nope", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
		})
	}
}

func TestServerRoutes_Connected(t *testing.T) {
	proxy := &gatewaytest.Contract{}
	e, err := newServer(testApp(t, sessiontest.Connected(t, proxy)))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ghop/crops", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
