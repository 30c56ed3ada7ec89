package fhir

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dwellwatch/dwellwatch/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInserted = "2025-05-28T12:00:00Z"

func fastRetry() RetryConfig {
	return RetryConfig{Attempts: 2, Delay: time.Millisecond}
}

func deviceJSON(deviceID, patientRef string, snomed bool) string {
	typeField := `"type":{"text":"catheter"}`
	if snomed {
		typeField = `"type":{"coding":[{"system":"http://snomed.info/sct","code":"303620002"}]}`
	}

	patient := ""
	if patientRef != "" {
		patient = fmt.Sprintf(`,"patient":{"reference":%q}`, patientRef)
	}

	return fmt.Sprintf(`{"resource":{"resourceType":"Device","id":%q,"meta":{"lastUpdated":%q},%s%s}}`,
		deviceID, testInserted, typeField, patient)
}

func fhirServer(t *testing.T, deviceHandler http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/metadata", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"resourceType":"CapabilityStatement"}`))
	})
	mux.HandleFunc("/Device", deviceHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func TestSource_FetchPatients(t *testing.T) {
	server := fhirServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"resourceType":"Bundle","entry":[%s,%s]}`,
			deviceJSON("dev-1", "Patient/patient-001", true),
			deviceJSON("dev-2", "Patient/patient-002", false),
		)
	})

	client := NewClient(server.URL, time.Second, fastRetry(), slog.Default())
	source := NewSource(client, false, slog.Default())

	records, err := source.FetchPatients(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "patient-001", records[0].ID)
	require.NotNil(t, records[0].Device)
	assert.Equal(t, "dev-1", records[0].Device.ID)
	assert.Equal(t, SNOMEDSystem, records[0].Device.System)
	assert.Equal(t, UrinaryCatheterCode, records[0].Device.Code)

	inserted, err := time.Parse(time.RFC3339, testInserted)
	require.NoError(t, err)
	assert.True(t, records[0].InsertedAt.Equal(inserted))

	assert.Equal(t, "patient-002", records[1].ID)
	assert.Empty(t, records[1].Device.Code)
}

func TestSource_FetchPatients_SnomedOnly(t *testing.T) {
	server := fhirServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"resourceType":"Bundle","entry":[%s,%s]}`,
			deviceJSON("dev-1", "Patient/patient-001", true),
			deviceJSON("dev-2", "Patient/patient-002", false),
		)
	})

	client := NewClient(server.URL, time.Second, fastRetry(), slog.Default())
	source := NewSource(client, true, slog.Default())

	records, err := source.FetchPatients(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "patient-001", records[0].ID)
}

func TestSource_FetchPatients_Pagination(t *testing.T) {
	var server *httptest.Server

	server = fhirServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprintf(w, `{"resourceType":"Bundle","entry":[%s]}`,
				deviceJSON("dev-2", "Patient/patient-002", true))

			return
		}

		fmt.Fprintf(w, `{"resourceType":"Bundle","link":[{"relation":"next","url":%q}],"entry":[%s]}`,
			server.URL+"/Device?page=2",
			deviceJSON("dev-1", "Patient/patient-001", true))
	})

	client := NewClient(server.URL, time.Second, fastRetry(), slog.Default())
	source := NewSource(client, false, slog.Default())

	records, err := source.FetchPatients(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "patient-001", records[0].ID)
	assert.Equal(t, "patient-002", records[1].ID)
}

func TestSource_FetchPatients_SkipsMalformedEntries(t *testing.T) {
	server := fhirServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"resourceType":"Bundle","entry":[%s,%s,%s,%s]}`,
			deviceJSON("dev-no-patient", "", true),
			deviceJSON("dev-bad-ref", "Group/group-1", true),
			`{"resource":{"resourceType":"Patient","id":"patient-001"}}`,
			deviceJSON("dev-ok", "Patient/patient-001", true),
		)
	})

	client := NewClient(server.URL, time.Second, fastRetry(), slog.Default())
	source := NewSource(client, false, slog.Default())

	records, err := source.FetchPatients(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "patient-001", records[0].ID)
}

func TestSource_FetchPatients_FirstDeviceWins(t *testing.T) {
	server := fhirServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"resourceType":"Bundle","entry":[%s,%s]}`,
			deviceJSON("dev-1", "Patient/patient-001", true),
			deviceJSON("dev-2", "Patient/patient-001", true),
		)
	})

	client := NewClient(server.URL, time.Second, fastRetry(), slog.Default())
	source := NewSource(client, false, slog.Default())

	records, err := source.FetchPatients(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "dev-1", records[0].Device.ID)
}

func TestSource_FetchPatients_ServerDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, time.Second, fastRetry(), slog.Default())
	source := NewSource(client, false, slog.Default())

	_, err := source.FetchPatients(context.Background())
	require.Error(t, err)
	assert.True(t, protocol.IsSourceUnavailable(err))
}

func TestClient_Get_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32

	server := fhirServer(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}

		fmt.Fprintf(w, `{"resourceType":"Bundle","entry":[%s]}`,
			deviceJSON("dev-1", "Patient/patient-001", true))
	})

	client := NewClient(server.URL, time.Second, fastRetry(), slog.Default())

	bundles, err := client.SearchCatheterDevices(context.Background())
	require.NoError(t, err)
	require.Len(t, bundles, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestBundle_NextLink(t *testing.T) {
	bundle := Bundle{Link: []BundleLink{
		{Relation: "self", URL: "https://example.org/page1"},
		{Relation: "next", URL: "https://example.org/page2"},
	}}
	assert.Equal(t, "https://example.org/page2", bundle.NextLink())

	assert.Empty(t, (&Bundle{}).NextLink())
}
