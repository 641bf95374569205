package resource_tools

import (
	"context"
	"encoding/json"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/booking-mcp/internal/config"
)

func TestRegisterResourceTools(t *testing.T) {
	sc := newToolContext(t)

	s := mcpserver.NewMCPServer("test-server", "1.0.0",
		mcpserver.WithToolCapabilities(true),
	)

	require.NoError(t, RegisterResourceTools(s, sc))
}

func TestHandleFindFreeResources(t *testing.T) {
	sc := newToolContext(t)
	addResource(t, sc, "AULA01", "Aula corsi", "AULA", true)
	addResource(t, sc, "AULA02", "Aula riunioni", "AULA", true)
	addResource(t, sc, "AUTO01", "Fiat Panda", "AUTO", true)
	addInterval(t, sc, "AULA01", "2024-06-01 09:00", "2024-06-01 10:00")

	request := callRequest("find_free_resources", map[string]interface{}{
		"start_time": "2024-06-01 09:30",
		"end_time":   "2024-06-01 10:30",
	})

	result, err := handleFindFreeResources(context.Background(), request, sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var report struct {
		Summary struct {
			TotalFree int `json:"risorse_libere_totali"`
		} `json:"riepilogo"`
		ByType map[string][]struct {
			ID string `json:"id"`
		} `json:"risorse_per_tipo"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &report))
	assert.Equal(t, 2, report.Summary.TotalFree)

	rooms := report.ByType[config.LabelRooms]
	require.Len(t, rooms, 1)
	assert.Equal(t, "AULA02", rooms[0].ID)

	vehicles := report.ByType[config.LabelVehicles]
	require.Len(t, vehicles, 1)
	assert.Equal(t, "AUTO01", vehicles[0].ID)
}

func TestHandleFindFreeResourcesBadTimestamp(t *testing.T) {
	sc := newToolContext(t)

	request := callRequest("find_free_resources", map[string]interface{}{
		"start_time": "2024-06-01",
		"end_time":   "2024-06-01 10:30",
	})

	result, err := handleFindFreeResources(context.Background(), request, sc)
	require.NoError(t, err)
	require.True(t, result.IsError)

	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &body))
	assert.Contains(t, body["error"], "formato data non valido")
}

func TestHandleListResources(t *testing.T) {
	sc := newToolContext(t)
	addResource(t, sc, "AULA01", "Aula corsi", "AULA", true)
	addResource(t, sc, "PROIETTORE01", "Epson EB-X49", "PROIETTORE", true)
	addResource(t, sc, "AULA99", "Aula dismessa", "AULA", false)

	request := callRequest("list_available_resources", map[string]interface{}{})

	result, err := handleListResources(context.Background(), request, sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var report struct {
		TotalResources int `json:"total_resources"`
		Resources      []struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"resources"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &report))
	require.Equal(t, 2, report.TotalResources)
	assert.Equal(t, "AULA01", report.Resources[0].ID)
	assert.Equal(t, "PROIETTORE01", report.Resources[1].ID)
}
