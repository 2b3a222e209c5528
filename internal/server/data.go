package server

import (
	"encoding/json"
	"fmt"
	"os"

	"request-governor/dashboard"
)

// SampleData monta um documento mínimo cujos links apontam para o próprio
// servidor, o que permite ver o monitor de status funcionando.
func SampleData(baseURL string) *dashboard.Data {
	return &dashboard.Data{Dashboard: &dashboard.Dashboard{
		Title:    "Example Dashboard",
		Subtitle: "Served by example-server",
		Stats: []dashboard.Stat{
			{Number: "1", Label: "Services"},
		},
		Cards: []dashboard.Card{{
			ID:          "example-server",
			Title:       "Example server",
			Description: "Local endpoints exposed by this process",
			Links: []dashboard.Link{
				{Text: "Root", URL: baseURL + "/", External: true},
				{Text: "Data", URL: baseURL + "/dashboard-data.json"},
			},
		}},
		Footer: dashboard.Footer{Title: "Example Dashboard", Stats: "Services: 1"},
	}}
}

// LoadDataFile lê um dashboard-data.json do disco e valida o formato.
func LoadDataFile(path string) (*dashboard.Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d dashboard.Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if d.Dashboard == nil {
		return nil, fmt.Errorf("%s: %w", path, dashboard.ErrInvalidData)
	}
	return &d, nil
}
