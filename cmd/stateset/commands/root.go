// Package commands implements the stateset CLI subcommands.
package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/stateset-io/stateset-client/pkg/logging"
	"github.com/stateset-io/stateset-client/pkg/stateset"
	"github.com/stateset-io/stateset-client/pkg/statesetclient"
)

const defaultEndpoint = "https://api.stateset.com"

// createClient builds a client from viper configuration.
func createClient() (stateset.Client, error) {
	endpoint := viper.GetString("api")
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	level := "info"
	if viper.GetBool("debug") {
		level = "debug"
	}

	logger := logging.Setup(logging.Config{Level: level, Pretty: true})

	return statesetclient.New(&stateset.Config{
		APIEndpoint: endpoint,
		APIKey:      viper.GetString("api_key"),
		Debug:       viper.GetBool("debug"),
		Logger:      logging.NewAdapter(logger),
	})
}

// renderJSON writes v as indented JSON to stdout.
func renderJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}

// renderYAML writes v as YAML to stdout.
func renderYAML(v interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)
	defer func() { _ = encoder.Close() }()

	return encoder.Encode(v)
}

// renderTable writes rows under the given header to stdout.
func renderTable(header []string, rows [][]string) error {
	table := tablewriter.NewWriter(os.Stdout)

	headerCells := make([]any, len(header))
	for i, h := range header {
		headerCells[i] = h
	}

	table.Header(headerCells...)

	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("appending table row: %w", err)
		}
	}

	return table.Render()
}

// render dispatches on the configured output format, falling back to
// the table renderer.
func render(v interface{}, header []string, rows [][]string) error {
	switch viper.GetString("output") {
	case "json":
		return renderJSON(v)
	case "yaml":
		return renderYAML(v)
	default:
		return renderTable(header, rows)
	}
}
