package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/kailas-cloud/perkdex/internal/domain/search/mode"
	"github.com/kailas-cloud/perkdex/internal/domain/search/request"
	chiTransport "github.com/kailas-cloud/perkdex/internal/transport/chi"
)

var errQueryRequired = errors.New("query is required")

// loaded bootstraps the app and builds the index once from the configured source.
func loaded(c *cli.Context) (*deps, error) {
	d, err := bootstrap(c)
	if err != nil {
		return nil, err
	}
	if _, err := d.catalog.Reindex(c.Context); err != nil {
		d.close()
		return nil, fmt.Errorf("build index: %w", err)
	}
	return d, nil
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return errQueryRequired
	}

	d, err := loaded(c)
	if err != nil {
		return err
	}
	defer d.close()

	req, err := request.New(query, mode.Mode(c.String("strategy")), c.Int("top-k"), c.String("category"),
		d.catalog.Defaults())
	if err != nil {
		return err
	}
	results, err := d.catalog.Query(c.Context, &req)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, chiTransport.SearchResultsToResponse(query, results))
}

func listCommand(c *cli.Context) error {
	d, err := loaded(c)
	if err != nil {
		return err
	}
	defer d.close()

	return printJSON(c.App.Writer, chiTransport.RecordsToResponse(d.catalog.List(c.Context)))
}

func statsCommand(c *cli.Context) error {
	d, err := loaded(c)
	if err != nil {
		return err
	}
	defer d.close()

	return printJSON(c.App.Writer, chiTransport.StatsToResponse(d.catalog.Stats()))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
