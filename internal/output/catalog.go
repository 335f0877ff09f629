package output

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"
)

// CatalogEntry describes one registered check for `s3sentinel checks`.
type CatalogEntry struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Severity models.Severity `json:"severity"`
	Enabled  bool            `json:"enabled"`
}

// RenderCatalog writes the check catalog as a table in registry order.
func RenderCatalog(w io.Writer, entries []CatalogEntry, colored bool) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Name", "Severity", "Enabled"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetColumnSeparator(" ")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, e := range entries {
		enabled := "yes"
		if !e.Enabled {
			enabled = "no"
		}
		table.Append([]string{e.ID, e.Name, Colorize(string(e.Severity), colored), enabled})
	}
	table.Render()
}
