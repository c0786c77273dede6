package output

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/oshokin/version-stamper/internal/domain/build"
)

// WriteVariants renders the variant matrix as a table.
func WriteVariants(w io.Writer, variants []build.Variant) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Variant", "Flavor", "Build type", "Naming rule", "Application ID", "App name"})

	for _, v := range variants {
		t.AppendRow(table.Row{v.Name, v.Flavor, v.BuildType, v.Kind, v.ApplicationID, v.AppName})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}
