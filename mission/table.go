package mission

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"go.magellan.dev/rover/spatialmath"
)

// Table renders the waypoints with their position in the local frame.
func (m *Mission) Table() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Role", "Latitude", "Longitude", "East (m)", "North (m)"})
	origin := m.Origin()
	for i, wp := range m.waypoints {
		local := spatialmath.GeoPointToPoint(wp.Point, origin)
		t.AppendRow(table.Row{
			i,
			wp.Role.String(),
			fmt.Sprintf("%.7f", wp.Point.Lat()),
			fmt.Sprintf("%.7f", wp.Point.Lng()),
			fmt.Sprintf("%.2f", local.X),
			fmt.Sprintf("%.2f", local.Y),
		})
	}
	t.AppendFooter(table.Row{"", m.Summary().String()})
	return t.Render()
}
