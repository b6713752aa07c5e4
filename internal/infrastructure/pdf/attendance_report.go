// Package pdf genera el reporte descargable de asistencia.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación │ total de registros  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Usuario | Fecha | Hora                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda                                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/yeye/icms-api/internal/application/dto"
	"github.com/yeye/icms-api/internal/application/ports"
)

var _ ports.AttendanceReportRenderer = (*AttendanceReportRenderer)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// AttendanceReportRenderer implementa ports.AttendanceReportRenderer con Maroto v2.
type AttendanceReportRenderer struct {
	title string
	loc   *time.Location
}

// NewAttendanceReportRenderer construye el generador. loc nil = UTC.
func NewAttendanceReportRenderer(title string, loc *time.Location) *AttendanceReportRenderer {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceReportRenderer{title: title, loc: loc}
}

// RenderAttendance genera el PDF y devuelve sus bytes.
func (g *AttendanceReportRenderer) RenderAttendance(
	_ context.Context,
	records []dto.AttendanceRecord,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(g.headerRow(len(records), generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(g.recordRows(records)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *AttendanceReportRenderer) headerRow(total int, generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(g.title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+generatedAt.In(g.loc).Format("02/01/2006 15:04"), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("REGISTROS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(strconv.Itoa(total), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Usuario", 5, align.Left),
		h("Fecha", 3, align.Center),
		h("Hora", 3, align.Center),
	)
}

func (g *AttendanceReportRenderer) recordRows(records []dto.AttendanceRecord) []core.Row {
	if len(records) == 0 {
		return []core.Row{row.New(8).Add(col.New(12).Add(
			text.New("Sin registros de asistencia", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		))}
	}
	rows := make([]core.Row, 0, len(records))
	for i, r := range records {
		ts := r.Timestamp.In(g.loc)
		rows = append(rows, row.New(6).Add(
			col.New(1).Add(text.New(strconv.Itoa(i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(nonEmpty(r.Username, "(usuario eliminado)"), props.Text{Size: 8, Top: 1})),
			col.New(3).Add(text.New(ts.Format("02/01/2006"), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(ts.Format("15:04:05"), props.Text{Size: 8, Align: align.Center, Top: 1})),
		))
	}
	return rows
}

func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New("Registro generado a partir de verificaciones faciales exitosas.", props.Text{
			Size: 7, Align: align.Center, Top: 2, Color: colorGray,
		}),
	))
}

func nonEmpty(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
