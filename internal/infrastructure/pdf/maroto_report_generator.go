// Package pdf genera el reporte PDF de inventario: valorización de insumos
// y panel de lotes por vencer.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + Mes  │  Valor total + alertas              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Insumo | Unidad | Cantidad | Costo Prom. | Valor     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Lote | Restante | Vence | Días | Estado   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: advertencias de integridad                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

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

	"github.com/jhoicas/Produccion-engine/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorCritical = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// ReportGenerator genera el reporte de inventario usando Maroto v2.
type ReportGenerator struct{}

// NewReportGenerator construye el generador.
func NewReportGenerator() *ReportGenerator { return &ReportGenerator{} }

// Generate genera el PDF del resumen y devuelve sus bytes.
func (g *ReportGenerator) Generate(summary *dto.DashboardSummaryDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de Inventario", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	// Valorización de insumos
	m.AddRows(sectionTitleRow("VALORIZACIÓN DE INSUMOS"))
	m.AddRows(valuationHeaderRow())
	for _, r := range valuationRows(summary.Materials) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(summary))

	// Lotes por vencer
	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitleRow(fmt.Sprintf("LOTES POR VENCER (próximos %d días)", summary.HorizonDays)))
	if len(summary.ExpiringLots) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin lotes por vencer en la ventana.", props.Text{
				Size: 8, Color: colorGray, Top: 2,
			}),
		)))
	} else {
		m.AddRows(expiryHeaderRow())
		for _, r := range expiryRows(summary.ExpiringLots) {
			m.AddRows(r)
		}
	}

	// Advertencias de integridad
	if len(summary.Warnings) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
		for _, r := range warningRows(summary.Warnings) {
			m.AddRows(r)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + mes (izq) y valor total + alertas (der).
func headerRow(summary *dto.DashboardSummaryDTO) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("REPORTE DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(summary.DateLabel, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Valor total del inventario", props.Text{
				Size: 8, Align: align.Right, Color: colorGray, Top: 1,
			}),
			text.New("$"+formatMoney(summary.TotalValue.StringFixed(0)), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New(fmt.Sprintf("%d insumos bajo stock mínimo", summary.LowStockCount), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func sectionTitleRow(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2,
		}),
	))
}

func valuationHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Insumo", 4, align.Left),
		h("Unidad", 1, align.Center),
		h("Cantidad", 2, align.Right),
		h("Costo Prom.", 2, align.Right),
		h("Valor Total", 3, align.Right),
	)
}

func valuationRows(materials []dto.MaterialValuationDTO) []core.Row {
	result := make([]core.Row, 0, len(materials))
	for _, m := range materials {
		name := m.Name
		if m.BelowMinStock {
			name += " (!)"
		}
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(name, props.Text{
				Size: 8, Align: align.Left, Top: 1, Left: 1,
			})),
			col.New(1).Add(text.New(unitLabel(m.UnitMeasure), props.Text{
				Size: 8, Align: align.Center, Top: 1,
			})),
			col.New(2).Add(text.New(m.Quantity.StringFixed(2), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
			col.New(2).Add(text.New("$"+formatMoney(m.AvgUnitCost.StringFixed(0)), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
			col.New(3).Add(text.New("$"+formatMoney(m.TotalValue.StringFixed(0)), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
		))
	}
	return result
}

func totalRow(summary *dto.DashboardSummaryDTO) core.Row {
	return row.New(9).Add(
		col.New(9).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Color: colorPrimary,
		})),
		col.New(3).Add(text.New("$"+formatMoney(summary.TotalValue.StringFixed(0)), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 1, Color: colorPrimary,
		})),
	)
}

func expiryHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 4, align.Left),
		h("Lote", 3, align.Left),
		h("Restante", 1, align.Right),
		h("Vence", 2, align.Center),
		h("Días", 1, align.Center),
		h("Estado", 1, align.Center),
	)
}

func expiryRows(items []dto.ExpiringLotDTO) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		stateColor := colorGray
		if it.Class == "EXPIRED" || it.Class == "CRITICAL" {
			stateColor = colorCritical
		}
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(it.ProductName, props.Text{
				Size: 8, Align: align.Left, Top: 1, Left: 1,
			})),
			col.New(3).Add(text.New(it.LotNumber, props.Text{
				Size: 8, Align: align.Left, Top: 1, Left: 1,
			})),
			col.New(1).Add(text.New(it.Remaining.StringFixed(0), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
			col.New(2).Add(text.New(it.ExpirationDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Center, Top: 1,
			})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.DaysLeft), props.Text{
				Size: 8, Align: align.Center, Top: 1,
			})),
			col.New(1).Add(text.New(stateLabel(it.Class), props.Text{
				Style: fontstyle.Bold, Size: 7, Align: align.Center, Top: 1, Color: stateColor,
			})),
		))
	}
	return result
}

func warningRows(warnings []dto.IntegrityWarningDTO) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("ADVERTENCIAS DE INTEGRIDAD", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorCritical, Top: 1,
			}),
		)),
	}
	for _, w := range warnings {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(fmt.Sprintf("%s — %s: %s", w.Kind, w.EntityID, w.Detail), props.Text{
				Size: 7, Color: colorGray, Top: 1, Left: 2,
			}),
		)))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func unitLabel(unit string) string {
	switch unit {
	case "MASS":
		return "g"
	case "VOLUME":
		return "ml"
	case "COUNT":
		return "und"
	}
	return unit
}

func stateLabel(class string) string {
	switch class {
	case "EXPIRED":
		return "VENCIDO"
	case "CRITICAL":
		return "CRÍTICO"
	case "WARNING":
		return "ALERTA"
	case "INFORMATIONAL":
		return "INFO"
	}
	return class
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	n := len(s)
	if n <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if neg {
		return "-" + string(buf)
	}
	return string(buf)
}
