// Package pdf genera el documento de empaque (packing slip) de una orden de bodega.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Bodega + N° Orden   │  Prioridad + Estado          │
//	│  DESTINO: Cliente + Dirección de envío                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | Ubicación | Pick | Pack            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con N° Orden / Guía + firma del bodeguero        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/fulfillment-core/internal/application/pickpack"
	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
)

var _ pickpack.SlipRenderer = (*PackingSlipGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// PackingSlipGenerator implementa pickpack.SlipRenderer usando Maroto v2.
type PackingSlipGenerator struct {
	warehouseName string
}

// NewPackingSlipGenerator construye el generador. warehouseName va en el encabezado.
func NewPackingSlipGenerator(warehouseName string) *PackingSlipGenerator {
	return &PackingSlipGenerator{warehouseName: nonEmpty(warehouseName, "Bodega")}
}

// PackingSlip genera el PDF y devuelve sus bytes.
func (g *PackingSlipGenerator) PackingSlip(order *entity.PickPackOrder) ([]byte, error) {
	if order == nil {
		return nil, fmt.Errorf("pdf: orden nula")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Packing slip "+order.OrderNumber, true).
		WithAuthor(g.warehouseName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(destinationRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableItemRows(order.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(order))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(order))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *PackingSlipGenerator) headerRow(o *entity.PickPackOrder) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.warehouseName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Orden: "+o.OrderNumber, props.Text{
				Size: 10, Top: 9, Style: fontstyle.Bold,
			}),
		),
		col.New(5).Add(
			text.New("PACKING SLIP", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Prioridad: "+string(o.Priority), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 7,
			}),
			text.New("Creada: "+o.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func destinationRow(o *entity.PickPackOrder) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("DESTINATARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(o.CustomerName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(nonEmpty(o.ShippingAddress, "-"), props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow cabecera de la tabla de ítems.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 5, align.Left),
		h("Ubicación", 3, align.Left),
		h("Pick", 1, align.Center),
		h("Pack", 2, align.Center),
	)
}

// tableItemRows una fila por ítem.
func tableItemRows(items []entity.PickPackItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(it.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(nonEmpty(it.ProductName, it.ProductID),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(3).Add(text.New(nonEmpty(it.Location, "-"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(1).Add(text.New(check(it.Picked),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(check(it.Packed),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
		))
	}
	return result
}

func summaryRow(o *entity.PickPackOrder) core.Row {
	units := 0
	for _, it := range o.Items {
		units += it.Quantity
	}
	return row.New(12).Add(
		col.New(6).Add(
			text.New(fmt.Sprintf("Líneas: %d   |   Unidades: %d", len(o.Items), units),
				props.Text{Size: 9, Top: 2}),
		),
		col.New(6).Add(
			text.New("Estado: "+string(o.Status), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2,
			}),
		),
	)
}

// footerRow QR con el número de orden (o la guía si ya se despachó) y espacio de firma.
func footerRow(o *entity.PickPackOrder) core.Row {
	qrData := o.OrderNumber
	if o.TrackingNumber != "" {
		qrData = o.OrderNumber + "|" + o.TrackingNumber
	}
	return row.New(40).Add(
		col.New(4).Add(code.NewQr(qrData, props.Rect{Percent: 90, Center: true})),
		col.New(8).Add(
			text.New("Guía: "+nonEmpty(o.TrackingNumber, "pendiente"), props.Text{
				Size: 9, Top: 4, Left: 3,
			}),
			text.New("Preparado por: "+nonEmpty(o.AssignedTo, "sin asignar"), props.Text{
				Size: 9, Top: 12, Left: 3, Color: colorGray,
			}),
			text.New("Firma: ______________________________", props.Text{
				Size: 9, Top: 28, Left: 3,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func check(ok bool) string {
	if ok {
		return "[x]"
	}
	return "[ ]"
}
