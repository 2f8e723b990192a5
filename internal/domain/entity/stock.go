package entity

import "time"

// Tipos de movimiento del kardex.
const (
	StockTypeIn      = "in"      // entrada
	StockTypeOut     = "out"     // salida
	StockTypeExpired = "expired" // vencido
	StockTypeReject  = "reject"  // rechazado / merma
)

// Origen del movimiento. Los movimientos generados por un documento (venta, compra,
// uso, producción) pertenecen a ese documento y no se editan ni borran desde el kardex.
const (
	StockSourceManual     = "manual"
	StockSourceCorrection = "correction"
	StockSourceSale       = "sale"
	StockSourcePurchase   = "purchase"
	StockSourceUsage      = "usage"
	StockSourceProduction = "production"
)

// Clases de dueño de un movimiento.
const (
	OwnerProduct     = "product"
	OwnerRawMaterial = "raw_material"
)

// StockOwner identifica al dueño de un movimiento: un producto o una materia prima, nunca ambos.
type StockOwner struct {
	Kind string // product | raw_material
	ID   string
}

// ProductOwner construye el dueño para un producto.
func ProductOwner(id string) StockOwner { return StockOwner{Kind: OwnerProduct, ID: id} }

// RawMaterialOwner construye el dueño para una materia prima.
func RawMaterialOwner(id string) StockOwner { return StockOwner{Kind: OwnerRawMaterial, ID: id} }

// Valid indica si el dueño tiene una clase conocida e ID.
func (o StockOwner) Valid() bool {
	return o.ID != "" && (o.Kind == OwnerProduct || o.Kind == OwnerRawMaterial)
}

// Stock es un registro inmutable del kardex: una cantidad que entra o sale de un dueño.
type Stock struct {
	ID          string
	Owner       StockOwner
	Type        string // in, out, expired, reject
	Quantity    int64  // siempre positiva; el signo lo da Type
	Description string
	Source      string
	ReferenceID string // ID del documento origen (venta, compra, ...), vacío en manuales
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Datos de lectura del dueño (JOIN), no se persisten.
	OwnerName  string
	OwnerUnit  string
	OwnerStock int64
}

// Editable indica si el movimiento puede corregirse o borrarse desde el kardex.
func (s *Stock) Editable() bool {
	return s.Source == StockSourceManual || s.Source == StockSourceCorrection
}
