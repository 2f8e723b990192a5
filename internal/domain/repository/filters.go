package repository

import "time"

// Page paginación común de listados.
type Page struct {
	Limit  int
	Offset int
}

// StockFilter filtros del kardex y del reporte de stock.
type StockFilter struct {
	Type      string // in, out, expired, reject; vacío = todos
	OwnerKind string // product, raw_material; vacío = ambos
	OwnerID   string
	Search    string // descripción o nombre del dueño
	From      *time.Time
	To        *time.Time
	Page
}

// ProductionFilter filtros del listado de producciones.
type ProductionFilter struct {
	Status    string
	ProductID string
	Page
}

// CatalogFilter filtros de productos y materias primas.
type CatalogFilter struct {
	Search string
	Page
}

// SaleFilter filtros del listado de ventas. Search busca en el nombre del producto.
type SaleFilter struct {
	Search        string
	ProductID     string
	PaymentStatus string
	From          *time.Time
	To            *time.Time
	Page
}

// PurchaseFilter filtros del listado de compras. Search busca en número de factura y notas.
type PurchaseFilter struct {
	Search        string
	RawMaterialID string
	Status        string
	From          *time.Time
	To            *time.Time
	Page
}

// UsageFilter filtros del listado de usos. Search busca en la descripción.
type UsageFilter struct {
	Search        string
	RawMaterialID string
	From          *time.Time
	To            *time.Time
	Page
}
