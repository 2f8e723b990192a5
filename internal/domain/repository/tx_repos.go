package repository

// TxRepos agrupa los repositorios atados a una misma transacción.
type TxRepos struct {
	Products     ProductRepository
	RawMaterials RawMaterialRepository
	Stocks       StockRepository
	BoMs         BoMRepository
	Productions  ProductionRepository
	Sales        SaleRepository
	Purchases    PurchaseRepository
	Usages       UsageRepository
	Deliveries   DeliveryRepository
	Invoices     InvoiceRepository
	Activity     ActivityLogRepository
}
