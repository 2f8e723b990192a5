package http

import (
	"github.com/jhoicas/inventario-produccion/internal/application/dto"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	rules "github.com/jhoicas/inventario-produccion/internal/domain/ledger"
)

func stockToResponse(s *entity.Stock) dto.StockResponse {
	out := dto.StockResponse{
		ID:          s.ID,
		OwnerName:   s.OwnerName,
		OwnerUnit:   s.OwnerUnit,
		Type:        s.Type,
		Stock:       s.Quantity,
		Description: s.Description,
		Source:      s.Source,
		ReferenceID: s.ReferenceID,
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if s.Owner.Kind == entity.OwnerProduct {
		out.ProductID = s.Owner.ID
	} else {
		out.RawMaterialID = s.Owner.ID
	}
	return out
}

func stocksToResponse(list []*entity.Stock) []dto.StockResponse {
	out := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		out = append(out, stockToResponse(s))
	}
	return out
}

func productionToResponse(p *entity.Production) dto.ProductionResponse {
	return dto.ProductionResponse{
		ID:             p.ID,
		ProductID:      p.ProductID,
		ProductName:    p.ProductName,
		UserID:         p.UserID,
		Qty:            p.Qty,
		ProductionDate: p.ProductionDate,
		Status:         p.Status,
		Notes:          p.Notes,
		HPP:            p.HPP,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func hppLinesToResponse(lines []rules.HPPLine) []dto.HppLineResponse {
	out := make([]dto.HppLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.HppLineResponse{
			RawMaterialID: l.RawMaterialID,
			Name:          l.Name,
			Unit:          l.Unit,
			QtyPerUnit:    l.QtyPerUnit,
			QtyTotal:      l.QtyTotal,
			Consumed:      l.Consumed,
			Price:         l.Price,
			Subtotal:      l.Subtotal,
		})
	}
	return out
}

func saleToResponse(s *entity.Sale) dto.SaleResponse {
	return dto.SaleResponse{
		ID:            s.ID,
		ProductID:     s.ProductID,
		ProductName:   s.ProductName,
		CustomerID:    s.CustomerID,
		UserID:        s.UserID,
		Qty:           s.Qty,
		Price:         s.Price,
		Discount:      s.Discount,
		ShippingCost:  s.ShippingCost,
		AdminFee:      s.AdminFee,
		Tax:           s.Tax,
		Total:         s.Total,
		PaymentStatus: s.PaymentStatus,
		PaymentDate:   s.PaymentDate,
		PaymentMethod: s.PaymentMethod,
		Date:          s.Date,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func deliveryToResponse(d *entity.Delivery) *dto.DeliveryResponse {
	if d == nil {
		return nil
	}
	return &dto.DeliveryResponse{
		ID:              d.ID,
		SaleID:          d.SaleID,
		Status:          d.Status,
		ShippingAddress: d.ShippingAddress,
		ShippingMethod:  d.ShippingMethod,
		Courier:         d.Courier,
		TrackingNumber:  d.TrackingNumber,
		ScheduledDate:   d.ScheduledDate,
		DeliveryDate:    d.DeliveryDate,
		Notes:           d.Notes,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func invoiceToResponse(inv *entity.Invoice, items []*entity.InvoiceItem) *dto.InvoiceResponse {
	if inv == nil {
		return nil
	}
	out := &dto.InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		SaleID:        inv.SaleID,
		CustomerID:    inv.CustomerID,
		Date:          inv.Date,
		Total:         inv.Total,
		ShippingCost:  inv.ShippingCost,
		AdminFee:      inv.AdminFee,
		Tax:           inv.Tax,
		Discount:      inv.Discount,
		PaymentStatus: inv.PaymentStatus,
		PaymentDate:   inv.PaymentDate,
		PaymentMethod: inv.PaymentMethod,
		CreatedAt:     inv.CreatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.InvoiceItemResponse{
			ProductID:     it.ProductID,
			NameSnapshot:  it.NameSnapshot,
			PriceSnapshot: it.PriceSnapshot,
			Qty:           it.Qty,
			Subtotal:      it.Subtotal,
		})
	}
	return out
}

func purchaseToResponse(p *entity.Purchase) dto.PurchaseResponse {
	return dto.PurchaseResponse{
		ID:            p.ID,
		RawMaterialID: p.RawMaterialID,
		SupplierID:    p.SupplierID,
		UserID:        p.UserID,
		Qty:           p.Qty,
		Price:         p.Price,
		Total:         p.Total,
		Date:          p.Date,
		Status:        p.Status,
		InvoiceNumber: p.InvoiceNumber,
		Notes:         p.Notes,
		ReceivedDate:  p.ReceivedDate,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func usageToResponse(u *entity.Usage) dto.UsageResponse {
	return dto.UsageResponse{
		ID:            u.ID,
		RawMaterialID: u.RawMaterialID,
		UserID:        u.UserID,
		Qty:           u.Qty,
		Date:          u.Date,
		Description:   u.Description,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
