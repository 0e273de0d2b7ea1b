package reports

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

const dayLayout = "2006-01-02"

// UseCase reportes del tenant. Las filas crudas vienen del repositorio y la
// agregación por día, sucursal, producto o método de pago se hace en memoria.
type UseCase struct {
	reportRepo repository.ReportRepository
	tenantRepo repository.TenantRepository
	fiscal     FiscalSummaryGenerator
}

// NewUseCase construye el caso de uso.
func NewUseCase(reportRepo repository.ReportRepository, tenantRepo repository.TenantRepository, fiscal FiscalSummaryGenerator) *UseCase {
	return &UseCase{reportRepo: reportRepo, tenantRepo: tenantRepo, fiscal: fiscal}
}

// ParseRange valida y parsea el rango de fechas (inclusive ambos extremos).
func ParseRange(from, to string) (time.Time, time.Time, error) {
	start, err := time.Parse(dayLayout, from)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidInput
	}
	end, err := time.Parse(dayLayout, to)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidInput
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, domain.ErrInvalidInput
	}
	// Fin de rango exclusivo al día siguiente para cubrir el día completo.
	return start, end.AddDate(0, 0, 1), nil
}

// Sales arma el reporte de ventas del período.
func (uc *UseCase) Sales(ctx context.Context, tenantID, from, to string) (*dto.SalesReportDTO, error) {
	start, end, err := ParseRange(from, to)
	if err != nil {
		return nil, err
	}
	rows, err := uc.reportRepo.SaleRows(ctx, tenantID, start, end)
	if err != nil {
		return nil, err
	}

	out := &dto.SalesReportDTO{
		From:       from,
		To:         to,
		Total:      decimal.Zero,
		ByDay:      []dto.DayTotalDTO{},
		ByBranch:   []dto.BranchTotalDTO{},
		ByPayment:  []dto.LabelTotalDTO{},
		TopProduct: []dto.ProductTotalDTO{},
	}

	type acc struct {
		total decimal.Decimal
		qty   decimal.Decimal
		count int
	}
	byDay := map[string]*acc{}
	byBranch := map[string]*acc{}
	branchNames := map[string]string{}
	byPayment := map[string]*acc{}
	byProduct := map[string]*acc{}
	productMeta := map[string]repository.SaleRow{}
	// Una venta tiene varias filas (una por ítem); el conteo de ventas
	// distingue por SaleID.
	seenSale := map[string]bool{}
	seenSaleDay := map[string]bool{}
	seenSaleBranch := map[string]bool{}
	seenSalePayment := map[string]bool{}

	get := func(m map[string]*acc, key string) *acc {
		a, ok := m[key]
		if !ok {
			a = &acc{total: decimal.Zero, qty: decimal.Zero}
			m[key] = a
		}
		return a
	}

	for _, r := range rows {
		out.Total = out.Total.Add(r.Subtotal)
		if !seenSale[r.SaleID] {
			seenSale[r.SaleID] = true
			out.SaleCount++
		}

		day := r.SoldAt.Format(dayLayout)
		a := get(byDay, day)
		a.total = a.total.Add(r.Subtotal)
		if k := r.SaleID + "|" + day; !seenSaleDay[k] {
			seenSaleDay[k] = true
			a.count++
		}

		b := get(byBranch, r.BranchID)
		b.total = b.total.Add(r.Subtotal)
		branchNames[r.BranchID] = r.BranchName
		if k := r.SaleID + "|" + r.BranchID; !seenSaleBranch[k] {
			seenSaleBranch[k] = true
			b.count++
		}

		p := get(byPayment, r.PaymentMethod)
		p.total = p.total.Add(r.Subtotal)
		if k := r.SaleID + "|" + r.PaymentMethod; !seenSalePayment[k] {
			seenSalePayment[k] = true
			p.count++
		}

		pr := get(byProduct, r.ProductID)
		pr.total = pr.total.Add(r.Subtotal)
		pr.qty = pr.qty.Add(r.Quantity)
		productMeta[r.ProductID] = r
	}

	for day, a := range byDay {
		out.ByDay = append(out.ByDay, dto.DayTotalDTO{Day: day, Total: a.total, Count: a.count})
	}
	sort.Slice(out.ByDay, func(i, j int) bool { return out.ByDay[i].Day < out.ByDay[j].Day })

	for id, a := range byBranch {
		out.ByBranch = append(out.ByBranch, dto.BranchTotalDTO{BranchID: id, BranchName: branchNames[id], Total: a.total, Count: a.count})
	}
	sort.Slice(out.ByBranch, func(i, j int) bool { return out.ByBranch[i].Total.GreaterThan(out.ByBranch[j].Total) })

	for label, a := range byPayment {
		out.ByPayment = append(out.ByPayment, dto.LabelTotalDTO{Label: label, Total: a.total, Count: a.count})
	}
	sort.Slice(out.ByPayment, func(i, j int) bool { return out.ByPayment[i].Total.GreaterThan(out.ByPayment[j].Total) })

	for id, a := range byProduct {
		meta := productMeta[id]
		out.TopProduct = append(out.TopProduct, dto.ProductTotalDTO{ProductID: id, SKU: meta.SKU, Name: meta.ProductName, Quantity: a.qty, Total: a.total})
	}
	sort.Slice(out.TopProduct, func(i, j int) bool { return out.TopProduct[i].Total.GreaterThan(out.TopProduct[j].Total) })
	if len(out.TopProduct) > 10 {
		out.TopProduct = out.TopProduct[:10]
	}

	return out, nil
}

// DailySummary arma y firma el resumen fiscal del día en XML.
func (uc *UseCase) DailySummary(ctx context.Context, tenantID, day string) ([]byte, error) {
	date, err := time.Parse(dayLayout, day)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	tenant, err := uc.tenantRepo.GetByID(tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrNotFound
	}
	sales, err := uc.Sales(ctx, tenantID, day, day)
	if err != nil {
		return nil, err
	}
	return uc.fiscal.GenerateDailySummary(ctx, tenant, date, sales)
}

// Purchases arma el reporte de compras del período.
func (uc *UseCase) Purchases(ctx context.Context, tenantID, from, to string) (*dto.PurchasesReportDTO, error) {
	start, end, err := ParseRange(from, to)
	if err != nil {
		return nil, err
	}
	rows, err := uc.reportRepo.PurchaseRows(ctx, tenantID, start, end)
	if err != nil {
		return nil, err
	}

	out := &dto.PurchasesReportDTO{
		From:       from,
		To:         to,
		Total:      decimal.Zero,
		ByStatus:   []dto.LabelTotalDTO{},
		BySupplier: []dto.LabelTotalDTO{},
	}
	byStatus := map[string]*dto.LabelTotalDTO{}
	bySupplier := map[string]*dto.LabelTotalDTO{}

	for _, r := range rows {
		out.Total = out.Total.Add(r.Total)
		out.Count++

		s, ok := byStatus[r.Status]
		if !ok {
			s = &dto.LabelTotalDTO{Label: r.Status, Total: decimal.Zero}
			byStatus[r.Status] = s
		}
		s.Total = s.Total.Add(r.Total)
		s.Count++

		p, ok := bySupplier[r.Supplier]
		if !ok {
			p = &dto.LabelTotalDTO{Label: r.Supplier, Total: decimal.Zero}
			bySupplier[r.Supplier] = p
		}
		p.Total = p.Total.Add(r.Total)
		p.Count++
	}

	for _, s := range byStatus {
		out.ByStatus = append(out.ByStatus, *s)
	}
	sort.Slice(out.ByStatus, func(i, j int) bool { return out.ByStatus[i].Label < out.ByStatus[j].Label })
	for _, s := range bySupplier {
		out.BySupplier = append(out.BySupplier, *s)
	}
	sort.Slice(out.BySupplier, func(i, j int) bool { return out.BySupplier[i].Total.GreaterThan(out.BySupplier[j].Total) })

	return out, nil
}

// Cash arma el reporte de caja del período.
func (uc *UseCase) Cash(ctx context.Context, tenantID, from, to string) (*dto.CashReportDTO, error) {
	start, end, err := ParseRange(from, to)
	if err != nil {
		return nil, err
	}
	rows, err := uc.reportRepo.CashRows(ctx, tenantID, start, end)
	if err != nil {
		return nil, err
	}

	out := &dto.CashReportDTO{
		From:     from,
		To:       to,
		Income:   decimal.Zero,
		Expense:  decimal.Zero,
		Net:      decimal.Zero,
		ByType:   []dto.LabelTotalDTO{},
		ByBranch: []dto.LabelTotalDTO{},
	}
	byType := map[string]*dto.LabelTotalDTO{}
	byBranch := map[string]*dto.LabelTotalDTO{}

	for _, r := range rows {
		signed := r.Amount
		if r.Type == entity.CashEntryExpense {
			signed = r.Amount.Neg()
			out.Expense = out.Expense.Add(r.Amount)
		} else {
			out.Income = out.Income.Add(r.Amount)
		}
		out.Net = out.Net.Add(signed)

		t, ok := byType[r.Type]
		if !ok {
			t = &dto.LabelTotalDTO{Label: r.Type, Total: decimal.Zero}
			byType[r.Type] = t
		}
		t.Total = t.Total.Add(r.Amount)
		t.Count++

		b, ok := byBranch[r.BranchID]
		if !ok {
			b = &dto.LabelTotalDTO{Label: r.BranchID, Total: decimal.Zero}
			byBranch[r.BranchID] = b
		}
		b.Total = b.Total.Add(signed)
		b.Count++
	}

	for _, t := range byType {
		out.ByType = append(out.ByType, *t)
	}
	sort.Slice(out.ByType, func(i, j int) bool { return out.ByType[i].Label < out.ByType[j].Label })
	for _, b := range byBranch {
		out.ByBranch = append(out.ByBranch, *b)
	}
	sort.Slice(out.ByBranch, func(i, j int) bool { return out.ByBranch[i].Label < out.ByBranch[j].Label })

	return out, nil
}
