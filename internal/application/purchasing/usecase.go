package purchasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/inventory"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// UseCase casos de uso de compras: creación en estado pendiente y recepción
// transaccional con guardia de idempotencia (el stock se incrementa una sola
// vez por compra, un segundo "recibir" devuelve domain.ErrAlreadyReceived).
type UseCase struct {
	txRunner     TxRunner
	purchaseRepo repository.PurchaseRepository
	productRepo  repository.ProductRepository
	branchRepo   repository.BranchRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		branchRepo:   branchRepo,
	}
}

// Create registra la compra en estado pendiente. Valida que la sucursal y
// todos los productos pertenezcan al tenant.
func (uc *UseCase) Create(ctx context.Context, tenantID, userID string, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if in.BranchID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	branch, _ := uc.branchRepo.GetByID(in.BranchID)
	if branch == nil || branch.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	p := &entity.Purchase{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		BranchID:  in.BranchID,
		UserID:    userID,
		Supplier:  in.Supplier,
		Status:    entity.PurchaseStatusPending,
		Total:     decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	items := make([]entity.PurchaseItem, 0, len(in.Items))
	for _, it := range in.Items {
		if !it.Quantity.GreaterThan(decimal.Zero) || it.UnitCost.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, _ := uc.productRepo.GetByID(it.ProductID)
		if product == nil || product.TenantID != tenantID {
			return nil, domain.ErrNotFound
		}
		subtotal := it.Quantity.Mul(it.UnitCost)
		items = append(items, entity.PurchaseItem{
			ID:         uuid.New().String(),
			PurchaseID: p.ID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitCost:   it.UnitCost,
			Subtotal:   subtotal,
		})
		p.Total = p.Total.Add(subtotal)
	}
	if err := uc.purchaseRepo.Create(p, items); err != nil {
		return nil, err
	}
	return uc.toResponse(p, items), nil
}

// Receive marca la compra como recibida e incrementa el stock de la sucursal,
// todo en una transacción. La transición de estado es la guardia: si la fila
// ya estaba en "recibida", ningún movimiento de stock se aplica y se devuelve
// domain.ErrAlreadyReceived.
func (uc *UseCase) Receive(ctx context.Context, tenantID, userID, purchaseID string) (*dto.PurchaseResponse, error) {
	var out *dto.PurchaseResponse
	err := uc.txRunner.RunPurchase(ctx, func(
		purchaseRepo repository.PurchaseRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		p, err := purchaseRepo.GetForUpdate(purchaseID)
		if err != nil {
			return err
		}
		if p == nil || p.TenantID != tenantID {
			return domain.ErrNotFound
		}
		switch p.Status {
		case entity.PurchaseStatusReceived:
			return domain.ErrAlreadyReceived
		case entity.PurchaseStatusCancelled:
			return domain.ErrConflict
		}

		now := time.Now()
		ok, err := purchaseRepo.MarkReceived(p.ID, userID, now)
		if err != nil {
			return err
		}
		if !ok {
			// La fila cambió entre el SELECT FOR UPDATE y el UPDATE; con el
			// bloqueo no debería pasar, pero la guardia manda.
			return domain.ErrAlreadyReceived
		}

		items, err := purchaseRepo.ItemsByPurchase(p.ID)
		if err != nil {
			return err
		}
		for _, it := range items {
			stock, err := stockRepo.GetForUpdate(it.ProductID, p.BranchID)
			if err != nil {
				return err
			}
			prevQty := stock.Quantity
			stock.Quantity = prevQty.Add(it.Quantity)
			stock.BranchID = p.BranchID
			stock.ProductID = it.ProductID
			if err := stockRepo.Upsert(stock); err != nil {
				return err
			}
			unitCost := it.UnitCost
			if err := movRepo.Create(&entity.StockMovement{
				ID:        uuid.New().String(),
				TenantID:  tenantID,
				ProductID: it.ProductID,
				BranchID:  p.BranchID,
				UserID:    userID,
				Type:      entity.MovementTypeIN,
				Quantity:  it.Quantity,
				UnitCost:  &unitCost,
				RefID:     p.ID,
				CreatedAt: now,
			}); err != nil {
				return err
			}
			// Costo promedio ponderado contra el stock previo bajo bloqueo.
			product, err := productRepo.GetByID(it.ProductID)
			if err != nil || product == nil {
				return domain.ErrNotFound
			}
			product.Cost = inventory.WeightedAverageCost(prevQty, product.Cost, it.Quantity, it.UnitCost)
			product.UpdatedAt = now
			if err := productRepo.Update(product); err != nil {
				return err
			}
		}

		p.Status = entity.PurchaseStatusReceived
		p.ReceivedAt = &now
		p.ReceivedBy = userID
		out = uc.toResponse(p, items)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID obtiene la compra con sus líneas.
func (uc *UseCase) GetByID(tenantID, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.TenantID != tenantID {
		return nil, nil
	}
	items, err := uc.purchaseRepo.ItemsByPurchase(p.ID)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(p, items), nil
}

// List lista compras del tenant, opcionalmente filtradas por estado.
func (uc *UseCase) List(tenantID, status string, limit, offset int) ([]dto.PurchaseResponse, error) {
	list, err := uc.purchaseRepo.ListByTenant(tenantID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *uc.toResponse(p, nil))
	}
	return items, nil
}

// Cancel anula una compra pendiente. Una compra recibida no puede anularse.
func (uc *UseCase) Cancel(tenantID, id string) error {
	p, err := uc.purchaseRepo.GetByID(id)
	if err != nil {
		return err
	}
	if p == nil || p.TenantID != tenantID {
		return domain.ErrNotFound
	}
	if p.Status != entity.PurchaseStatusPending {
		return domain.ErrConflict
	}
	return uc.purchaseRepo.UpdateStatus(id, entity.PurchaseStatusCancelled)
}

func (uc *UseCase) toResponse(p *entity.Purchase, items []entity.PurchaseItem) *dto.PurchaseResponse {
	resp := &dto.PurchaseResponse{
		ID:         p.ID,
		TenantID:   p.TenantID,
		BranchID:   p.BranchID,
		Supplier:   p.Supplier,
		Status:     p.Status,
		Total:      p.Total,
		ReceivedAt: p.ReceivedAt,
		ReceivedBy: p.ReceivedBy,
		CreatedAt:  p.CreatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.PurchaseItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitCost:  it.UnitCost,
			Subtotal:  it.Subtotal,
		})
	}
	return resp
}
