package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// StockUseCase consultas de stock y ajustes manuales. El stock solo cambia
// por compra recibida, venta confirmada o ajuste; los tres caminos pasan por
// bloqueo de fila y dejan movimiento.
type StockUseCase struct {
	txRunner    StockTxRunner
	stockRepo   repository.StockRepository
	movRepo     repository.StockMovementRepository
	productRepo repository.ProductRepository
	branchRepo  repository.BranchRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	txRunner StockTxRunner,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
) *StockUseCase {
	return &StockUseCase{
		txRunner:    txRunner,
		stockRepo:   stockRepo,
		movRepo:     movRepo,
		productRepo: productRepo,
		branchRepo:  branchRepo,
	}
}

// Adjust aplica un ajuste manual con delta firmado. El stock resultante no
// puede quedar negativo.
func (uc *StockUseCase) Adjust(ctx context.Context, tenantID, userID, productID string, in dto.AdjustStockRequest) (*dto.StockResponse, error) {
	if in.BranchID == "" || in.Quantity.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	product, _ := uc.productRepo.GetByID(productID)
	if product == nil || product.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	branch, _ := uc.branchRepo.GetByID(in.BranchID)
	if branch == nil || branch.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	var out *dto.StockResponse
	err := uc.txRunner.RunStock(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		stock, err := stockRepo.GetForUpdate(productID, in.BranchID)
		if err != nil {
			return err
		}
		newQty := stock.Quantity.Add(in.Quantity)
		if newQty.LessThan(decimal.Zero) {
			return domain.ErrInsufficientStock
		}
		stock.Quantity = newQty
		stock.ProductID = productID
		stock.BranchID = in.BranchID
		if err := stockRepo.Upsert(stock); err != nil {
			return err
		}
		if err := movRepo.Create(&entity.StockMovement{
			ID:        uuid.New().String(),
			TenantID:  tenantID,
			ProductID: productID,
			BranchID:  in.BranchID,
			UserID:    userID,
			Type:      entity.MovementTypeADJUSTMENT,
			Quantity:  in.Quantity.Abs(),
			Note:      in.Note,
			CreatedAt: time.Now(),
		}); err != nil {
			return err
		}
		out = &dto.StockResponse{
			ProductID: productID,
			BranchID:  in.BranchID,
			Quantity:  newQty,
			UpdatedAt: time.Now(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get devuelve el stock de un producto en una sucursal.
func (uc *StockUseCase) Get(tenantID, productID, branchID string) (*dto.StockResponse, error) {
	product, _ := uc.productRepo.GetByID(productID)
	if product == nil || product.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	stock, err := uc.stockRepo.Get(productID, branchID)
	if err != nil {
		return nil, err
	}
	return &dto.StockResponse{
		ProductID: stock.ProductID,
		BranchID:  stock.BranchID,
		Quantity:  stock.Quantity,
		UpdatedAt: stock.UpdatedAt,
	}, nil
}

// ListByBranch lista el stock de la sucursal.
func (uc *StockUseCase) ListByBranch(tenantID, branchID string) ([]dto.StockResponse, error) {
	branch, _ := uc.branchRepo.GetByID(branchID)
	if branch == nil || branch.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	list, err := uc.stockRepo.ListByBranch(branchID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		items = append(items, dto.StockResponse{
			ProductID: s.ProductID,
			BranchID:  s.BranchID,
			Quantity:  s.Quantity,
			UpdatedAt: s.UpdatedAt,
		})
	}
	return items, nil
}

// Movements lista el historial de movimientos de un producto.
func (uc *StockUseCase) Movements(tenantID, productID string, limit, offset int) ([]dto.StockMovementResponse, error) {
	list, err := uc.movRepo.ListByProduct(tenantID, productID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.StockMovementResponse{
			ID:        m.ID,
			ProductID: m.ProductID,
			BranchID:  m.BranchID,
			UserID:    m.UserID,
			Type:      m.Type,
			Quantity:  m.Quantity,
			UnitCost:  m.UnitCost,
			RefID:     m.RefID,
			Note:      m.Note,
			CreatedAt: m.CreatedAt,
		})
	}
	return items, nil
}
