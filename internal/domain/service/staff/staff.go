package staff

import (
	"context"
	"net/mail"
	"strings"

	"students-erp/internal/domain"
	"students-erp/internal/domain/entity"
	"students-erp/pkg/errcodes"
)

type ManagerRepository interface {
	// Create заводит менеджера вместе с пустым кошельком одной транзакцией.
	Create(ctx context.Context, manager *entity.Manager, wallet *entity.Wallet) error
	GetByID(ctx context.Context, id int64) (*entity.Manager, error)
	List(ctx context.Context) ([]entity.Manager, error)
}

type WalletRepository interface {
	GetByManager(ctx context.Context, managerID int64) (*entity.Wallet, error)
	UpdateSettings(ctx context.Context, wallet *entity.Wallet) error
}

// Service управляет менеджерами и настройками их кошельков.
type Service struct {
	managers ManagerRepository
	wallets  WalletRepository
}

func NewService(managers ManagerRepository, wallets WalletRepository) *Service {
	return &Service{managers: managers, wallets: wallets}
}

func (s *Service) Create(ctx context.Context, manager *entity.Manager) error {
	manager.Email = strings.ToLower(strings.TrimSpace(manager.Email))

	if _, err := mail.ParseAddress(manager.Email); err != nil {
		return domain.NewError(errcodes.ValidationError, "invalid manager email")
	}

	wallet := &entity.Wallet{}

	return s.managers.Create(ctx, manager, wallet)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*entity.Manager, error) {
	return s.managers.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]entity.Manager, error) {
	return s.managers.List(ctx)
}

// UpdateWalletSettings меняет оклад, процент комиссии и KPI кошелька.
// Баланс этим путём не трогается, он меняется только расчётными операциями.
func (s *Service) UpdateWalletSettings(ctx context.Context, wallet *entity.Wallet) error {
	if wallet.CommissionPercent.Sign() < 0 || wallet.FixedSalary.Sign() < 0 {
		return domain.NewError(errcodes.ValidationError, "wallet settings must not be negative")
	}

	current, err := s.wallets.GetByManager(ctx, wallet.ManagerID)
	if err != nil {
		return err
	}
	wallet.CurrentBalance = current.CurrentBalance
	wallet.CurrentMonthRevenue = current.CurrentMonthRevenue

	return s.wallets.UpdateSettings(ctx, wallet)
}
