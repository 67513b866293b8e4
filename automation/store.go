package automation

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/books_automation/config"
	"bitbucket.org/mmdatafocus/books_automation/models"
	"bitbucket.org/mmdatafocus/books_automation/utils"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// DataStore is the persistence boundary of the engine. Read accessors fetch
// the current tenant's collections (tenant scoping comes from the context);
// write accessors save one entity each. Tests substitute a fake.
type DataStore interface {
	// EnabledBusinessSettings lists tenants with automation switched on.
	// It is the only call that crosses tenant boundaries.
	EnabledBusinessSettings(ctx context.Context) ([]models.BusinessSetting, error)

	Products(ctx context.Context) ([]models.Product, error)
	StockLevels(ctx context.Context) ([]models.StockLevel, error)
	Debts(ctx context.Context) ([]models.Debt, error)
	Customers(ctx context.Context) ([]models.Customer, error)
	Expenses(ctx context.Context) ([]models.Expense, error)
	Incomes(ctx context.Context) ([]models.Income, error)
	PurchaseOrders(ctx context.Context) ([]models.PurchaseOrder, error)
	RecentSales(ctx context.Context, since time.Time) ([]models.Sale, error)
	Projects(ctx context.Context) ([]models.Project, error)

	SaveExpense(ctx context.Context, expense *models.Expense, isNew bool) error
	SaveIncome(ctx context.Context, income *models.Income, isNew bool) error
	SaveProject(ctx context.Context, project *models.Project, isNew bool) error
	SaveCustomer(ctx context.Context, customer *models.Customer, isNew bool) error
	SavePurchaseOrder(ctx context.Context, order *models.PurchaseOrder, isNew bool) error

	// CommitExpenseRecurrence persists one template's generated drafts and
	// its cursor advancement in a single transaction, so a failed save can
	// neither lose a draft nor advance the cursor past unsaved work.
	CommitExpenseRecurrence(ctx context.Context, batch ExpenseRecurrenceBatch) error
	CommitIncomeRecurrence(ctx context.Context, batch IncomeRecurrenceBatch) error

	// MarkAlerted inserts into the dedup ledger. It returns true when this
	// call won the insert (first alert for the rule/reference pair) and
	// false when the row already existed.
	MarkAlerted(ctx context.Context, ruleName string, referenceId int) (bool, error)
}

const mysqlDuplicateEntry = 1062

// The enabled-tenant list is the only cross-tenant scan and changes rarely,
// so it is cached for a few ticks. A newly enabled business starts ticking
// within the cache TTL at the latest.
const (
	settingsCacheKey = "automation:enabled_settings"
	settingsCacheTTL = 5 * time.Minute
)

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) EnabledBusinessSettings(ctx context.Context) ([]models.BusinessSetting, error) {
	var cached []models.BusinessSetting
	if hit, err := config.GetRedisObject(settingsCacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	// Listing tenants must not be scoped to one tenant.
	ctx = context.WithValue(ctx, utils.ContextKeySkipTenantScope, true)
	var settings []models.BusinessSetting
	err := s.DB.WithContext(ctx).
		Where("automation_enabled = ?", true).
		Order("business_id ASC").
		Find(&settings).Error
	if err != nil {
		return nil, err
	}
	_ = config.SetRedisObject(settingsCacheKey, settings, settingsCacheTTL)
	return settings, nil
}

func (s *GormStore) Products(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	err := s.DB.WithContext(ctx).Where("is_active = ?", true).Find(&items).Error
	return items, err
}

func (s *GormStore) StockLevels(ctx context.Context) ([]models.StockLevel, error) {
	var items []models.StockLevel
	err := s.DB.WithContext(ctx).Find(&items).Error
	return items, err
}

func (s *GormStore) Debts(ctx context.Context) ([]models.Debt, error) {
	var items []models.Debt
	err := s.DB.WithContext(ctx).Find(&items).Error
	return items, err
}

func (s *GormStore) Customers(ctx context.Context) ([]models.Customer, error) {
	var items []models.Customer
	err := s.DB.WithContext(ctx).Find(&items).Error
	return items, err
}

func (s *GormStore) Expenses(ctx context.Context) ([]models.Expense, error) {
	var items []models.Expense
	err := s.DB.WithContext(ctx).Find(&items).Error
	return items, err
}

func (s *GormStore) Incomes(ctx context.Context) ([]models.Income, error) {
	var items []models.Income
	err := s.DB.WithContext(ctx).Find(&items).Error
	return items, err
}

func (s *GormStore) PurchaseOrders(ctx context.Context) ([]models.PurchaseOrder, error) {
	var items []models.PurchaseOrder
	err := s.DB.WithContext(ctx).Preload("Details").Find(&items).Error
	return items, err
}

func (s *GormStore) RecentSales(ctx context.Context, since time.Time) ([]models.Sale, error) {
	var items []models.Sale
	err := s.DB.WithContext(ctx).
		Preload("Items").
		Where("sale_date >= ?", since).
		Find(&items).Error
	return items, err
}

func (s *GormStore) Projects(ctx context.Context) ([]models.Project, error) {
	var items []models.Project
	err := s.DB.WithContext(ctx).Find(&items).Error
	return items, err
}

func (s *GormStore) SaveExpense(ctx context.Context, expense *models.Expense, isNew bool) error {
	return s.save(ctx, expense, isNew)
}

func (s *GormStore) SaveIncome(ctx context.Context, income *models.Income, isNew bool) error {
	return s.save(ctx, income, isNew)
}

func (s *GormStore) SaveProject(ctx context.Context, project *models.Project, isNew bool) error {
	return s.save(ctx, project, isNew)
}

func (s *GormStore) SaveCustomer(ctx context.Context, customer *models.Customer, isNew bool) error {
	return s.save(ctx, customer, isNew)
}

func (s *GormStore) SavePurchaseOrder(ctx context.Context, order *models.PurchaseOrder, isNew bool) error {
	return s.save(ctx, order, isNew)
}

func (s *GormStore) save(ctx context.Context, entity any, isNew bool) error {
	tx := s.DB.WithContext(ctx)
	if isNew {
		return tx.Create(entity).Error
	}
	return tx.Save(entity).Error
}

func (s *GormStore) CommitExpenseRecurrence(ctx context.Context, batch ExpenseRecurrenceBatch) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range batch.Drafts {
			if err := tx.Create(&batch.Drafts[i]).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Expense{}).
			Where("id = ?", batch.TemplateId).
			Update("last_recurrence_date", batch.NewCursor).Error
	})
}

func (s *GormStore) CommitIncomeRecurrence(ctx context.Context, batch IncomeRecurrenceBatch) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range batch.Drafts {
			if err := tx.Create(&batch.Drafts[i]).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Income{}).
			Where("id = ?", batch.TemplateId).
			Update("last_recurrence_date", batch.NewCursor).Error
	})
}

func (s *GormStore) MarkAlerted(ctx context.Context, ruleName string, referenceId int) (bool, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return false, errors.New("business id missing from context")
	}
	record := models.AutomationAlert{
		BusinessId:  businessId,
		RuleName:    ruleName,
		ReferenceId: referenceId,
	}
	err := s.DB.WithContext(ctx).Create(&record).Error
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
