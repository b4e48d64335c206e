package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/OpenFormsApp/OpenForms/app/models"
)

// paymentRepository implements the PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository instance
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create creates a new payment record
func (r *paymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// GetByIDAndUser retrieves a payment owned by the given user
func (r *paymentRepository) GetByIDAndUser(id, userID uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetPendingByIDAndUser retrieves an owned payment that is still pending
func (r *paymentRepository) GetPendingByIDAndUser(id, userID uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Where("id = ? AND user_id = ? AND status = ?",
		id, userID, models.PAYMENT_STATUS_PENDING).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// Update saves a payment record
func (r *paymentRepository) Update(payment *models.Payment) error {
	return r.db.Save(payment).Error
}

// CompletedExistsForUserApplication reports whether the submission already
// links to a completed payment
func (r *paymentRepository) CompletedExistsForUserApplication(userApplicationID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Payment{}).
		Joins("JOIN user_applications ON user_applications.payment_id = payments.id").
		Where("user_applications.id = ? AND payments.status = ?",
			userApplicationID, models.PAYMENT_STATUS_COMPLETED).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkCompleted persists the completed payment and propagates payment id and
// amount onto the linked submission inside one transaction, so either both
// rows are visible or neither is.
func (r *paymentRepository) MarkCompleted(payment *models.Payment, userApplicationID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(payment).Error; err != nil {
			return err
		}
		if userApplicationID == 0 {
			return nil
		}
		return tx.Model(&models.UserApplication{}).
			Where("id = ?", userApplicationID).
			Updates(map[string]interface{}{
				"payment_id":  payment.ID,
				"amount_paid": payment.Amount,
			}).Error
	})
}

// ListByUser retrieves a user's payments with pagination and status filter
func (r *paymentRepository) ListByUser(userID uint, status string, opts ListOptions) ([]models.Payment, int64, error) {
	query := r.db.Model(&models.Payment{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []models.Payment
	err := query.Order("created_at DESC").
		Offset(opts.Offset).Limit(opts.Limit).
		Find(&payments).Error
	return payments, total, err
}

// SumCompleted returns total revenue over completed payments
func (r *paymentRepository) SumCompleted() (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.Model(&models.Payment{}).
		Select("SUM(amount)").
		Where("status = ?", models.PAYMENT_STATUS_COMPLETED).
		Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

// AverageCompleted returns the mean completed payment amount
func (r *paymentRepository) AverageCompleted() (decimal.Decimal, error) {
	var average decimal.NullDecimal
	err := r.db.Model(&models.Payment{}).
		Select("AVG(amount)").
		Where("status = ?", models.PAYMENT_STATUS_COMPLETED).
		Scan(&average).Error
	if err != nil || !average.Valid {
		return decimal.Zero, err
	}
	return average.Decimal, nil
}

// RevenueByDay returns day-bucketed completed revenue since the given time
func (r *paymentRepository) RevenueByDay(since time.Time) ([]RevenueStat, error) {
	var stats []RevenueStat
	err := r.db.Model(&models.Payment{}).
		Select("DATE(paid_at) AS date, SUM(amount) AS revenue, COUNT(id) AS transactions").
		Where("status = ? AND paid_at >= ?", models.PAYMENT_STATUS_COMPLETED, since).
		Group("DATE(paid_at)").
		Order("DATE(paid_at) ASC").
		Scan(&stats).Error
	return stats, err
}

// GatewayDistribution returns completed payment counts and totals per gateway
func (r *paymentRepository) GatewayDistribution() ([]GatewayStat, error) {
	var stats []GatewayStat
	err := r.db.Model(&models.Payment{}).
		Select("payment_gateway, COUNT(id) AS count, SUM(amount) AS total").
		Where("status = ?", models.PAYMENT_STATUS_COMPLETED).
		Group("payment_gateway").
		Scan(&stats).Error
	return stats, err
}
