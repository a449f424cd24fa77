package paymentController

import (
	"academy/config"
	"academy/database"
	commerceModels "academy/models/commerce"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDb(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	config.AppConfig = &config.Config{
		JWTKey:          "test-secret",
		SaltRound:       4,
		AdminCommission: 0.15,
	}

	t.Cleanup(func() {
		db.Exec("DELETE FROM payments")
		db.Exec("DELETE FROM coupon_usages")
		db.Exec("DELETE FROM coupon_courses")
		db.Exec("DELETE FROM coupons")
		db.Exec("DELETE FROM enrollments")
		db.Exec("DELETE FROM courses")
		db.Exec("DELETE FROM instructors")
		db.Exec("DELETE FROM users")
		sqlDB.Close()
	})

	return db
}

func makeCoupon(t *testing.T, db *gorm.DB, coupon commerceModels.Coupon) commerceModels.Coupon {
	t.Helper()
	if coupon.Code == "" {
		coupon.Code = "SAVE20"
	}
	if coupon.DiscountType == "" {
		coupon.DiscountType = commerceModels.DiscountPercentage
	}
	if coupon.DiscountValue == 0 {
		coupon.DiscountValue = 20
	}
	if coupon.ValidFrom.IsZero() {
		coupon.ValidFrom = time.Now().Add(-time.Hour)
	}
	if coupon.ValidUntil.IsZero() {
		coupon.ValidUntil = time.Now().Add(time.Hour)
	}
	coupon.IsActive = true
	require.NoError(t, db.Create(&coupon).Error)
	return coupon
}

func TestValidateCouponForCourse(t *testing.T) {
	db := setupTestDb(t)

	t.Run("unknown code", func(t *testing.T) {
		_, err := validateCouponForCourse(db, "NOPE", 1, 1)
		assert.ErrorIs(t, err, errCouponNotFound)
	})

	t.Run("code is case insensitive", func(t *testing.T) {
		makeCoupon(t, db, commerceModels.Coupon{Code: "WELCOME"})
		coupon, err := validateCouponForCourse(db, "  welcome ", 1, 1)
		require.NoError(t, err)
		assert.Equal(t, "WELCOME", coupon.Code)
	})

	t.Run("inactive coupon", func(t *testing.T) {
		c := makeCoupon(t, db, commerceModels.Coupon{Code: "OFFLINE"})
		require.NoError(t, db.Model(&c).Update("is_active", false).Error)
		_, err := validateCouponForCourse(db, "OFFLINE", 1, 1)
		assert.ErrorIs(t, err, errCouponInactive)
	})

	t.Run("not started yet", func(t *testing.T) {
		makeCoupon(t, db, commerceModels.Coupon{
			Code:       "FUTURE",
			ValidFrom:  time.Now().Add(time.Hour),
			ValidUntil: time.Now().Add(2 * time.Hour),
		})
		_, err := validateCouponForCourse(db, "FUTURE", 1, 1)
		assert.ErrorIs(t, err, errCouponNotStarted)
	})

	t.Run("expired", func(t *testing.T) {
		makeCoupon(t, db, commerceModels.Coupon{
			Code:       "OLD",
			ValidFrom:  time.Now().Add(-2 * time.Hour),
			ValidUntil: time.Now().Add(-time.Hour),
		})
		_, err := validateCouponForCourse(db, "OLD", 1, 1)
		assert.ErrorIs(t, err, errCouponExpired)
	})

	t.Run("usage cap reached", func(t *testing.T) {
		limit := 2
		c := makeCoupon(t, db, commerceModels.Coupon{Code: "CAPPED", UsageLimit: &limit})
		require.NoError(t, db.Model(&c).Update("used_count", 2).Error)
		_, err := validateCouponForCourse(db, "CAPPED", 1, 1)
		assert.ErrorIs(t, err, errCouponExhausted)
	})

	t.Run("course allow-list", func(t *testing.T) {
		makeCoupon(t, db, commerceModels.Coupon{
			Code:    "ONLY42",
			Courses: []commerceModels.CouponCourse{{CourseID: 42}},
		})

		_, err := validateCouponForCourse(db, "ONLY42", 1, 7)
		assert.ErrorIs(t, err, errCouponNotForCourse)

		coupon, err := validateCouponForCourse(db, "ONLY42", 1, 42)
		require.NoError(t, err)
		assert.Equal(t, "ONLY42", coupon.Code)
	})

	t.Run("already used by this user for this course", func(t *testing.T) {
		c := makeCoupon(t, db, commerceModels.Coupon{Code: "ONCE"})
		require.NoError(t, db.Create(&commerceModels.CouponUsage{
			CouponID: c.ID,
			UserID:   9,
			CourseID: 3,
		}).Error)

		_, err := validateCouponForCourse(db, "ONCE", 9, 3)
		assert.ErrorIs(t, err, errCouponAlreadyUsed)

		// Same user, different course is fine
		_, err = validateCouponForCourse(db, "ONCE", 9, 4)
		assert.NoError(t, err)
	})
}

func TestApplyDiscount(t *testing.T) {
	percentage := &commerceModels.Coupon{
		DiscountType:  commerceModels.DiscountPercentage,
		DiscountValue: 25,
	}
	assert.Equal(t, 25.0, applyDiscount(percentage, 100))
	assert.Equal(t, 12.5, applyDiscount(percentage, 50))

	fixed := &commerceModels.Coupon{
		DiscountType:  commerceModels.DiscountFixed,
		DiscountValue: 30,
	}
	assert.Equal(t, 30.0, applyDiscount(fixed, 100))

	// Fixed discounts never push the price below zero
	assert.Equal(t, 10.0, applyDiscount(fixed, 10))

	full := &commerceModels.Coupon{
		DiscountType:  commerceModels.DiscountPercentage,
		DiscountValue: 100,
	}
	assert.Equal(t, 49.99, applyDiscount(full, 49.99))
}

func TestConsumeCouponRespectsCap(t *testing.T) {
	db := setupTestDb(t)

	limit := 3
	coupon := makeCoupon(t, db, commerceModels.Coupon{Code: "CAP3", UsageLimit: &limit})

	for i := uint(1); i <= 3; i++ {
		require.NoError(t, consumeCoupon(db, &coupon, i, 1, 10))
	}

	err := consumeCoupon(db, &coupon, 4, 1, 10)
	assert.ErrorIs(t, err, errCouponExhausted)

	var fresh commerceModels.Coupon
	require.NoError(t, db.First(&fresh, coupon.ID).Error)
	assert.Equal(t, 3, fresh.UsedCount)

	var usages int64
	db.Model(&commerceModels.CouponUsage{}).Where("coupon_id = ?", coupon.ID).Count(&usages)
	assert.EqualValues(t, 3, usages)
}

func TestConsumeCouponDoubleRedemptionRollsBack(t *testing.T) {
	db := setupTestDb(t)

	coupon := makeCoupon(t, db, commerceModels.Coupon{Code: "DOUBLE"})

	require.NoError(t, consumeCoupon(db, &coupon, 5, 8, 10))
	err := consumeCoupon(db, &coupon, 5, 8, 10)
	assert.ErrorIs(t, err, errCouponAlreadyUsed)

	// The failed redemption must not leave a half-burned use behind
	var fresh commerceModels.Coupon
	require.NoError(t, db.First(&fresh, coupon.ID).Error)
	assert.Equal(t, 1, fresh.UsedCount)
}

func TestConsumeCouponConcurrent(t *testing.T) {
	db := setupTestDb(t)

	limit := 5
	coupon := makeCoupon(t, db, commerceModels.Coupon{Code: "RACE", UsageLimit: &limit})

	var wg sync.WaitGroup
	results := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			results <- consumeCoupon(db, &coupon, userID, 1, 10)
		}(uint(i + 1))
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 5, succeeded)

	var fresh commerceModels.Coupon
	require.NoError(t, db.First(&fresh, coupon.ID).Error)
	assert.Equal(t, 5, fresh.UsedCount)
}
