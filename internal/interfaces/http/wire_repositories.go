package http

import (
	"gorm.io/gorm"

	"github.com/orris-inc/subtrack/internal/domain/assignment"
	"github.com/orris-inc/subtrack/internal/domain/customer"
	"github.com/orris-inc/subtrack/internal/domain/product"
	"github.com/orris-inc/subtrack/internal/domain/user"
	"github.com/orris-inc/subtrack/internal/infrastructure/cache"
	"github.com/orris-inc/subtrack/internal/infrastructure/repository"
	"github.com/orris-inc/subtrack/internal/shared/config"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	customerRepo   customer.Repository
	productRepo    product.Repository
	assignmentRepo assignment.Repository
	userRepo       user.Repository
}

// newRepositories creates all repository instances from the database connection.
// Product reads go through an in-process LRU since every mapping view joins them.
func newRepositories(db *gorm.DB, cacheCfg config.CacheConfig, log logger.Interface) *repositories {
	productRepo := repository.NewProductRepository(db, log)

	return &repositories{
		customerRepo:   repository.NewCustomerRepository(db, log),
		productRepo:    cache.NewCachedProductRepository(productRepo, cacheCfg.ProductSize, cacheCfg.ProductTTL()),
		assignmentRepo: repository.NewAssignmentRepository(db, log),
		userRepo:       repository.NewUserRepository(db, log),
	}
}
