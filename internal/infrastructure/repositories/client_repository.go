package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/you/portalauth/domain"
)

// ClientRepositoryImpl implements domain.ClientRepository using GORM
type ClientRepositoryImpl struct {
	db *gorm.DB
}

// DBPortalClient represents the database model for PortalClient.
// TelegramUsername is a nullable unique column: at most one client per
// linked telegram account, while access-code-only clients carry NULL
type DBPortalClient struct {
	ID               uint    `gorm:"primaryKey"`
	Name             string  `gorm:"size:255"`
	AccessCode       string  `gorm:"column:access_code;uniqueIndex;size:16"`
	TelegramUsername *string `gorm:"column:telegram_username;uniqueIndex;size:64"`
	Status           string  `gorm:"index;size:16"`
	LastLogin        *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName returns the table name for GORM
func (DBPortalClient) TableName() string {
	return "portal_clients"
}

// NewClientRepository creates a new portal client repository
func NewClientRepository(db *gorm.DB) domain.ClientRepository {
	return &ClientRepositoryImpl{db: db}
}

// Create implements domain.ClientRepository. A unique-constraint violation
// on telegram_username or access_code is reported as domain.ErrClientExists
func (r *ClientRepositoryImpl) Create(ctx context.Context, client *domain.PortalClient) error {
	dbClient := r.domainToDB(client)
	if err := r.db.WithContext(ctx).Create(dbClient).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrClientExists
		}
		return err
	}
	client.ID = dbClient.ID
	client.CreatedAt = dbClient.CreatedAt
	client.UpdatedAt = dbClient.UpdatedAt
	return nil
}

// FindByID implements domain.ClientRepository
func (r *ClientRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.PortalClient, error) {
	var dbClient DBPortalClient
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbClient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbClient), nil
}

// FindByAccessCode implements domain.ClientRepository
func (r *ClientRepositoryImpl) FindByAccessCode(ctx context.Context, code string) (*domain.PortalClient, error) {
	var dbClient DBPortalClient
	err := r.db.WithContext(ctx).Where("access_code = ?", code).First(&dbClient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbClient), nil
}

// FindByTelegramUsername implements domain.ClientRepository. Usernames are
// stored lowercased, so the lookup is case-insensitive
func (r *ClientRepositoryImpl) FindByTelegramUsername(ctx context.Context, username string) (*domain.PortalClient, error) {
	var dbClient DBPortalClient
	err := r.db.WithContext(ctx).Where("telegram_username = ?", strings.ToLower(username)).First(&dbClient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbClient), nil
}

// UpdateLastLogin implements domain.ClientRepository
func (r *ClientRepositoryImpl) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&DBPortalClient{}).Where("id = ?", id).Update("last_login", at).Error
}

// domainToDB converts a domain client to the database model
func (r *ClientRepositoryImpl) domainToDB(client *domain.PortalClient) *DBPortalClient {
	dbClient := &DBPortalClient{
		ID:         client.ID,
		Name:       client.Name,
		AccessCode: client.AccessCode,
		Status:     client.Status,
		LastLogin:  client.LastLogin,
	}
	if client.TelegramUsername != "" {
		username := strings.ToLower(client.TelegramUsername)
		dbClient.TelegramUsername = &username
	}
	return dbClient
}

// dbToDomain converts a database client to the domain model
func (r *ClientRepositoryImpl) dbToDomain(dbClient *DBPortalClient) *domain.PortalClient {
	client := &domain.PortalClient{
		ID:         dbClient.ID,
		Name:       dbClient.Name,
		AccessCode: dbClient.AccessCode,
		Status:     dbClient.Status,
		LastLogin:  dbClient.LastLogin,
		CreatedAt:  dbClient.CreatedAt,
		UpdatedAt:  dbClient.UpdatedAt,
	}
	if dbClient.TelegramUsername != nil {
		client.TelegramUsername = *dbClient.TelegramUsername
	}
	return client
}
