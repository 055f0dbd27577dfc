package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/you/portalauth/domain"
)

// SessionRepositoryImpl implements domain.SessionRepository using GORM.
// Sessions are durable rows: they must survive restarts and be visible to
// every instance, unlike the in-process challenge store
type SessionRepositoryImpl struct {
	db  *gorm.DB
	now func() time.Time
}

// DBPortalSession represents the database model for PortalSession
type DBPortalSession struct {
	Token     string    `gorm:"primaryKey;size:64"`
	ClientID  uint      `gorm:"column:client_id;index"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (DBPortalSession) TableName() string {
	return "portal_sessions"
}

// NewSessionRepository creates a new portal session repository
func NewSessionRepository(db *gorm.DB) domain.SessionRepository {
	return &SessionRepositoryImpl{db: db, now: time.Now}
}

// Create implements domain.SessionRepository
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *domain.PortalSession) error {
	dbSession := &DBPortalSession{
		Token:     session.Token,
		ClientID:  session.ClientID,
		ExpiresAt: session.ExpiresAt,
	}
	if err := r.db.WithContext(ctx).Create(dbSession).Error; err != nil {
		return err
	}
	session.CreatedAt = dbSession.CreatedAt
	return nil
}

// FindByToken implements domain.SessionRepository. An expired row is
// deleted on read and reported as not found
func (r *SessionRepositoryImpl) FindByToken(ctx context.Context, token string) (*domain.PortalSession, error) {
	var dbSession DBPortalSession
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&dbSession).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	if !r.now().Before(dbSession.ExpiresAt) {
		r.db.WithContext(ctx).Where("token = ?", token).Delete(&DBPortalSession{})
		return nil, domain.ErrSessionNotFound
	}

	return &domain.PortalSession{
		Token:     dbSession.Token,
		ClientID:  dbSession.ClientID,
		ExpiresAt: dbSession.ExpiresAt,
		CreatedAt: dbSession.CreatedAt,
	}, nil
}

// DeleteByToken implements domain.SessionRepository. Deleting an absent
// token is a no-op
func (r *SessionRepositoryImpl) DeleteByToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Where("token = ?", token).Delete(&DBPortalSession{}).Error
}

// DeleteByClient implements domain.SessionRepository
func (r *SessionRepositoryImpl) DeleteByClient(ctx context.Context, clientID uint) error {
	return r.db.WithContext(ctx).Where("client_id = ?", clientID).Delete(&DBPortalSession{}).Error
}
