package repository

import (
	"context"

	"adlaan-backend/internal/models"

	"gorm.io/gorm"
)

// DirectoryRepository reads the tenant directory: organizations, users,
// cases and clients.
type DirectoryRepository struct {
	db *gorm.DB
}

func NewDirectoryRepository(db *gorm.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

func (r *DirectoryRepository) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *DirectoryRepository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *DirectoryRepository) GetOrganization(ctx context.Context, id uint) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).First(&org, id).Error; err != nil {
		return nil, translate(err)
	}
	return &org, nil
}

// GetCase loads a case inside the organization.
func (r *DirectoryRepository) GetCase(ctx context.Context, orgID, id uint) (*models.Case, error) {
	var c models.Case
	if err := r.db.WithContext(ctx).Where("id = ? AND organization_id = ?", id, orgID).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// GetClient loads a client inside the organization.
func (r *DirectoryRepository) GetClient(ctx context.Context, orgID, id uint) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).Where("id = ? AND organization_id = ?", id, orgID).First(&client).Error; err != nil {
		return nil, translate(err)
	}
	return &client, nil
}

func (r *DirectoryRepository) CreateOrganization(ctx context.Context, org *models.Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

func (r *DirectoryRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *DirectoryRepository) CreateCase(ctx context.Context, c *models.Case) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *DirectoryRepository) CreateClient(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}
